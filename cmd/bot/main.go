package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-inspire-bot/internal/application/subscription"
	"github.com/go-inspire-bot/internal/config"
	"github.com/go-inspire-bot/internal/infrastructure/dynamo"
	snsinfra "github.com/go-inspire-bot/internal/infrastructure/sns"
	"github.com/go-inspire-bot/internal/infrastructure/zenquotes"
	transporthttp "github.com/go-inspire-bot/internal/transport/http"
	"github.com/go-inspire-bot/internal/transport/telegram"
	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v4"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Credential/config bootstrap is the only fatal failure path; everything
	// after startup is isolated per command invocation.
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}
	if cfg.SNSTopicARN == "" {
		log.Fatal("SNS_TOPIC_ARN is required")
	}

	// Bootstrap the DynamoDB table (creates it if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTableSubscriptions)
	subsRepo := dynamo.NewSubscriptionRepo(dynamoClient, cfg.DynamoTableSubscriptions)

	notifier, err := snsinfra.NewNotifier(cfg)
	if err != nil {
		log.Fatalf("SNS notifier: %v", err)
	}

	quotes := zenquotes.NewClient(cfg.QuoteAPIURL)

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		log.Fatalf("telegram bot: %v", err)
	}

	collector := telegram.NewCollector()
	gateway := telegram.NewGateway(bot, collector)

	svc := subscription.NewService(subscription.ServiceDeps{
		Store:    subsRepo,
		Notifier: notifier,
		Quotes:   quotes,
		Gateway:  gateway,
		TopicARN: cfg.SNSTopicARN,
		Logger:   logger,
	})

	telegram.NewRouter(bot, svc, gateway, collector, logger)

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{Subscriptions: svc})
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("bot starting", "env", cfg.AppEnv)
		bot.Start()
	}()

	go func() {
		logger.Info("admin server starting", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	bot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	logger.Info("stopped")
}
