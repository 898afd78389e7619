package telegram

import (
	"context"
	"crypto/rand"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-inspire-bot/internal/application/subscription"
	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

// Text commands recognized by prefix match at the start of a message.
const (
	cmdInspire     = "!inspire"
	cmdSubscribe   = "!subscribe"
	cmdUnsubscribe = "!unsubscribe"
)

// Generic per-flow failure messages. The user never sees which external call
// failed; the details go to the log.
const (
	msgInspireFailed     = "Sorry, I couldn't get you a quote right now. Try again later."
	msgSubscribeFailed   = "Something went wrong while subscribing. Try again later."
	msgUnsubscribeFailed = "Something went wrong while unsubscribing. Try again later."
)

// Router maps incoming text messages to the subscription flows. It ignores
// bot senders and anything that isn't one of the three commands, and feeds
// private-chat replies to a waiting subscribe flow before command parsing.
type Router struct {
	subs      subscription.Service
	gateway   *Gateway
	collector *Collector
	limiter   *userLimiter
	log       *slog.Logger
}

func NewRouter(bot *tele.Bot, svc subscription.Service, gateway *Gateway, collector *Collector, log *slog.Logger) *Router {
	r := &Router{
		subs:      svc,
		gateway:   gateway,
		collector: collector,
		// one command per 2s sustained, bursts of 3
		limiter: newUserLimiter(rate.Every(2*time.Second), 3),
		log:     log,
	}
	bot.Handle(tele.OnText, r.HandleText)
	return r
}

// HandleText is the single text-update entry point. Command failures are
// reported to the user and logged, never returned to telebot: one bad
// invocation must not disturb the update loop.
func (r *Router) HandleText(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || sender.IsBot || chat == nil {
		return nil
	}
	text := c.Text()

	if chat.Type == tele.ChatPrivate && r.collector.Deliver(sender.ID, text) {
		return nil
	}

	cmd, ok := parseCommand(text)
	if !ok {
		return nil
	}
	if !r.limiter.Allow(sender.ID) {
		// command flood: drop silently
		return nil
	}

	userID := strconv.FormatInt(sender.ID, 10)
	channelID := strconv.FormatInt(chat.ID, 10)
	ctx := context.Background()
	log := r.log.With(
		"command", cmd,
		"user_id", userID,
		"correlation_id", ulid.MustNew(ulid.Now(), rand.Reader).String(),
	)

	var err error
	var failMsg string
	switch cmd {
	case cmdInspire:
		err = r.subs.Inspire(ctx, userID, channelID)
		failMsg = msgInspireFailed
	case cmdSubscribe:
		err = r.subs.Subscribe(ctx, userID)
		failMsg = msgSubscribeFailed
	case cmdUnsubscribe:
		err = r.subs.Unsubscribe(ctx, userID)
		failMsg = msgUnsubscribeFailed
	}

	if err != nil {
		log.Error("command failed", "err", err)
		r.reportFailure(ctx, userID, failMsg)
		return nil
	}
	log.Info("command handled")
	return nil
}

func (r *Router) reportFailure(ctx context.Context, userID, text string) {
	dm, err := r.gateway.OpenDirectChannel(ctx, userID)
	if err == nil {
		err = r.gateway.PostToChannel(ctx, dm, text)
	}
	if err != nil {
		r.log.Warn("could not report failure to user", "user_id", userID, "err", err)
	}
}

// parseCommand recognizes a command prefix at the start of a message.
func parseCommand(text string) (string, bool) {
	for _, cmd := range []string{cmdInspire, cmdSubscribe, cmdUnsubscribe} {
		if strings.HasPrefix(text, cmd) {
			return cmd, true
		}
	}
	return "", false
}
