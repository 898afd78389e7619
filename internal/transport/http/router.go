package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-inspire-bot/internal/application/subscription"
	"github.com/go-inspire-bot/internal/config"
	"github.com/go-inspire-bot/internal/transport/http/handler"
	appmiddleware "github.com/go-inspire-bot/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds the services exposed over the admin/ops HTTP surface.
type Deps struct {
	Subscriptions subscription.Service
}

// NewRouter builds and returns the admin/ops router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the public route.
	publicRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	subH := handler.NewSubscriptionHandler(deps.Subscriptions)

	r.Route("/v1", func(r chi.Router) {
		r.With(publicRL.Limit).Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.AdminAuth(cfg.AdminToken))
			r.Post("/subscriptions/confirm", subH.Confirm)
		})
	})

	return r
}
