package api

import (
	"log/slog"
	"net/http"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/api/middleware"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/session"

	"github.com/go-chi/chi/v5"
	ChiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	// Redis backs the Idempotency-Key middleware; nil disables it.
	Redis            *redis.Client
	// Sessions keeps each visitor's token; nil keeps them in memory.
	Sessions         session.TokenStore
	CookieName       string
	CookieSecure     bool
	ContactPerMinute int
	ContactBurst     int
	Logger           *slog.Logger
}

func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(ChiMiddleware.RequestID)
	r.Use(ChiMiddleware.RealIP)
	r.Use(ChiMiddleware.Logger)
	r.Use(ChiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Sessions(middleware.SessionConfig{
			Store:      cfg.Sessions,
			CookieName: cfg.CookieName,
			Secure:     cfg.CookieSecure,
			Logger:     cfg.Logger,
		}))

		r.Get("/landing", h.Landing)
		r.Post("/landing/carousels/{name}/{action}", h.CarouselControl)

		r.Get("/compatibility", h.Compatibility)
		r.Get("/compatibility/brands", h.CompatibilityBrands)

		r.Get("/destinations", h.Destinations)
		r.Get("/destinations/remote", h.RemoteDestinations)

		r.Get("/packages", h.ListPackages)
		r.Get("/packages/{id}", h.GetPackage)
		r.Post("/packages/{id}/availability", h.CheckAvailability)

		r.With(middleware.Idempotency(cfg.Redis, cfg.Logger)).Post("/orders", h.CreateOrder)
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{id}", h.GetOrder)

		r.With(middleware.Idempotency(cfg.Redis, cfg.Logger)).Post("/payments", h.InitiatePayment)
		r.Get("/payments", h.ListPayments)

		r.Get("/confirmation", h.Confirmation)
		r.Get("/checkouts/{ref}/trail", h.CheckoutTrail)

		r.With(middleware.RateLimit(cfg.ContactPerMinute, cfg.ContactBurst)).Post("/contact", h.SubmitContact)

		r.Put("/session", h.PutSession)
		r.Delete("/session", h.DeleteSession)
	})

	return r
}
