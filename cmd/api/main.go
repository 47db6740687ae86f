package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/api"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/application/factories/infrastructure"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/backend"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/carousel"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/catalog"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/config"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/confirmation"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/infrastructure/postgres"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/service"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/usecase"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize structured JSON logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infraFactory := infrastructure.NewFactory(cfg, logger)
	defer infraFactory.Close()

	redisClient, err := infraFactory.Redis(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Each visitor's token lives under its own session id; the router puts
	// that session in the request context for the backend client.
	sessions, err := infraFactory.SessionStore(ctx)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}

	client := backend.New(backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout}, nil, logger)

	// Services
	packages := service.NewPackageService(client, logger)
	orders := service.NewOrderService(client, logger)
	payments := service.NewPaymentService(client, logger)
	contact := service.NewContactService(client, logger)

	loader := catalog.NewLoader(packages,
		catalog.WithCache(redisClient, cfg.Catalog.CacheTTL),
		catalog.WithLogger(logger),
	)

	// Checkout log
	var recorder *usecase.Recorder
	var trail api.TrailFinder
	if cfg.Checkout.Record {
		pgPool, err := infraFactory.Postgres(ctx)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		checkoutRepo := postgres.NewCheckoutRepository(pgPool)
		outboxRepo := postgres.NewOutboxRepository(pgPool)
		inboxRepo := postgres.NewInboxRepository(pgPool)
		txManager := postgres.NewTxManager(pgPool)

		recorder = usecase.NewRecorder(txManager, checkoutRepo, outboxRepo)
		trail = usecase.NewGetCheckoutTrail(checkoutRepo, outboxRepo, inboxRepo)
	}

	// UseCases
	placeOrderUC := usecase.NewPlaceOrder(packages, orders, recorder, logger)
	initiatePaymentUC := usecase.NewInitiatePayment(payments, recorder, logger)
	getConfirmationUC := usecase.NewGetConfirmation(confirmation.NewFlow(orders), redisClient, cfg.Checkout.ConfirmationTTL, logger)

	handlers := api.NewHandlers(api.Deps{
		Landings:        carousel.NewRegistry(ctx, cfg.Session.LandingIdleTTL),
		Catalog:         loader,
		Packages:        packages,
		Orders:          orders,
		Payments:        payments,
		Contact:         contact,
		PlaceOrder:      placeOrderUC,
		InitiatePayment: initiatePaymentUC,
		Confirmation:    getConfirmationUC,
		Trail:           trail,
		Logger:          logger,
	})
	apiHandler := api.NewRouter(handlers, api.RouterConfig{
		Redis:            redisClient,
		Sessions:         sessions,
		CookieName:       cfg.Session.CookieName,
		CookieSecure:     cfg.Session.CookieSecure,
		ContactPerMinute: cfg.RateLimit.ContactPerMinute,
		ContactBurst:     cfg.RateLimit.ContactBurst,
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           apiHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.HTTP.Port, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}
