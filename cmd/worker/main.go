package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/application/factories/infrastructure"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/backend"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/catalog"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/config"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/infrastructure/postgres"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/service"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/session"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
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

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	redisClient, err := infraFactory.Redis(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// The warmer reads public catalog endpoints only, so it runs without a token.
	client := backend.New(backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout},
		session.New(session.NewMemoryStore()), logger)
	loader := catalog.NewLoader(service.NewPackageService(client, logger),
		catalog.WithCache(redisClient, cfg.Catalog.CacheTTL),
		catalog.WithLogger(logger),
	)

	poller := worker.NewOutboxPoller(postgres.NewOutboxRepository(pgPool), infraFactory.Producer(),
		cfg.Worker.PollInterval, cfg.Worker.BatchSize, logger)
	warmer := worker.NewCatalogWarmer(loader, cfg.Catalog.WarmInterval, logger)

	metricsSrv := &http.Server{Addr: ":" + cfg.Worker.MetricsPort, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return poller.Run(gctx) })
	g.Go(func() error { return warmer.Run(gctx) })
	g.Go(func() error {
		logger.Info("worker metrics listening", "port", cfg.Worker.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("worker stopped with error", "error", err)
	}

	logger.Info("worker exited")
}
