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

	store, err := infraFactory.SessionStore(ctx)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	sess := session.New(store)
	if cfg.Backend.Token != "" {
		if err := sess.SetToken(ctx, cfg.Backend.Token); err != nil {
			logger.Error("failed to seed backend token", "error", err)
			os.Exit(1)
		}
	}
	client := backend.New(backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout}, sess, logger)

	reconciler := worker.NewReconciler(
		infraFactory.Consumer(),
		postgres.NewTxManager(pgPool),
		postgres.NewInboxRepository(pgPool),
		postgres.NewCheckoutRepository(pgPool),
		service.NewOrderService(client, logger),
		cfg.Worker.MaxRetries,
		logger,
	)

	metricsSrv := &http.Server{Addr: ":" + cfg.Worker.MetricsPort, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}

	logger.Info("checkout reconciler starting", "consumer", worker.ConsumerName, "group_id", cfg.Kafka.GroupID, "topic", cfg.Kafka.Topic)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return reconciler.Run(gctx) })
	g.Go(func() error {
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
		logger.Error("consumer stopped with error", "error", err)
	}

	logger.Info("consumer exited")
}
