package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/catalog"
)

type Refresher interface {
	Refresh(ctx context.Context) (catalog.Catalog, error)
}

// CatalogWarmer reloads the destination catalog ahead of its cache expiry,
// so landing page requests rarely pay for the fan-out.
type CatalogWarmer struct {
	loader   Refresher
	interval time.Duration
	logger   *slog.Logger
}

func NewCatalogWarmer(loader Refresher, interval time.Duration, logger *slog.Logger) *CatalogWarmer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogWarmer{loader: loader, interval: interval, logger: logger}
}

// Run warms once immediately, then on every tick until ctx ends.
func (w *CatalogWarmer) Run(ctx context.Context) error {
	w.logger.Info("catalog warmer started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.warm(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *CatalogWarmer) warm(ctx context.Context) {
	c, err := w.loader.Refresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("catalog warm failed", "error", err)
		}
		return
	}
	w.logger.Info("catalog warmed", "destinations", len(c.Destinations), "failed", c.Failed)
}
