// Package catalog builds the destination browser: a fixed set of countries,
// each with its priced packages fetched from the backend.
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const cacheKey = "catalog:destinations"

var (
	countryFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_country_fetch_failures_total",
		Help: "Per-country package fetches that degraded to an empty list",
	}, []string{"country"})
	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_duration_seconds",
		Help:    "Time taken to load every destination's packages",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})
)

// Fetcher returns the packages of one country.
type Fetcher interface {
	FetchCountry(ctx context.Context, countryCode string) ([]esim.Package, error)
}

type Catalog struct {
	Destinations []esim.Destination `json:"destinations"`
	Failed       int                `json:"failed"`
	LoadedAt     time.Time          `json:"loaded_at"`
}

type Loader struct {
	fetcher      Fetcher
	destinations func() []esim.Destination
	cache        *redis.Client
	ttl          time.Duration
	concurrency  int
	logger       *slog.Logger
}

type Option func(*Loader)

// WithCache stores loaded catalogs in redis for ttl.
func WithCache(client *redis.Client, ttl time.Duration) Option {
	return func(l *Loader) {
		l.cache = client
		l.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithConcurrency caps the number of country fetches in flight. Zero or
// less fetches every country at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) { l.concurrency = n }
}

// WithDestinations replaces the fixed destination table.
func WithDestinations(fn func() []esim.Destination) Option {
	return func(l *Loader) { l.destinations = fn }
}

func NewLoader(fetcher Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:      fetcher,
		destinations: Destinations,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load serves the cached catalog when there is one, otherwise it refreshes.
func (l *Loader) Load(ctx context.Context) (Catalog, error) {
	if l.cache != nil {
		val, err := l.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var c Catalog
			if err := json.Unmarshal([]byte(val), &c); err == nil {
				return c, nil
			}
		}
	}
	return l.Refresh(ctx)
}

// Refresh fetches every destination's packages concurrently and joins the
// results back by position once all of them have settled. A failed country
// keeps an empty list. The only error is the caller's context ending: the
// first fetch to see it abandons the batch and whatever arrived is dropped.
func (l *Loader) Refresh(ctx context.Context) (Catalog, error) {
	start := time.Now()
	dests := l.destinations()
	results := make([][]esim.Package, len(dests))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}
	for i, d := range dests {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pkgs, err := l.fetcher.FetchCountry(gctx, d.ISOCode)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failed.Add(1)
				countryFetchFailures.WithLabelValues(d.ISOCode).Inc()
				l.logger.Warn("catalog: country degraded to empty", "country", d.ISOCode, "error", err)
				pkgs = nil
			}
			results[i] = esim.ValidOnly(pkgs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	if err := ctx.Err(); err != nil {
		return Catalog{}, err
	}

	for i := range dests {
		dests[i].Packages = results[i]
	}
	c := Catalog{
		Destinations: dests,
		Failed:       int(failed.Load()),
		LoadedAt:     time.Now().UTC(),
	}
	loadDuration.Observe(time.Since(start).Seconds())

	if l.cache != nil && l.ttl > 0 {
		if data, err := json.Marshal(c); err == nil {
			if err := l.cache.Set(ctx, cacheKey, data, l.ttl).Err(); err != nil {
				l.logger.Warn("catalog: cache write failed", "error", err)
			}
		}
	}
	return c, nil
}
