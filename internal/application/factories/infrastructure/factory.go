package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/config"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/infrastructure/kafka"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/infrastructure/postgres"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/infrastructure/redis"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/session"

	pgxpool "github.com/jackc/pgx/v5/pgxpool"
	go_redis "github.com/redis/go-redis/v9"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Factory builds each connection lazily and at most once, and closes
// whatever was opened.
type Factory struct {
	cfg      *config.Config
	logger   *slog.Logger
	pgPool   *pgxpool.Pool
	redisCli *go_redis.Client
	producer *kafka.Producer
	consumer *kafka.Consumer
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

func (f *Factory) Postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if f.pgPool != nil {
		return f.pgPool, nil
	}

	var pool *pgxpool.Pool
	var err error

	for i := 0; i < connectAttempts; i++ {
		pool, err = postgres.NewClient(ctx, postgres.Config{
			Host:     f.cfg.Postgres.Host,
			Port:     f.cfg.Postgres.Port,
			User:     f.cfg.Postgres.User,
			Password: f.cfg.Postgres.Password,
			DBName:   f.cfg.Postgres.DBName,
		})
		if err == nil {
			break
		}
		f.logger.Warn("postgres not ready, retrying",
			"attempt", i+1, "max", connectAttempts, "backoff", connectBackoff, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to init postgres after retries: %w", err)
	}

	f.pgPool = pool
	return pool, nil
}

func (f *Factory) Redis(ctx context.Context) (*go_redis.Client, error) {
	if f.redisCli != nil {
		return f.redisCli, nil
	}

	client, err := redis.NewClient(ctx, redis.Config{
		Addr:     f.cfg.Redis.Addr,
		Password: f.cfg.Redis.Password,
		DB:       f.cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	f.redisCli = client
	return client, nil
}

func (f *Factory) kafkaConfig() kafka.Config {
	return kafka.Config{
		Brokers:     f.cfg.Kafka.Brokers,
		Topic:       f.cfg.Kafka.Topic,
		GroupID:     f.cfg.Kafka.GroupID,
		StartOffset: f.cfg.Kafka.StartOffset,
	}
}

func (f *Factory) Producer() *kafka.Producer {
	if f.producer == nil {
		f.producer = kafka.NewProducer(f.kafkaConfig())
	}
	return f.producer
}

func (f *Factory) Consumer() *kafka.Consumer {
	if f.consumer == nil {
		f.consumer = kafka.NewConsumer(f.kafkaConfig())
	}
	return f.consumer
}

// SessionStore returns the token store named by the session config.
func (f *Factory) SessionStore(ctx context.Context) (session.TokenStore, error) {
	switch f.cfg.Session.Store {
	case "redis":
		client, err := f.Redis(ctx)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, f.cfg.Session.TTL), nil
	case "file":
		return session.NewFileStore(f.cfg.Session.Dir), nil
	case "memory", "":
		return session.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown session store %q", f.cfg.Session.Store)
}

func (f *Factory) Close() {
	if f.consumer != nil {
		if err := f.consumer.Close(); err != nil {
			f.logger.Warn("close kafka consumer", "error", err)
		}
	}
	if f.producer != nil {
		if err := f.producer.Close(); err != nil {
			f.logger.Warn("close kafka producer", "error", err)
		}
	}
	if f.pgPool != nil {
		f.pgPool.Close()
	}
	if f.redisCli != nil {
		f.redisCli.Close()
	}
}
