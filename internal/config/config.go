package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App       App       `yaml:"app"`
	HTTP      HTTP      `yaml:"http"`
	Log       Log       `yaml:"log"`
	Backend   Backend   `yaml:"backend"`
	Session   Session   `yaml:"session"`
	Catalog   Catalog   `yaml:"catalog"`
	Checkout  Checkout  `yaml:"checkout"`
	Worker    Worker    `yaml:"worker"`
	Postgres  Postgres  `yaml:"postgres"`
	Redis     Redis     `yaml:"redis"`
	Kafka     Kafka     `yaml:"kafka"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

type App struct {
	Name    string `yaml:"name" env:"APP_NAME" env-default:"esim-storefront"`
	Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
}

type HTTP struct {
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Backend is the remote eSIM REST API every domain service talks to.
type Backend struct {
	BaseURL string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:8000/api"`
	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"30s"`
	Token   string        `yaml:"token" env:"BACKEND_TOKEN"`
}

type Session struct {
	Store string `yaml:"store" env:"SESSION_STORE" env-default:"redis"` // redis, file, memory
	Dir   string `yaml:"dir" env:"SESSION_DIR" env-default:".esim"`
	// TTL expires a visitor's stored token after its last login.
	TTL          time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"720h"`
	CookieName   string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"esim_sid"`
	CookieSecure bool          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
	// LandingIdleTTL drops a visitor's landing carousels once unused.
	LandingIdleTTL time.Duration `yaml:"landing_idle_ttl" env:"LANDING_IDLE_TTL" env-default:"30m"`
}

type Catalog struct {
	CacheTTL     time.Duration `yaml:"cache_ttl" env:"CATALOG_CACHE_TTL" env-default:"5m"`
	WarmInterval time.Duration `yaml:"warm_interval" env:"CATALOG_WARM_INTERVAL" env-default:"4m"`
}

type Checkout struct {
	Record          bool          `yaml:"record" env:"CHECKOUT_RECORD" env-default:"true"`
	ConfirmationTTL time.Duration `yaml:"confirmation_ttl" env:"CONFIRMATION_CACHE_TTL" env-default:"5s"`
}

// Worker covers the outbox poller, the catalog warmer and the reconciler.
type Worker struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"OUTBOX_POLL_INTERVAL" env-default:"2s"`
	BatchSize    int           `yaml:"batch_size" env:"OUTBOX_BATCH_SIZE" env-default:"10"`
	MaxRetries   int           `yaml:"max_retries" env:"CONSUMER_MAX_RETRIES" env-default:"5"`
	MetricsPort  string        `yaml:"metrics_port" env:"METRICS_PORT" env-default:"9093"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"user"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-default:"esim_storefront"`
}

func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.DBName)
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"checkout-events"`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"checkout-reconciler"`
	// StartOffset applies only when the group has no committed offset yet.
	StartOffset string `yaml:"start_offset" env:"KAFKA_START_OFFSET" env-default:"earliest"`
}

type RateLimit struct {
	ContactPerMinute int `yaml:"contact_per_minute" env:"CONTACT_RATE_PER_MINUTE" env-default:"10"`
	ContactBurst     int `yaml:"contact_burst" env:"CONTACT_RATE_BURST" env-default:"3"`
}

func New() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// fallback to env vars if file not found
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else {
		// Allow env vars to override config file
		cleanenv.ReadEnv(cfg)
	}

	return cfg, nil
}

// SlogLevel maps the configured level name onto slog, defaulting to info.
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
