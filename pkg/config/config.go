// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Server, Postgres, Kafka, Redis, Catalog, Ranking, etc.).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. BD_SERVER_PORT.
const EnvPrefix = "BD_"

// Catalog source kinds.
const (
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
	SourceRemote   = "remote"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Postgres  PostgresConfig  `yaml:"postgres" envPrefix:"POSTGRES_"`
	Kafka     KafkaConfig     `yaml:"kafka" envPrefix:"KAFKA_"`
	Redis     RedisConfig     `yaml:"redis" envPrefix:"REDIS_"`
	Catalog   CatalogConfig   `yaml:"catalog" envPrefix:"CATALOG_"`
	Ranking   RankingConfig   `yaml:"ranking" envPrefix:"RANKING_"`
	RateLimit RateLimitConfig `yaml:"rateLimit" envPrefix:"RATE_LIMIT_"`
	CORS      CORSConfig      `yaml:"cors" envPrefix:"CORS_"`
	Logging   LoggingConfig   `yaml:"logging" envPrefix:"LOGGING_"`
	Tracing   TracingConfig   `yaml:"tracing" envPrefix:"TRACING_"`
	Metrics   MetricsConfig   `yaml:"metrics" envPrefix:"METRICS_"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env:"WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"requestTimeout" env:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host" env:"HOST"`
	Port            int           `yaml:"port" env:"PORT"`
	Database        string        `yaml:"database" env:"DATABASE"`
	User            string        `yaml:"user" env:"USER"`
	Password        string        `yaml:"password" env:"PASSWORD"`
	SSLMode         string        `yaml:"sslMode" env:"SSLMODE"`
	MaxOpenConns    int           `yaml:"maxOpenConns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"maxIdleConns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" env:"CONN_MAX_LIFETIME"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Enabled       bool        `yaml:"enabled" env:"ENABLED"`
	Brokers       []string    `yaml:"brokers" env:"BROKERS" envSeparator:","`
	ConsumerGroup string      `yaml:"consumerGroup" env:"CONSUMER_GROUP"`
	Topics        KafkaTopics `yaml:"topics" envPrefix:"TOPIC_"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	RankingEvents   string `yaml:"rankingEvents" env:"RANKING_EVENTS"`
	CacheInvalidate string `yaml:"cacheInvalidate" env:"CACHE_INVALIDATE"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" env:"ENABLED"`
	Addr     string        `yaml:"addr" env:"ADDR"`
	Password string        `yaml:"password" env:"PASSWORD"`
	DB       int           `yaml:"db" env:"DB"`
	PoolSize int           `yaml:"poolSize" env:"POOL_SIZE"`
	CacheTTL time.Duration `yaml:"cacheTTL" env:"CACHE_TTL"`
}

// CatalogConfig selects and tunes the catalog backend.
type CatalogConfig struct {
	// Source is one of memory, postgres or remote.
	Source      string        `yaml:"source" env:"SOURCE"`
	PageSize    int           `yaml:"pageSize" env:"PAGE_SIZE"`
	MaxPageSize int           `yaml:"maxPageSize" env:"MAX_PAGE_SIZE"`
	Remote      RemoteConfig  `yaml:"remote" envPrefix:"REMOTE_"`
	Retry       RetryConfig   `yaml:"retry" envPrefix:"RETRY_"`
	Breaker     BreakerConfig `yaml:"breaker" envPrefix:"BREAKER_"`
}

// RemoteConfig points at an upstream catalog API.
type RemoteConfig struct {
	BaseURL     string        `yaml:"baseUrl" env:"BASE_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`
	PageSize    int           `yaml:"pageSize" env:"PAGE_SIZE"`
	MaxPages    int           `yaml:"maxPages" env:"MAX_PAGES"`
	Concurrency int           `yaml:"concurrency" env:"CONCURRENCY"`
}

// RetryConfig controls backoff when fetching the catalog.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"maxAttempts" env:"MAX_ATTEMPTS"`
	InitialDelay time.Duration `yaml:"initialDelay" env:"INITIAL_DELAY"`
	MaxDelay     time.Duration `yaml:"maxDelay" env:"MAX_DELAY"`
	Multiplier   float64       `yaml:"multiplier" env:"MULTIPLIER"`
	JitterMin    float64       `yaml:"jitterMin" env:"JITTER_MIN"`
	JitterMax    float64       `yaml:"jitterMax" env:"JITTER_MAX"`
}

// BreakerConfig controls the circuit breaker around the remote catalog.
type BreakerConfig struct {
	FailureThreshold    uint32        `yaml:"failureThreshold" env:"FAILURE_THRESHOLD"`
	ResetTimeout        time.Duration `yaml:"resetTimeout" env:"RESET_TIMEOUT"`
	HalfOpenMaxRequests uint32        `yaml:"halfOpenMaxRequests" env:"HALF_OPEN_MAX_REQUESTS"`
}

// RankingConfig holds the priority scoring constants.
type RankingConfig struct {
	Base                  int     `yaml:"base" env:"BASE"`
	ValueDecay            float64 `yaml:"valueDecay" env:"VALUE_DECAY"`
	HighPriorityThreshold float64 `yaml:"highPriorityThreshold" env:"HIGH_PRIORITY_THRESHOLD"`
	TopLabel              int     `yaml:"topLabel" env:"TOP_LABEL"`
}

// RateLimitConfig controls the per-client token bucket.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" env:"ENABLED"`
	RequestsPerMinute int  `yaml:"requestsPerMinute" env:"REQUESTS_PER_MINUTE"`
	Burst             int  `yaml:"burst" env:"BURST"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// TracingConfig controls span logging.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" env:"ENABLED"`
	SampleRate float64 `yaml:"sampleRate" env:"SAMPLE_RATE"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	Port    int  `yaml:"port" env:"PORT"`
}

// Load reads a YAML config file (if provided) and applies BD_* environment
// overrides. Missing values keep their defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Catalog.Source {
	case SourceMemory, SourcePostgres:
	case SourceRemote:
		if c.Catalog.Remote.BaseURL == "" {
			return fmt.Errorf("catalog.remote.baseUrl is required when source is %q", SourceRemote)
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	if c.Catalog.PageSize < 1 || c.Catalog.PageSize > c.Catalog.MaxPageSize {
		return fmt.Errorf("catalog.pageSize must be between 1 and %d, got %d", c.Catalog.MaxPageSize, c.Catalog.PageSize)
	}
	if c.Ranking.ValueDecay <= 0 || c.Ranking.ValueDecay > 1 {
		return fmt.Errorf("ranking.valueDecay must be in (0, 1], got %v", c.Ranking.ValueDecay)
	}
	if c.Ranking.HighPriorityThreshold <= 0 || c.Ranking.HighPriorityThreshold > 1 {
		return fmt.Errorf("ranking.highPriorityThreshold must be in (0, 1], got %v", c.Ranking.HighPriorityThreshold)
	}
	if c.Ranking.Base < 2 {
		return fmt.Errorf("ranking.base must be at least 2, got %d", c.Ranking.Base)
	}
	r := c.Catalog.Retry
	if r.JitterMin <= 0 || r.JitterMax < r.JitterMin {
		return fmt.Errorf("catalog.retry jitter range [%v, %v] is invalid", r.JitterMin, r.JitterMax)
	}
	if c.Metrics.Enabled && c.Metrics.Port == c.Server.Port {
		return fmt.Errorf("metrics port %d collides with server port", c.Metrics.Port)
	}
	return nil
}

// defaultConfig returns a Config with defaults suitable for local
// development.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  20 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "best_dressed",
			User:            "best_dressed",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "best-dressed-analytics",
			Topics: KafkaTopics{
				RankingEvents:   "ranking-events",
				CacheInvalidate: "catalog-cache-invalidate",
			},
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Catalog: CatalogConfig{
			Source:      SourceMemory,
			PageSize:    24,
			MaxPageSize: 500,
			Remote: RemoteConfig{
				Timeout:     10 * time.Second,
				PageSize:    100,
				MaxPages:    50,
				Concurrency: 4,
			},
			Retry: RetryConfig{
				MaxAttempts:  6,
				InitialDelay: 350 * time.Millisecond,
				MaxDelay:     8 * time.Second,
				Multiplier:   1.75,
				JitterMin:    0.9,
				JitterMax:    1.15,
			},
			Breaker: BreakerConfig{
				FailureThreshold:    5,
				ResetTimeout:        30 * time.Second,
				HalfOpenMaxRequests: 1,
			},
		},
		Ranking: RankingConfig{
			Base:                  100,
			ValueDecay:            0.65,
			HighPriorityThreshold: 0.5,
			TopLabel:              3,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 600,
			Burst:             60,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:    true,
			SampleRate: 1,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}
