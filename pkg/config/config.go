package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultSecret = "change-me-in-production"

// Config is the complete service configuration, read from the environment
type Config struct {
	Environment string        `envconfig:"ENVIRONMENT" default:"development"`
	ServiceName string        `envconfig:"OTEL_SERVICE_NAME" default:"product-catalog"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort    string        `envconfig:"HTTP_PORT" default:"3000"`
	GRPCPort    string        `envconfig:"GRPC_PORT" default:"9090"`
	SecretKey   string        `envconfig:"SECRET_KEY" default:"change-me-in-production"`
	TokenTTL    time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`

	Database  Database  `envconfig:"DB"`
	Redis     Redis     `envconfig:"REDIS"`
	RateLimit RateLimit `envconfig:"RATE_LIMIT"`
	Cache     Cache     `envconfig:"CACHE"`
	Kafka     Kafka     `envconfig:"KAFKA"`
	Tracing   Tracing   `envconfig:"TRACING"`
	CORS      CORS      `envconfig:"CORS"`
}

// Database holds PostgreSQL connection settings
type Database struct {
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            string        `envconfig:"PORT" default:"5432"`
	User            string        `envconfig:"USER" default:"postgres"`
	Password        string        `envconfig:"PASSWORD" default:"postgres"`
	Name            string        `envconfig:"NAME" default:"catalog"`
	SSLMode         string        `envconfig:"SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"5m"`
	SlowThreshold   time.Duration `envconfig:"SLOW_THRESHOLD" default:"200ms"`
}

// Redis holds the connection used by the rate limiter and response cache
type Redis struct {
	Enabled  bool   `envconfig:"ENABLED" default:"true"`
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// RateLimit caps requests per client IP within a sliding window
type RateLimit struct {
	Max    int           `envconfig:"MAX" default:"100"`
	Window time.Duration `envconfig:"WINDOW" default:"10m"`
}

// Cache controls the public listing response cache
type Cache struct {
	Enabled bool          `envconfig:"ENABLED" default:"true"`
	TTL     time.Duration `envconfig:"TTL" default:"30s"`
}

// Kafka holds catalog event settings
type Kafka struct {
	Enabled     bool     `envconfig:"ENABLED" default:"false"`
	Brokers     []string `envconfig:"BROKERS" default:"localhost:9092"`
	EventsTopic string   `envconfig:"EVENTS_TOPIC" default:"catalog.events"`
	IngestTopic string   `envconfig:"INGEST_TOPIC" default:"catalog.ingest"`
	GroupID     string   `envconfig:"GROUP_ID" default:"product-catalog"`
}

// Tracing holds the OpenTelemetry exporter settings
type Tracing struct {
	Enabled        bool   `envconfig:"ENABLED" default:"false"`
	JaegerEndpoint string `envconfig:"JAEGER_ENDPOINT" default:"http://localhost:14268/api/traces"`
}

// CORS lists allowed origins
type CORS struct {
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

// Load reads envFile (when present) into the process environment and then
// parses the environment into a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DSN returns the lib/pq connection string
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (c *Config) validate() error {
	if c.Environment == "production" && c.SecretKey == defaultSecret {
		return errors.New("SECRET_KEY must be set in production")
	}
	if c.RateLimit.Max <= 0 {
		return errors.New("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	return nil
}
