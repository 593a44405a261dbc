package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration shared by the api, worker and consumer.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"3000"`

	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"go_payroll"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// RedisAddr is optional; without it idempotency keys and run locks are off.
	RedisAddr   string `envconfig:"REDIS_ADDR"`
	KafkaBroker string `envconfig:"KAFKA_BROKER"`

	JWTSecret     string `envconfig:"JWT_SECRET"`
	RBACModelPath string `envconfig:"RBAC_MODEL_PATH"`

	BulkRunConcurrency int           `envconfig:"BULK_RUN_CONCURRENCY" default:"4"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"3s"`
	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	RunLockTTL         time.Duration `envconfig:"RUN_LOCK_TTL" default:"30s"`
	ConnectRetries     int           `envconfig:"CONNECT_RETRIES" default:"5"`

	RunConsumerGroup string `envconfig:"RUN_CONSUMER_GROUP" default:"go-payroll-run-requested"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.BulkRunConcurrency < 1 {
		return nil, errors.New("BULK_RUN_CONCURRENCY must be at least 1")
	}
	return &cfg, nil
}

// RequireAPI checks the settings only the HTTP api needs.
func (c *Config) RequireAPI() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// RequireKafka checks the settings the worker and consumer need.
func (c *Config) RequireKafka() error {
	if c.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
