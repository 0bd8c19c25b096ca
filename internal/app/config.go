package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"60s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	ResultTTL time.Duration `envconfig:"RESULT_TTL" default:"24h"`

	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"67108864"`
	RateLimit      int   `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`

	WorkerConcurrency int `envconfig:"WORKER_CONCURRENCY" default:"5"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
