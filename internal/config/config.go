// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/perkloop/perkloop/internal/auth"
	"github.com/perkloop/perkloop/pkg/db"
	"github.com/perkloop/perkloop/pkg/logger"
	"github.com/perkloop/perkloop/pkg/mailer"
	"github.com/perkloop/perkloop/pkg/pinning"
	"github.com/perkloop/perkloop/pkg/redis"
)

// Config is the full application configuration, assembled from the Config
// structs each package declares.
type Config struct {
	Env string `env:"APP_ENV" envDefault:"development"`

	// HTTP server settings.
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// MaxUploadSize caps multipart upload payloads in bytes.
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`

	Logger  logger.Config
	DB      db.Config
	Redis   redis.Config
	Auth    auth.Config
	Mailer  mailer.Config
	Pinning pinning.Config
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	return cfg, nil
}
