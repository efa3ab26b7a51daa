package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the booking module.
type Config struct {
	// Booking service
	BookingServiceURL string        `env:"BOOKING_SERVICE_URL,required"`
	BookingTimeout    time.Duration `env:"BOOKING_TIMEOUT" envDefault:"15s"`

	// Post-success redirect delay
	RedirectDelay time.Duration `env:"PAYMENT_REDIRECT_DELAY" envDefault:"2s"`

	// Reconciliation polling
	PollInitialInterval time.Duration `env:"PAYMENT_POLL_INITIAL_INTERVAL" envDefault:"2s"`
	PollMaxInterval     time.Duration `env:"PAYMENT_POLL_MAX_INTERVAL" envDefault:"15s"`
	PollBackoffFactor   float64       `env:"PAYMENT_POLL_BACKOFF_FACTOR" envDefault:"2.0"`
	PollTimeout         time.Duration `env:"PAYMENT_POLL_TIMEOUT" envDefault:"2m"`
}

// LoadConfig loads configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load booking configuration from environment: " + err.Error())
	}

	if cfg.BookingServiceURL == "" {
		return nil, errors.New("booking_service_url is required")
	}
	cfg.BookingServiceURL = strings.TrimRight(cfg.BookingServiceURL, "/")

	if cfg.PollInitialInterval <= 0 {
		cfg.PollInitialInterval = 2 * time.Second
	}
	if cfg.PollMaxInterval < cfg.PollInitialInterval {
		cfg.PollMaxInterval = cfg.PollInitialInterval
	}
	if cfg.PollBackoffFactor < 1 {
		cfg.PollBackoffFactor = 1
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 2 * time.Minute
	}

	return cfg, nil
}
