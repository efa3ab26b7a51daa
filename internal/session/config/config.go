package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the session module.
type Config struct {
	// Upstream SummitCess API
	UpstreamBaseURL string        `env:"UPSTREAM_BASE_URL,required"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`

	// Redis token store
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Gateway session cookie
	CookieName     string        `env:"SESSION_COOKIE_NAME" envDefault:"sc_session"`
	CookiePath     string        `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	CookieDomain   string        `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool          `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string        `env:"SESSION_COOKIE_SAME_SITE" envDefault:"Lax"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// Profile provisioning retry policy
	ProvisionMaxAttempts int           `env:"PROVISION_MAX_ATTEMPTS" envDefault:"3"`
	ProvisionDelay       time.Duration `env:"PROVISION_DELAY" envDefault:"2s"`
}

// LoadConfig loads configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load session configuration from environment: " + err.Error())
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, errors.New("upstream_base_url is required")
	}
	cfg.UpstreamBaseURL = strings.TrimRight(cfg.UpstreamBaseURL, "/")

	cfg.CookieSameSite = strings.Title(strings.ToLower(cfg.CookieSameSite))
	if !(cfg.CookieSameSite == "Lax" || cfg.CookieSameSite == "Strict" || cfg.CookieSameSite == "None") {
		return nil, errors.New("session_cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}

	if cfg.ProvisionMaxAttempts < 1 {
		return nil, errors.New("provision_max_attempts must be at least 1")
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 15 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 168 * time.Hour
	}

	return cfg, nil
}
