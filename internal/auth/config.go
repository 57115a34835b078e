package auth

import (
	"fmt"
	"os"
	"time"
)

const (
	DefaultIssuer        = "Cp2_tasks"
	DefaultTTL           = 20 * time.Minute
	DefaultLookupTimeout = 5 * time.Second
)

// Config holds token signing settings. The secret and issuer are fixed for the
// lifetime of the process.
type Config struct {
	Secret        []byte
	Issuer        string
	TTL           time.Duration
	LookupTimeout time.Duration
}

// ConfigFromEnv reads auth config from environment variables.
// JWT_SECRET is required; JWT_ISSUER, JWT_TTL and AUTH_LOOKUP_TIMEOUT fall back to defaults.
func ConfigFromEnv() (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, ErrMissingSecret
	}
	cfg := Config{
		Secret:        []byte(secret),
		Issuer:        os.Getenv("JWT_ISSUER"),
		TTL:           DefaultTTL,
		LookupTimeout: DefaultLookupTimeout,
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid JWT_TTL %q", v)
		}
		cfg.TTL = d
	}
	if v := os.Getenv("AUTH_LOOKUP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid AUTH_LOOKUP_TIMEOUT %q", v)
		}
		cfg.LookupTimeout = d
	}
	return cfg, nil
}
