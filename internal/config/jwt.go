package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

const (
	defaultJWTExpirationHours = 24
	defaultBcryptCost         = 12
)

// JWTConfig holds the session token signing settings.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// Expiration returns the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// NewJWTConfig reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default 24).
func NewJWTConfig() (*JWTConfig, error) {
	k, err := loadEnv("JWT_SECRET", "JWT_EXPIRATION_HOURS")
	if err != nil {
		return nil, err
	}

	hours, err := intFromEnv(k, "JWT_EXPIRATION_HOURS", defaultJWTExpirationHours)
	if err != nil {
		return nil, err
	}

	cfg := &JWTConfig{
		Secret:          k.String("JWT_SECRET"),
		ExpirationHours: hours,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

// loadEnv loads only the named, unprefixed variables. Empty values count as unset.
func loadEnv(names ...string) (*koanf.Koanf, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	k := koanf.New(".")
	err := k.Load(env.Provider("", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			if !wanted[key] || value == "" {
				return "", nil
			}
			return key, value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	return k, nil
}

func intFromEnv(k *koanf.Koanf, name string, def int) (int, error) {
	if !k.Exists(name) {
		return def, nil
	}
	n, err := strconv.Atoi(k.String(name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return n, nil
}
