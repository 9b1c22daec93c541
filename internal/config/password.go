package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig controls how account passwords are hashed.
type PasswordConfig struct {
	BcryptCost int
	// Pepper is an optional server-wide secret appended before hashing.
	Pepper string
}

// NewPasswordConfig reads BCRYPT_COST (default 12, range 10-14) and PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	k, err := loadEnv("BCRYPT_COST", "PASSWORD_PEPPER")
	if err != nil {
		return nil, err
	}

	cost, err := intFromEnv(k, "BCRYPT_COST", defaultBcryptCost)
	if err != nil {
		return nil, err
	}

	cfg := &PasswordConfig{
		BcryptCost: cost,
		Pepper:     k.String("PASSWORD_PEPPER"),
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword returns the bcrypt hash of pw with the pepper applied.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}
