// Package config loads service and client configuration from an optional YAML
// file and RESUME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped to
// config keys. Nested keys are separated by a double underscore, so
// RESUME_AUTOSAVE__QUIETPERIOD sets autosave.quietPeriod.
const EnvPrefix = "RESUME_"

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Autosave AutosaveConfig `koanf:"autosave"`
	AMQP     AMQPConfig     `koanf:"amqp"`
	S3       S3Config       `koanf:"s3"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"readTimeout"`
	WriteTimeout    time.Duration `koanf:"writeTimeout"`
	IdleTimeout     time.Duration `koanf:"idleTimeout"`
	ShutdownTimeout time.Duration `koanf:"shutdownTimeout"`
	// Memory serves resumes from an in-process store instead of PostgreSQL.
	Memory bool `koanf:"memory"`
}

// Addr returns the listen address for the configured port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DatabaseConfig holds the PostgreSQL connection string.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// AutosaveConfig configures the editor's debounced persistence.
type AutosaveConfig struct {
	QuietPeriod time.Duration `koanf:"quietPeriod"`
}

// AMQPConfig configures lifecycle event publishing. An empty URL disables it.
type AMQPConfig struct {
	URL      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
}

// Enabled reports whether a broker is configured.
func (c AMQPConfig) Enabled() bool { return c.URL != "" }

// S3Config configures export archiving to an S3-compatible bucket. An empty
// bucket disables archiving.
type S3Config struct {
	Endpoint        string `koanf:"endpoint"`
	Region          string `koanf:"region"`
	Bucket          string `koanf:"bucket"`
	AccessKeyID     string `koanf:"accessKeyId"`
	SecretAccessKey string `koanf:"secretAccessKey"`
}

// Enabled reports whether a bucket is configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// LogConfig configures the logrus logger.
type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Autosave: AutosaveConfig{QuietPeriod: time.Second},
		AMQP:     AMQPConfig{Exchange: "resume.events"},
		S3:       S3Config{Region: "auto"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty) and RESUME_* environment variables, in that order of precedence.
// DATABASE_URL and PORT are honoured when their RESUME_ forms are unset.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyLegacyEnv(&cfg, k)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps RESUME_SERVER__PORT to server.port.
func envKey(k, v string) (string, any) {
	k = strings.TrimPrefix(k, EnvPrefix)
	if k == "" {
		return "", nil
	}
	return strings.ReplaceAll(strings.ToLower(k), "__", "."), v
}

func applyLegacyEnv(cfg *Config, k *koanf.Koanf) {
	if !k.Exists("database.url") {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			cfg.Database.URL = url
		}
	}
	if !k.Exists("server.port") {
		if port := os.Getenv("PORT"); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				cfg.Server.Port = p
			}
		}
	}
}

// normalize validates ranges and fills zero durations with defaults.
func (c *Config) normalize() error {
	def := Default()
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	for _, d := range []struct {
		dst *time.Duration
		def time.Duration
	}{
		{&c.Server.ReadTimeout, def.Server.ReadTimeout},
		{&c.Server.WriteTimeout, def.Server.WriteTimeout},
		{&c.Server.IdleTimeout, def.Server.IdleTimeout},
		{&c.Server.ShutdownTimeout, def.Server.ShutdownTimeout},
	} {
		if *d.dst <= 0 {
			*d.dst = d.def
		}
	}
	if c.Autosave.QuietPeriod < 0 {
		return fmt.Errorf("autosave.quietPeriod must not be negative, got: %s", c.Autosave.QuietPeriod)
	}
	if c.Autosave.QuietPeriod == 0 {
		c.Autosave.QuietPeriod = def.Autosave.QuietPeriod
	}
	if c.AMQP.Enabled() && c.AMQP.Exchange == "" {
		c.AMQP.Exchange = def.AMQP.Exchange
	}
	if c.S3.Enabled() && c.S3.Region == "" {
		c.S3.Region = def.S3.Region
	}
	if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		return errors.New("s3.accessKeyId and s3.secretAccessKey must be set together")
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	return nil
}

// RequireDatabase reports an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required (set RESUME_DATABASE__URL or DATABASE_URL)")
	}
	return nil
}
