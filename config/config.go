// Package config loads the cache service settings.
//
// Precedence, lowest first: Default, the YAML file (with ${VAR} expansion),
// then REPLYCACHE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/replycache/backend"
	"github.com/unkn0wn-root/replycache/codec"
)

const EnvPrefix = "REPLYCACHE_"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Backend           string `yaml:"backend" env:"BACKEND"`
	MaxSize           int    `yaml:"max_size" env:"MAX_SIZE"`
	DefaultTTLSeconds int    `yaml:"default_ttl_seconds" env:"DEFAULT_TTL_SECONDS"`
	Enabled           bool   `yaml:"enabled" env:"ENABLED"`
	Codec             string `yaml:"codec" env:"CODEC"`
	MaxValueBytes     int    `yaml:"max_value_bytes" env:"MAX_VALUE_BYTES"`

	RemoteHost      string `yaml:"remote_host" env:"REMOTE_HOST"`
	RemotePort      int    `yaml:"remote_port" env:"REMOTE_PORT"`
	RemotePassword  string `yaml:"remote_password" env:"REMOTE_PASSWORD"`
	RemoteDB        int    `yaml:"remote_db" env:"REMOTE_DB"`
	RemoteNamespace string `yaml:"remote_namespace" env:"REMOTE_NAMESPACE"`
	// RemoteFallback lets startup continue on a local backend when the remote
	// store is unreachable. Off by default: an unreachable store fails startup.
	RemoteFallback bool `yaml:"remote_fallback" env:"REMOTE_FALLBACK"`

	RetryMaxAttempts int `yaml:"retry_max_attempts" env:"RETRY_MAX_ATTEMPTS"`
	RetryBaseDelayMS int `yaml:"retry_base_delay_ms" env:"RETRY_BASE_DELAY_MS"`

	Model       string  `yaml:"model" env:"MODEL"`
	Temperature float64 `yaml:"temperature" env:"TEMPERATURE"`
}

func Default() *Config {
	return &Config{
		Backend:           string(backend.KindLocal),
		MaxSize:           1000,
		DefaultTTLSeconds: 3600,
		Enabled:           true,
		Codec:             "json",
		MaxValueBytes:     1 << 20,

		RemoteHost:      "localhost",
		RemotePort:      6379,
		RemoteNamespace: "replycache:",

		RetryMaxAttempts: 3,
		RetryBaseDelayMS: 1000,

		Model:       "default",
		Temperature: 0.7,
	}
}

// Load builds a Config from path (skipped when empty) and the environment,
// then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if _, err := backend.ParseKind(c.Backend); err != nil {
		bad("backend %q", c.Backend)
	}
	if c.MaxSize <= 0 {
		bad("max_size must be positive, got %d", c.MaxSize)
	}
	if c.DefaultTTLSeconds <= 0 {
		bad("default_ttl_seconds must be positive, got %d", c.DefaultTTLSeconds)
	}
	if _, err := codec.ByName[struct{}](c.Codec); err != nil {
		bad("codec %q", c.Codec)
	}
	if c.MaxValueBytes < 0 {
		bad("max_value_bytes must not be negative, got %d", c.MaxValueBytes)
	}
	if c.RemotePort <= 0 || c.RemotePort > 65535 {
		bad("remote_port out of range: %d", c.RemotePort)
	}
	if c.RemoteDB < 0 {
		bad("remote_db must not be negative, got %d", c.RemoteDB)
	}
	if c.RetryMaxAttempts < 1 {
		bad("retry_max_attempts must be at least 1, got %d", c.RetryMaxAttempts)
	}
	if c.RetryBaseDelayMS < 0 {
		bad("retry_base_delay_ms must not be negative, got %d", c.RetryBaseDelayMS)
	}
	if c.Temperature < 0 {
		bad("temperature must not be negative, got %v", c.Temperature)
	}
	return errors.Join(errs...)
}

func (c *Config) Kind() backend.Kind {
	k, _ := backend.ParseKind(c.Backend)
	return k
}

func (c *Config) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}

func (c *Config) RemoteAddr() string {
	return net.JoinHostPort(c.RemoteHost, strconv.Itoa(c.RemotePort))
}
