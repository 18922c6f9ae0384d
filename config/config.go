// Package config loads the process configuration: defaults, then an optional
// YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jamoski3112/hevy-mcp/hevy"
)

// Environment variables read by Load.
const (
	EnvAPIKey    = "HEVY_API_KEY"
	EnvBaseURL   = "HEVY_BASE_URL"
	EnvTimeout   = "HEVY_TIMEOUT"
	EnvHTTPAddr  = "HEVY_HTTP_ADDR"
	EnvHTTPToken = "HEVY_HTTP_TOKEN"
	EnvLogLevel  = "HEVY_LOG_LEVEL"
)

// DefaultHTTPAddr is the listen address of the HTTP surface.
const DefaultHTTPAddr = ":8080"

// ErrMissingAPIKey means no Hevy API key was configured.
var ErrMissingAPIKey = fmt.Errorf("%s environment variable is not set", EnvAPIKey)

// Config is the process configuration.
type Config struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	HTTPAddr  string        `yaml:"http_addr"`
	HTTPToken string        `yaml:"http_token"`
	LogLevel  string        `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		BaseURL:  hevy.DefaultBaseURL,
		Timeout:  hevy.DefaultTimeout,
		HTTPAddr: DefaultHTTPAddr,
		LogLevel: "info",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, later sources winning. It does not
// validate the result.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvAPIKey, &cfg.APIKey)
	str(EnvBaseURL, &cfg.BaseURL)
	str(EnvHTTPAddr, &cfg.HTTPAddr)
	str(EnvHTTPToken, &cfg.HTTPToken)
	str(EnvLogLevel, &cfg.LogLevel)
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// Validate reports every configuration problem. A missing API key is
// reported as ErrMissingAPIKey.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.APIKey) == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, falling back to info.
func (c Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel parses debug, info, warn or error (case-insensitive). Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
