package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dhzdhd/curlr/internal/core"
)

// EnvPrefix is prepended to every environment variable read by LoadConfig.
const EnvPrefix = "CURLR_"

// Config holds application configuration.
type Config struct {
	Method          string        `env:"METHOD"`
	Tabs            []string      `env:"TABS" envSeparator:","`
	Timeout         time.Duration `env:"TIMEOUT"`
	FollowRedirects bool          `env:"FOLLOW_REDIRECTS"`
	LogFile         string        `env:"LOG_FILE"`
	LogLevel        string        `env:"LOG_LEVEL"`

	// Submit policy
	RequireValidURI bool `env:"REQUIRE_VALID_URI"`
	RequireJSONBody bool `env:"REQUIRE_JSON_BODY"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Method:          "auto",
		Tabs:            []string{"headers", "body"},
		Timeout:         30 * time.Second,
		FollowRedirects: true,
		LogLevel:        "info",
		RequireValidURI: true,
	}
}

// LoadConfig returns the defaults overridden by CURLR_* environment variables.
func LoadConfig() (Config, error) {
	return loadConfig(env.Options{Prefix: EnvPrefix})
}

func loadConfig(opts env.Options) (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if _, err := c.MethodPolicy(); err != nil {
		return err
	}
	if _, err := c.PayloadSlots(); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// MethodPolicy parses the configured method.
func (c Config) MethodPolicy() (core.MethodPolicy, error) {
	return core.ParseMethodPolicy(c.Method)
}

// PayloadSlots parses the configured tab order.
func (c Config) PayloadSlots() ([]core.Slot, error) {
	return core.ParsePayloadSlots(c.Tabs)
}

// Level parses the configured log level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// NewLogger builds the application logger. Without a log file every record is
// discarded, since the terminal belongs to the UI. The returned closer releases
// the file.
func NewLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(handler), f, nil
}
