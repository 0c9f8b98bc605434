package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr          string        `env:"LISTEN_ADDR"          envDefault:":8080"`
	ContentRoot         string        `env:"CONTENT_ROOT"         envDefault:"."`
	ContentBaseURL      string        `env:"CONTENT_BASE_URL"`
	PageLoadDelay       time.Duration `env:"PAGE_LOAD_DELAY"      envDefault:"800ms"`
	ScrollThreshold     int           `env:"SCROLL_THRESHOLD_PX"  envDefault:"100"`
	VisibilityThreshold float64       `env:"VISIBILITY_THRESHOLD" envDefault:"0.5"`
	LogLevel            string        `env:"LOG_LEVEL"            envDefault:"info"`
}

func LoadConfig() (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}

	if strings.TrimSpace(c.ContentRoot) == "" && strings.TrimSpace(c.ContentBaseURL) == "" {
		errs = append(errs, errors.New("either content root or content base URL is required"))
	}

	if c.PageLoadDelay < 0 {
		errs = append(errs, fmt.Errorf("page load delay must not be negative (got %s)", c.PageLoadDelay))
	}

	if c.ScrollThreshold < 0 {
		errs = append(errs, fmt.Errorf("scroll threshold must not be negative (got %d)", c.ScrollThreshold))
	}

	if c.VisibilityThreshold <= 0 || c.VisibilityThreshold > 1 {
		errs = append(errs, fmt.Errorf("visibility threshold must be in (0, 1] (got %v)", c.VisibilityThreshold))
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func ParseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}
