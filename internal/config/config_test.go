package config_test

import (
	"log/slog"
	"testing"
	"time"
	"timesquare/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected listen address: %q", cfg.ListenAddr)
	}

	if cfg.PageLoadDelay != 800*time.Millisecond {
		t.Fatalf("unexpected page load delay: %s", cfg.PageLoadDelay)
	}

	if cfg.ScrollThreshold != 100 {
		t.Fatalf("unexpected scroll threshold: %d", cfg.ScrollThreshold)
	}

	if cfg.VisibilityThreshold != 0.5 {
		t.Fatalf("unexpected visibility threshold: %v", cfg.VisibilityThreshold)
	}

	if err = cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to be valid, got %v", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PAGE_LOAD_DELAY", "250ms")
	t.Setenv("SCROLL_THRESHOLD_PX", "40")
	t.Setenv("CONTENT_BASE_URL", "http://localhost:9000/")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.PageLoadDelay != 250*time.Millisecond {
		t.Fatalf("unexpected page load delay: %s", cfg.PageLoadDelay)
	}

	if cfg.ScrollThreshold != 40 {
		t.Fatalf("unexpected scroll threshold: %d", cfg.ScrollThreshold)
	}

	if cfg.ContentBaseURL != "http://localhost:9000/" {
		t.Fatalf("unexpected content base URL: %q", cfg.ContentBaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Config{
		ListenAddr:          ":8080",
		ContentRoot:         ".",
		PageLoadDelay:       -time.Second,
		ScrollThreshold:     -1,
		VisibilityThreshold: 1.5,
		LogLevel:            "loud",
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := config.ParseLogLevel("DEBUG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if level != slog.LevelDebug {
		t.Fatalf("unexpected level: %v", level)
	}
}
