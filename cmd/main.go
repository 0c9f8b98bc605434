package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"timesquare/internal/app"
	"timesquare/internal/config"
	"timesquare/internal/content"
	"timesquare/internal/server"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "timesquare"

	contentFetchTimeout = 10 * time.Second
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	listenAddr  string
	contentRoot string
	contentURL  string
	logLevel    string
}

// apply overrides env values with flags that were set explicitly.
func (f flags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = f.listenAddr
	}

	if cmd.Flags().Changed("content-root") {
		cfg.ContentRoot = f.contentRoot
	}

	if cmd.Flags().Changed("content-url") {
		cfg.ContentBaseURL = f.contentURL
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Static social feed renderer",
		Long:         "Timesquare renders posts and users from static JSON documents into a scrollable feed and serves it over HTTP.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd, f)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg, log)
		},
	}

	cmd.PersistentFlags().StringVar(&f.listenAddr, "addr", ":8080", "HTTP listen address")
	cmd.PersistentFlags().StringVar(&f.contentRoot, "content-root", ".", "Directory containing content/")
	cmd.PersistentFlags().StringVar(&f.contentURL, "content-url", "", "Fetch content over HTTP from this base URL")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(renderCmd(&f))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func setup(cmd *cobra.Command, f flags) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}

	f.apply(cmd, &cfg)

	if err = cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("validate config: %w", err)
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	return cfg, log, nil
}

func newLoader(cfg config.Config, log *slog.Logger) (app.ContentLoader, error) {
	if strings.TrimSpace(cfg.ContentBaseURL) != "" {
		return content.NewLoader(cfg.ContentBaseURL, &http.Client{Timeout: contentFetchTimeout}, log)
	}

	return content.NewDirLoader(cfg.ContentRoot, log), nil
}

func newSession(cfg config.Config, delay time.Duration, log *slog.Logger) (*app.Session, error) {
	loader, err := newLoader(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create content loader: %w", err)
	}

	session, err := app.NewDocumentSession(loader, app.Settings{
		ScrollThreshold:     cfg.ScrollThreshold,
		LoadDelay:           delay,
		VisibilityThreshold: cfg.VisibilityThreshold,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

func serve(parent context.Context, cfg config.Config, log *slog.Logger) error {
	start := time.Now()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newSession(cfg, cfg.PageLoadDelay, log)
	if err != nil {
		return err
	}

	sessionDone := make(chan struct{})
	go func() {
		session.Run(ctx)
		close(sessionDone)
	}()
	log.InfoContext(ctx, "Session is started",
		"contentRoot", cfg.ContentRoot,
		"contentBaseURL", cfg.ContentBaseURL,
		"pageLoadDelay", cfg.PageLoadDelay)

	root := cfg.ContentRoot
	if strings.TrimSpace(cfg.ContentBaseURL) != "" {
		root = ""
	}

	err = server.New(session, root, log).Run(ctx, cfg.ListenAddr)

	stop()
	<-sessionDone

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())

	return err
}
