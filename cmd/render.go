package main

import (
	"context"
	"errors"
	"fmt"
	"time"
	"timesquare/internal/app"
	"timesquare/internal/domain"

	"github.com/spf13/cobra"
)

const settlePollInterval = 5 * time.Millisecond

var errUnknownFilter = errors.New("unknown filter")

type dispatcher interface {
	Dispatch(ctx context.Context, cmd app.Command) (app.Result, error)
}

func renderCmd(f *flags) *cobra.Command {
	var (
		filter string
		pages  int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the rendered document",
		Long:  "Render loads the content, applies the filter, requests the given number of extra pages and prints the resulting document.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd, *f)
			if err != nil {
				return err
			}

			parsed, ok := domain.ParseFilter(filter)
			if !ok {
				return fmt.Errorf("parse filter %q: %w", filter, errUnknownFilter)
			}

			session, err := newSession(cfg, 0, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			done := make(chan struct{})
			go func() {
				session.Run(ctx)
				close(done)
			}()
			defer func() {
				cancel()
				<-done
			}()

			html, err := renderDocument(ctx, session, parsed, pages)
			if err != nil {
				return err
			}

			cmd.Println(html)

			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", string(domain.FilterAll), "Post type filter (all, standard, news, video)")
	cmd.Flags().IntVar(&pages, "pages", 0, "Number of extra pages to load")

	return cmd
}

// renderDocument initializes the session, switches to filter, pulls up to
// pages extra batches and returns the full document.
func renderDocument(ctx context.Context, d dispatcher, filter domain.Filter, pages int) (string, error) {
	if _, err := d.Dispatch(ctx, app.Initialize{}); err != nil {
		return "", fmt.Errorf("initialize session: %w", err)
	}

	if filter != domain.FilterAll {
		if _, err := d.Dispatch(ctx, app.ChangeFilter{Filter: filter}); err != nil {
			return "", fmt.Errorf("change filter: %w", err)
		}
	}

	for range pages {
		res, err := d.Dispatch(ctx, app.RequestMore{})
		if err != nil {
			return "", fmt.Errorf("request more: %w", err)
		}

		if !res.Loading {
			break
		}

		if err = settle(ctx, d); err != nil {
			return "", err
		}
	}

	res, err := d.Dispatch(ctx, app.Snapshot{})
	if err != nil {
		return "", fmt.Errorf("snapshot document: %w", err)
	}

	return res.HTML, nil
}

// settle waits until no scroll load is in flight.
func settle(ctx context.Context, d dispatcher) error {
	ticker := time.NewTicker(settlePollInterval)
	defer ticker.Stop()

	for {
		res, err := d.Dispatch(ctx, app.FeedSnapshot{})
		if err != nil {
			return fmt.Errorf("poll feed: %w", err)
		}

		if !res.Pending {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
