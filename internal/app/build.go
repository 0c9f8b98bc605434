package app

import (
	"fmt"
	"log/slog"
	"time"
	"timesquare/internal/dom"
	"timesquare/internal/render"
)

const pageTitle = "Timesquare"

type Settings struct {
	ScrollThreshold     int
	LoadDelay           time.Duration
	VisibilityThreshold float64
	// Now is the clock used for relative timestamps. Nil means time.Now.
	Now func() time.Time
}

// NewDocumentSession renders the page shell into an in-memory document and
// wires a session that renders into it.
func NewDocumentSession(loader ContentLoader, settings Settings, log *slog.Logger) (*Session, error) {
	renderer, err := render.New(settings.Now)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	shell, err := renderer.Page(render.DefaultPage(pageTitle))
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	doc, err := dom.Parse(shell)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	return New(Options{
		Loader:              loader,
		Renderer:            renderer,
		Page:                doc,
		Feed:                doc.Mount(render.FeedMountID),
		Stories:             doc.Mount(render.StoriesMountID),
		Notifier:            NewLogNotifier(log),
		ScrollThreshold:     settings.ScrollThreshold,
		LoadDelay:           settings.LoadDelay,
		VisibilityThreshold: settings.VisibilityThreshold,
	}, log), nil
}
