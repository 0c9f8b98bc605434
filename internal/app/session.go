package app

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"timesquare/internal/content"
	"timesquare/internal/domain"
	"timesquare/internal/feed"
	"timesquare/internal/interaction"
	"timesquare/internal/media"
	"timesquare/internal/render"
	"timesquare/internal/scroll"
)

const (
	queueSize = 64
	taskSize  = 16
)

var (
	ErrStopped        = errors.New("session is stopped")
	ErrInvalidCommand = errors.New("invalid command")
)

type ContentLoader interface {
	Load(ctx context.Context) (*domain.Content, error)
}

// Mount is a container the session renders fragments into.
type Mount interface {
	InsertAtEnd(fragment string)
	Clear()
	RemoveByID(id string)
	HTML() (string, error)
}

// Page covers the document-level marks the session maintains outside mounts.
type Page interface {
	SetLiked(postID string, liked bool) bool
	SetActiveTab(tab string)
	SetActiveFilter(filter string)
	Video(id string) (media.Player, error)
	VideoIDs() []string
	HTML() (string, error)
}

type Options struct {
	Loader   ContentLoader
	Renderer *render.Renderer
	Page     Page
	Feed     Mount
	Stories  Mount
	Notifier Notifier

	ScrollThreshold     int
	LoadDelay           time.Duration
	VisibilityThreshold float64
}

type state int

const (
	stateNew state = iota
	stateLoading
	stateReady
	stateFailed
)

type request struct {
	cmd      Command
	response chan response
}

type response struct {
	result Result
	err    error
}

// Session owns all feed state. Every mutation happens on the goroutine
// running Run; other goroutines talk to it through Dispatch.
type Session struct {
	loader   ContentLoader
	renderer *render.Renderer
	page     Page
	feed     Mount
	stories  Mount
	notifier Notifier

	tracker    *interaction.Tracker
	media      *media.Controller
	paginator  *feed.Paginator
	scroll     *scroll.Loader
	scrollOpts scroll.Options

	state   state
	waiters []chan response

	queue chan request
	tasks chan func()
	done  chan struct{}
	log   *slog.Logger
}

func New(opts Options, log *slog.Logger) *Session {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}

	return &Session{
		loader:   opts.Loader,
		renderer: opts.Renderer,
		page:     opts.Page,
		feed:     opts.Feed,
		stories:  opts.Stories,
		notifier: notifier,
		tracker:  interaction.NewTracker(),
		media:    media.NewController(opts.VisibilityThreshold, log),
		scrollOpts: scroll.Options{
			Threshold: opts.ScrollThreshold,
			Delay:     opts.LoadDelay,
		},
		queue: make(chan request, queueSize),
		tasks: make(chan func(), taskSize),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Run processes commands and scheduled tasks until ctx is done. It must be
// called exactly once.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case req := <-s.queue:
			s.handleRequest(ctx, req)
		case task := <-s.tasks:
			task()
		case <-ctx.Done():
			for _, w := range s.waiters {
				w <- response{err: ctx.Err()}
			}
			s.waiters = nil

			s.log.InfoContext(ctx, "Session is stopped")

			return
		}
	}
}

// Dispatch hands cmd to the loop and waits for its result.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	req := request{
		cmd:      cmd,
		response: make(chan response, 1),
	}

	select {
	case s.queue <- req:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-s.done:
		return Result{}, ErrStopped
	}

	select {
	case resp := <-req.response:
		return resp.result, resp.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-s.done:
		select {
		case resp := <-req.response:
			return resp.result, resp.err
		default:
			return Result{}, ErrStopped
		}
	}
}

// After runs fn on the loop once d has elapsed.
func (s *Session) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		s.enqueue(fn)
	})
}

func (s *Session) enqueue(task func()) {
	select {
	case s.tasks <- task:
	case <-s.done:
	}
}

func (s *Session) handleRequest(ctx context.Context, req request) {
	if _, ok := req.cmd.(Initialize); ok {
		s.initialize(ctx, req.response)
		return
	}

	result, err := s.handle(ctx, req.cmd)
	if s.scroll != nil {
		result.Pending = s.scroll.State() == scroll.StateLoading
		result.Drained = !s.scroll.Armed()
	}

	req.response <- response{result: result, err: err}
}

// initialize starts the content fetch off the loop. The caller is answered
// once the fetched content has been applied.
func (s *Session) initialize(ctx context.Context, resp chan response) {
	switch s.state {
	case stateLoading:
		s.waiters = append(s.waiters, resp)
		return
	case stateReady, stateFailed:
		resp <- response{}
		return
	case stateNew:
	}

	s.state = stateLoading
	s.waiters = append(s.waiters, resp)

	go func() {
		loaded, err := s.loader.Load(ctx)
		s.enqueue(func() {
			s.apply(ctx, loaded, err)
		})
	}()
}

func (s *Session) apply(ctx context.Context, loaded *domain.Content, err error) {
	if err == nil {
		err = s.start(ctx, loaded)
	}

	if err != nil {
		s.fail(ctx, err)
	}

	for _, w := range s.waiters {
		w <- response{err: err}
	}
	s.waiters = nil
}

func (s *Session) start(ctx context.Context, loaded *domain.Content) error {
	p, err := feed.NewPaginator(loaded.Posts, loaded.Settings.PostsPerPage)
	if err != nil {
		return err
	}

	stories, err := s.renderer.Stories(loaded.Users)
	if err != nil {
		return err
	}

	s.paginator = p
	s.scroll = scroll.New(p, feedSink{s: s}, s, s.scrollOpts, s.log)

	s.stories.InsertAtEnd(stories)
	s.feed.RemoveByID(render.LoadingID)

	if err = s.renderBatch(ctx, p.NextBatch()); err != nil {
		return err
	}

	s.state = stateReady

	s.log.InfoContext(ctx, "Session is ready",
		"posts", len(loaded.Posts),
		"users", len(loaded.Users),
		"postsPerPage", loaded.Settings.PostsPerPage)

	return nil
}

func (s *Session) fail(ctx context.Context, err error) {
	s.state = stateFailed

	s.log.ErrorContext(ctx, "Failed to load content",
		"error", err,
		"contentError", content.IsLoadError(err))

	s.feed.Clear()

	html, renderErr := s.renderer.EmptyState(render.LoadFailedTitle, render.LoadFailedHint)
	if renderErr != nil {
		s.log.ErrorContext(ctx, "Failed to render empty state", "error", renderErr)
		return
	}

	s.feed.InsertAtEnd(html)
}
