package scroll

import (
	"context"
	"log/slog"
	"time"
	"timesquare/internal/domain"
)

const (
	DefaultThreshold = 100
	DefaultDelay     = 800 * time.Millisecond
)

type State int

const (
	StateIdle State = iota
	StateLoading
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Position is a snapshot of the scroll container, in pixels.
type Position struct {
	ScrollTop    int `json:"scrollTop"`
	ScrollHeight int `json:"scrollHeight"`
	ClientHeight int `json:"clientHeight"`
}

func (p Position) DistanceFromBottom() int {
	return p.ScrollHeight - (p.ScrollTop + p.ClientHeight)
}

// Source hands out batches. Generation identifies the filter the batches
// belong to.
type Source interface {
	NextBatch() []domain.Post
	Generation() uint64
}

type Sink interface {
	ShowLoading()
	HideLoading()
	AppendBatch(posts []domain.Post)
}

// Scheduler runs fn after d on the same execution context that calls the
// Loader.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type Options struct {
	Threshold int
	Delay     time.Duration
}

// Loader is a two-state machine: at most one load is in flight and a drained
// source disarms it until Rearm.
type Loader struct {
	source    Source
	sink      Sink
	scheduler Scheduler
	threshold int
	delay     time.Duration
	state     State
	disarmed  bool
	log       *slog.Logger
}

func New(source Source, sink Sink, scheduler Scheduler, opts Options, log *slog.Logger) *Loader {
	if opts.Threshold < 0 {
		opts.Threshold = DefaultThreshold
	}

	if opts.Delay < 0 {
		opts.Delay = 0
	}

	return &Loader{
		source:    source,
		sink:      sink,
		scheduler: scheduler,
		threshold: opts.Threshold,
		delay:     opts.Delay,
		log:       log,
	}
}

// OnScroll starts a load when pos is within the threshold of the bottom. It
// reports whether a load was started.
func (l *Loader) OnScroll(pos Position) bool {
	if pos.DistanceFromBottom() > l.threshold {
		return false
	}

	return l.RequestMore()
}

// RequestMore starts a load regardless of position, subject to the same
// guards as OnScroll.
func (l *Loader) RequestMore() bool {
	if l.state == StateLoading || l.disarmed {
		return false
	}

	l.state = StateLoading
	generation := l.source.Generation()

	l.sink.ShowLoading()
	l.scheduler.After(l.delay, func() {
		l.complete(generation)
	})

	return true
}

func (l *Loader) complete(generation uint64) {
	ctx := context.Background()

	l.sink.HideLoading()
	l.state = StateIdle

	if current := l.source.Generation(); current != generation {
		l.log.InfoContext(ctx, "Stale batch is discarded",
			"startedGeneration", generation,
			"currentGeneration", current)

		return
	}

	batch := l.source.NextBatch()
	if len(batch) == 0 {
		l.disarmed = true

		l.log.DebugContext(ctx, "Source is drained, loader is disarmed",
			"generation", generation)

		return
	}

	l.sink.AppendBatch(batch)

	l.log.DebugContext(ctx, "Batch is appended",
		"generation", generation,
		"batchSize", len(batch))
}

// Rearm re-enables a loader disarmed by a drained source. An in-flight load is
// left to complete; it will see the new generation and discard itself.
func (l *Loader) Rearm() {
	l.disarmed = false
}

func (l *Loader) State() State {
	return l.state
}

func (l *Loader) Armed() bool {
	return !l.disarmed
}
