package media

import (
	"context"
	"log/slog"
)

const DefaultVisibilityThreshold = 0.5

// Player is one rendered video element.
type Player interface {
	Play() error
	Pause()
	Paused() bool
	SetMuted(muted bool)
	SetOverlayVisible(visible bool)
}

// Action is the playback change a report or toggle caused.
type Action int

const (
	ActionNone Action = iota
	ActionPlay
	ActionPause
)

func (a Action) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionPause:
		return "pause"
	default:
		return ""
	}
}

// Transition describes the state an element was left in, for callers that
// mirror playback onto a real player.
type Transition struct {
	Action         Action
	Muted          bool
	OverlayVisible bool
}

type element struct {
	player  Player
	visible bool
	manual  bool
}

// Controller starts and stops playback as elements cross the visibility
// threshold. Only threshold crossings act; repeated reports on the same side
// are ignored.
type Controller struct {
	threshold float64
	elements  map[string]*element
	log       *slog.Logger
}

func NewController(threshold float64, log *slog.Logger) *Controller {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultVisibilityThreshold
	}

	return &Controller{
		threshold: threshold,
		elements:  make(map[string]*element),
		log:       log,
	}
}

// Observe registers a player under id. Observing an id again keeps its
// visibility state and swaps the player.
func (c *Controller) Observe(id string, p Player) {
	if e, ok := c.elements[id]; ok {
		e.player = p
		return
	}

	c.elements[id] = &element{player: p}
}

func (c *Controller) Len() int {
	return len(c.elements)
}

// Reset forgets every element, e.g. after the rendered feed is cleared.
func (c *Controller) Reset() {
	clear(c.elements)
}

// OnVisibilityChanged records a new intersection ratio for id and reports
// what it changed. Reports that stay on the same side of the threshold change
// nothing.
func (c *Controller) OnVisibilityChanged(id string, ratio float64) Transition {
	e, ok := c.elements[id]
	if !ok {
		return Transition{}
	}

	visible := ratio >= c.threshold
	if visible == e.visible {
		return Transition{}
	}
	e.visible = visible

	if !visible {
		e.player.Pause()

		if e.manual {
			e.manual = false
			e.player.SetOverlayVisible(true)
		}

		return Transition{Action: ActionPause, OverlayVisible: true}
	}

	if e.manual {
		return Transition{}
	}

	e.player.SetMuted(true)
	if !c.play(id, e.player) {
		return Transition{}
	}

	return Transition{Action: ActionPlay, Muted: true, OverlayVisible: true}
}

// Toggle flips playback for id on explicit user request. The override lasts
// until the element next leaves the viewport, and it is set even when the
// element has not been reported visible yet. A rejected play leaves the
// element paused with its overlay shown.
func (c *Controller) Toggle(id string) (Transition, bool) {
	e, ok := c.elements[id]
	if !ok {
		return Transition{}, false
	}

	e.manual = true

	if e.player.Paused() {
		e.player.SetMuted(false)

		if !c.play(id, e.player) {
			e.player.SetOverlayVisible(true)
			return Transition{OverlayVisible: true}, true
		}

		e.player.SetOverlayVisible(false)

		return Transition{Action: ActionPlay}, true
	}

	e.player.Pause()
	e.player.SetOverlayVisible(true)

	return Transition{Action: ActionPause, OverlayVisible: true}, true
}

func (c *Controller) play(id string, p Player) bool {
	if err := p.Play(); err != nil {
		c.log.DebugContext(context.Background(), "Playback is rejected",
			"error", err,
			"elementID", id)

		return false
	}

	return true
}
