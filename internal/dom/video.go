package dom

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Video drives a rendered <video> element through its attributes: data-state
// for playback, the muted attribute and the overlay opacity.
type Video struct {
	doc *Document
	id  string
}

func (v *Video) element() *goquery.Selection {
	return v.doc.byID(v.id).Filter("video")
}

func (v *Video) overlay() *goquery.Selection {
	return v.element().Parent().Find(".video-overlay")
}

func (v *Video) Play() error {
	el := v.element()
	if el.Length() == 0 {
		return fmt.Errorf("play video %s: %w", v.id, ErrElementNotFound)
	}

	el.SetAttr(stateAttr, statePlaying)

	return nil
}

func (v *Video) Pause() {
	v.element().SetAttr(stateAttr, statePaused)
}

func (v *Video) Paused() bool {
	state, _ := v.element().Attr(stateAttr)
	return state != statePlaying
}

func (v *Video) Muted() bool {
	_, ok := v.element().Attr("muted")
	return ok
}

func (v *Video) SetMuted(muted bool) {
	el := v.element()

	if muted {
		el.SetAttr("muted", "")
		return
	}

	el.RemoveAttr("muted")
}

func (v *Video) SetOverlayVisible(visible bool) {
	opacity := "opacity: 0"
	if visible {
		opacity = "opacity: 1"
	}

	v.overlay().SetAttr("style", opacity)
}

func (v *Video) OverlayVisible() bool {
	style, _ := v.overlay().Attr("style")
	return style != "opacity: 0"
}
