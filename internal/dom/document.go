package dom

import (
	"errors"
	"fmt"
	"strings"
	"timesquare/internal/media"

	"github.com/PuerkitoBio/goquery"
)

const (
	likedClass  = "liked"
	activeClass = "active"

	stateAttr    = "data-state"
	statePlaying = "playing"
	statePaused  = "paused"
)

var ErrElementNotFound = errors.New("element not found")

// Document is an in-memory HTML document used as the rendering sink. It is
// not safe for concurrent use.
type Document struct {
	doc *goquery.Document
}

func Parse(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return &Document{doc: doc}, nil
}

func (d *Document) Mount(id string) *Mount {
	return &Mount{doc: d, id: id}
}

func (d *Document) HTML() (string, error) {
	html, err := d.doc.Html()
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}

	return html, nil
}

func (d *Document) byID(id string) *goquery.Selection {
	return d.doc.Find(idSelector(id))
}

// SetLiked marks the like button of postID. It reports whether the post is
// rendered.
func (d *Document) SetLiked(postID string, liked bool) bool {
	btn := d.doc.Find(fmt.Sprintf(`article[data-id=%q] .action-btn`, postID)).First()
	if btn.Length() == 0 {
		return false
	}

	if liked {
		btn.AddClass(likedClass)
	} else {
		btn.RemoveClass(likedClass)
	}

	return true
}

func (d *Document) SetActiveTab(tab string) {
	setActive(d.doc.Find(".nav-item, .bottom-nav-item"), "data-tab", tab)
}

func (d *Document) SetActiveFilter(filter string) {
	setActive(d.doc.Find(".sub-nav-item"), "data-filter", filter)
}

func setActive(items *goquery.Selection, attr, value string) {
	items.Each(func(_ int, s *goquery.Selection) {
		s.RemoveClass(activeClass)

		if v, _ := s.Attr(attr); v == value {
			s.AddClass(activeClass)
		}
	})
}

// VideoIDs lists the ids of rendered video elements in document order.
func (d *Document) VideoIDs() []string {
	var ids []string

	d.doc.Find("video.post-video").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			ids = append(ids, id)
		}
	})

	return ids
}

func (d *Document) Video(id string) (media.Player, error) {
	if d.byID(id).Filter("video").Length() == 0 {
		return nil, fmt.Errorf("find video %s: %w", id, ErrElementNotFound)
	}

	return &Video{doc: d, id: id}, nil
}

func idSelector(id string) string {
	return fmt.Sprintf(`[id=%q]`, id)
}

// Mount is a container element addressed by id.
type Mount struct {
	doc *Document
	id  string
}

func (m *Mount) selection() *goquery.Selection {
	return m.doc.byID(m.id)
}

func (m *Mount) InsertAtEnd(fragment string) {
	m.selection().AppendHtml(fragment)
}

func (m *Mount) Clear() {
	m.selection().Empty()
}

// RemoveByID removes the descendant with the given id, if any.
func (m *Mount) RemoveByID(id string) {
	m.selection().Find(idSelector(id)).Remove()
}

func (m *Mount) HTML() (string, error) {
	sel := m.selection()
	if sel.Length() == 0 {
		return "", fmt.Errorf("find mount %s: %w", m.id, ErrElementNotFound)
	}

	html, err := sel.Html()
	if err != nil {
		return "", fmt.Errorf("render mount %s: %w", m.id, err)
	}

	return html, nil
}
