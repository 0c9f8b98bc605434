package app

import (
	"timesquare/internal/domain"
	"timesquare/internal/scroll"
)

// Command is a user or environment event handled by the session loop.
type Command interface {
	Name() string
}

type Initialize struct{}

type ChangeFilter struct {
	Filter domain.Filter
}

type ToggleLike struct {
	PostID string
}

type Scroll struct {
	Position scroll.Position
}

type RequestMore struct{}

type VisibilityChanged struct {
	ElementID string
	Ratio     float64
}

type ToggleMedia struct {
	ElementID string
}

type ChangeTab struct {
	Tab string
}

type Comment struct {
	PostID string
}

type Share struct {
	PostID string
}

type PostMenu struct {
	PostID string
}

type ViewStory struct {
	UserID string
}

type CreatePost struct{}

type CreateStory struct{}

type Search struct{}

// Watch switches the feed to videos.
type Watch struct{}

// Snapshot returns the whole document in Result.HTML.
type Snapshot struct{}

// FeedSnapshot returns the feed mount in Result.HTML.
type FeedSnapshot struct{}

func (Initialize) Name() string        { return "initialize" }
func (ChangeFilter) Name() string      { return "filter" }
func (ToggleLike) Name() string        { return "like" }
func (Scroll) Name() string            { return "scroll" }
func (RequestMore) Name() string       { return "requestMore" }
func (VisibilityChanged) Name() string { return "visibility" }
func (ToggleMedia) Name() string       { return "toggleMedia" }
func (ChangeTab) Name() string         { return "tab" }
func (Comment) Name() string           { return "comment" }
func (Share) Name() string             { return "share" }
func (PostMenu) Name() string          { return "postMenu" }
func (ViewStory) Name() string         { return "viewStory" }
func (CreatePost) Name() string        { return "createPost" }
func (CreateStory) Name() string       { return "createStory" }
func (Search) Name() string            { return "search" }
func (Watch) Name() string             { return "watch" }
func (Snapshot) Name() string          { return "snapshot" }
func (FeedSnapshot) Name() string      { return "feedSnapshot" }

// Playback is a playback change the caller should mirror onto the element.
type Playback struct {
	ElementID      string `json:"elementId"`
	Action         string `json:"action"`
	Muted          bool   `json:"muted"`
	OverlayVisible bool   `json:"overlayVisible"`
}

// Result is what a command changed, for the caller to reflect. Pending
// reports a scroll load in flight and Drained a loader disarmed by an
// exhausted feed; both are set on every result.
type Result struct {
	Liked       bool      `json:"liked"`
	Loading     bool      `json:"loading"`
	Playing     bool      `json:"playing"`
	ScrollToTop bool      `json:"scrollToTop"`
	Pending     bool      `json:"pending"`
	Drained     bool      `json:"drained"`
	Playback    *Playback `json:"playback,omitempty"`
	Notices     []string  `json:"notices,omitempty"`
	HTML        string    `json:"-"`
}

const (
	noticeLiked       = "Liked!"
	noticeComments    = "Comments coming soon!"
	noticeShared      = "Link copied to clipboard!"
	noticeCreatePost  = "Create post - edit content/posts.json to add new posts!"
	noticeCreateStory = "Stories coming soon!"
	noticeViewStory   = "Story viewer coming soon!"
	noticePostMenu    = "Post options: Save, Hide, Report, Unfollow"
	noticeSearch      = "Search - filter by tags in content/posts.json"
	noticeTabSuffix   = " coming soon!"
)
