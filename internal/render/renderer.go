package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
	"timesquare/internal/domain"
)

const (
	FeedMountID    = "feed"
	StoriesMountID = "stories"
	ToastMountID   = "toast"
	LoadingID      = "loading"
	LoadingMoreID  = "loadingMore"

	maxStories   = 5
	pollInterval = 100 * time.Millisecond

	LoadFailedTitle = "Failed to load content"
	LoadFailedHint  = "Please check your content files"
)

//go:embed templates/*.html
var templatesFS embed.FS

//nolint:gochecknoglobals // read-only lookup
var verifiedAuthors = map[string]struct{}{
	"Tech Daily": {},
	"World News": {},
}

//nolint:gochecknoglobals // read-only lookup
var typeBadges = map[domain.PostType]string{
	domain.PostTypeNews:  "News",
	domain.PostTypeVideo: "Video",
}

type NavItem struct {
	Key     string
	Label   string
	Command string
	Active  bool
}

type PageData struct {
	Title              string
	Tabs               []NavItem
	Filters            []NavItem
	PollIntervalMillis int64
}

// DefaultPage is the shell with the home tab and the all filter active.
func DefaultPage(title string) PageData {
	return PageData{
		Title: title,
		Tabs: []NavItem{
			{Key: "home", Label: "Home", Command: "tab", Active: true},
			{Key: "friends", Label: "Friends", Command: "tab"},
			{Key: "watch", Label: "Watch", Command: "watch"},
			{Key: "marketplace", Label: "Marketplace", Command: "tab"},
			{Key: "notifications", Label: "Notifications", Command: "tab"},
		},
		Filters: []NavItem{
			{Key: string(domain.FilterAll), Label: "All", Active: true},
			{Key: string(domain.PostTypeStandard), Label: "Posts"},
			{Key: string(domain.PostTypeNews), Label: "News"},
			{Key: string(domain.PostTypeVideo), Label: "Videos"},
		},
		PollIntervalMillis: pollInterval.Milliseconds(),
	}
}

type postView struct {
	Post     domain.Post
	Liked    bool
	Verified bool
	Badge    string
	Time     string
	Likes    string
	Comments string
	Content  template.HTML
	VideoID  string
}

type storyView struct {
	domain.User
	FirstName string
}

type emptyStateView struct {
	Title string
	Hint  string
}

// Renderer turns domain values into HTML fragments.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

// New parses the embedded templates. A nil clock means time.Now.
func New(now func() time.Time) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	if now == nil {
		now = time.Now
	}

	return &Renderer{tmpl: tmpl, now: now}, nil
}

func (r *Renderer) Page(data PageData) (string, error) {
	return r.execute("page", data)
}

func (r *Renderer) Post(post domain.Post, liked bool) (string, error) {
	return r.execute("post", r.postView(post, liked))
}

// Posts renders a batch in order. isLiked may be nil.
func (r *Renderer) Posts(posts []domain.Post, isLiked func(id string) bool) (string, error) {
	var b strings.Builder

	for _, post := range posts {
		html, err := r.Post(post, isLiked != nil && isLiked(post.ID))
		if err != nil {
			return "", fmt.Errorf("render post %s: %w", post.ID, err)
		}

		b.WriteString(html)
	}

	return b.String(), nil
}

// Stories renders the first five users.
func (r *Renderer) Stories(users []domain.User) (string, error) {
	if len(users) > maxStories {
		users = users[:maxStories]
	}

	views := make([]storyView, 0, len(users))
	for _, u := range users {
		views = append(views, storyView{User: u, FirstName: FirstName(u.Name)})
	}

	return r.execute("stories", views)
}

func (r *Renderer) LoadingMore() (string, error) {
	return r.execute("loadingMore", LoadingMoreID)
}

func (r *Renderer) EmptyState(title, hint string) (string, error) {
	return r.execute("emptyState", emptyStateView{Title: title, Hint: hint})
}

func (r *Renderer) postView(post domain.Post, liked bool) postView {
	_, verified := verifiedAuthors[post.Author]

	view := postView{
		Post:     post,
		Liked:    liked,
		Verified: verified,
		Badge:    typeBadges[post.Type],
		Time:     FormatTime(post.Timestamp, r.now()),
		Likes:    FormatNumber(post.Stats.Likes),
		Comments: FormatNumber(post.Stats.Comments),
	}

	if post.Content != "" {
		view.Content = Linkify(post.Content)
	}

	if post.Media.Type == domain.MediaTypeVideo {
		view.VideoID = VideoElementID(post.ID)
	}

	return view
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var b bytes.Buffer

	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}

	return b.String(), nil
}
