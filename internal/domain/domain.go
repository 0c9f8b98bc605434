package domain

import (
	"strings"
	"time"
)

type PostType string

const (
	PostTypeStandard PostType = "standard"
	PostTypeNews     PostType = "news"
	PostTypeVideo    PostType = "video"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type Media struct {
	Type      MediaType `json:"type"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Duration  string    `json:"duration,omitempty"`
}

type Stats struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

type Post struct {
	ID           string    `json:"id"`
	Type         PostType  `json:"type"`
	Author       string    `json:"author"`
	AuthorAvatar string    `json:"authorAvatar"`
	Content      string    `json:"content,omitempty"`
	Media        Media     `json:"media"`
	Stats        Stats     `json:"stats"`
	Timestamp    time.Time `json:"timestamp"`
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Settings holds the consumed part of the config document.
type Settings struct {
	PostsPerPage int
}

// Content is everything the loader produces in one pass.
type Content struct {
	Settings Settings
	Posts    []Post
	Users    []User
}

// Filter restricts the feed to one post type. FilterAll matches every post.
type Filter string

const FilterAll Filter = "all"

func ParseFilter(raw string) (Filter, bool) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))

	switch f {
	case FilterAll,
		Filter(PostTypeStandard),
		Filter(PostTypeNews),
		Filter(PostTypeVideo):
		return f, true
	default:
		return "", false
	}
}

func (f Filter) Matches(t PostType) bool {
	return f == FilterAll || f == Filter(t)
}
