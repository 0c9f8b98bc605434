package server

import (
	"errors"
	"fmt"
	"timesquare/internal/app"
	"timesquare/internal/domain"
	"timesquare/internal/scroll"
)

var ErrUnknownCommand = errors.New("unknown command")

// commandRequest is the wire form of app.Command.
type commandRequest struct {
	Type      string          `json:"type"`
	PostID    string          `json:"postId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	ElementID string          `json:"elementId,omitempty"`
	Filter    string          `json:"filter,omitempty"`
	Tab       string          `json:"tab,omitempty"`
	Ratio     float64         `json:"ratio,omitempty"`
	Position  scroll.Position `json:"position"`
}

func (c commandRequest) command() (app.Command, error) {
	switch c.Type {
	case app.Initialize{}.Name():
		return app.Initialize{}, nil
	case app.ChangeFilter{}.Name():
		return app.ChangeFilter{Filter: domain.Filter(c.Filter)}, nil
	case app.ToggleLike{}.Name():
		return app.ToggleLike{PostID: c.PostID}, nil
	case app.Scroll{}.Name():
		return app.Scroll{Position: c.Position}, nil
	case app.RequestMore{}.Name():
		return app.RequestMore{}, nil
	case app.VisibilityChanged{}.Name():
		return app.VisibilityChanged{ElementID: c.ElementID, Ratio: c.Ratio}, nil
	case app.ToggleMedia{}.Name():
		return app.ToggleMedia{ElementID: c.ElementID}, nil
	case app.ChangeTab{}.Name():
		return app.ChangeTab{Tab: c.Tab}, nil
	case app.Comment{}.Name():
		return app.Comment{PostID: c.PostID}, nil
	case app.Share{}.Name():
		return app.Share{PostID: c.PostID}, nil
	case app.PostMenu{}.Name():
		return app.PostMenu{PostID: c.PostID}, nil
	case app.ViewStory{}.Name():
		return app.ViewStory{UserID: c.UserID}, nil
	case app.CreatePost{}.Name():
		return app.CreatePost{}, nil
	case app.CreateStory{}.Name():
		return app.CreateStory{}, nil
	case app.Search{}.Name():
		return app.Search{}, nil
	case app.Watch{}.Name():
		return app.Watch{}, nil
	case app.FeedSnapshot{}.Name():
		return app.FeedSnapshot{}, nil
	default:
		return nil, fmt.Errorf("decode command %q: %w", c.Type, ErrUnknownCommand)
	}
}
