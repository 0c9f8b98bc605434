package app

import (
	"context"
	"fmt"
	"strings"
	"timesquare/internal/domain"
	"timesquare/internal/media"
	"timesquare/internal/render"
	"unicode"
	"unicode/utf8"
)

const homeTab = "home"

func (s *Session) handle(ctx context.Context, cmd Command) (Result, error) {
	if err := validate(cmd); err != nil {
		return Result{}, err
	}

	switch cmd.(type) {
	case Snapshot:
		html, err := s.page.HTML()
		return Result{HTML: html}, err
	case FeedSnapshot:
		html, err := s.feed.HTML()
		return Result{HTML: html}, err
	}

	if s.state != stateReady {
		s.log.DebugContext(ctx, "Command is ignored",
			"command", cmd.Name(),
			"state", int(s.state))

		return Result{}, nil
	}

	switch c := cmd.(type) {
	case ChangeFilter:
		return s.changeFilter(ctx, c.Filter)
	case Watch:
		return s.changeFilter(ctx, domain.Filter(domain.PostTypeVideo))
	case ToggleLike:
		return s.toggleLike(ctx, c.PostID), nil
	case Scroll:
		return Result{Loading: s.scroll.OnScroll(c.Position)}, nil
	case RequestMore:
		return Result{Loading: s.scroll.RequestMore()}, nil
	case VisibilityChanged:
		return playbackResult(c.ElementID, s.media.OnVisibilityChanged(c.ElementID, c.Ratio)), nil
	case ToggleMedia:
		t, _ := s.media.Toggle(c.ElementID)
		return playbackResult(c.ElementID, t), nil
	case ChangeTab:
		return s.changeTab(ctx, c.Tab), nil
	case Share:
		if _, ok := s.paginator.Post(c.PostID); !ok {
			return Result{}, nil
		}
		return s.notify(ctx, Result{}, noticeShared), nil
	case Comment:
		return s.notify(ctx, Result{}, noticeComments), nil
	case PostMenu:
		return s.notify(ctx, Result{}, noticePostMenu), nil
	case ViewStory:
		return s.notify(ctx, Result{}, noticeViewStory), nil
	case CreatePost:
		return s.notify(ctx, Result{}, noticeCreatePost), nil
	case CreateStory:
		return s.notify(ctx, Result{}, noticeCreateStory), nil
	case Search:
		return s.notify(ctx, Result{}, noticeSearch), nil
	default:
		return Result{}, fmt.Errorf("handle %s: %w", cmd.Name(), ErrInvalidCommand)
	}
}

func validate(cmd Command) error {
	switch c := cmd.(type) {
	case nil:
		return fmt.Errorf("validate command: %w", ErrInvalidCommand)
	case ChangeFilter:
		if _, ok := domain.ParseFilter(string(c.Filter)); !ok {
			return fmt.Errorf("validate filter %q: %w", c.Filter, ErrInvalidCommand)
		}
	case ChangeTab:
		if strings.TrimSpace(c.Tab) == "" {
			return fmt.Errorf("validate tab: %w", ErrInvalidCommand)
		}
	}

	return nil
}

func (s *Session) changeFilter(ctx context.Context, raw domain.Filter) (Result, error) {
	f, _ := domain.ParseFilter(string(raw))

	generation := s.paginator.SetFilter(f)

	s.feed.Clear()
	s.media.Reset()
	s.page.SetActiveFilter(string(f))

	err := s.renderBatch(ctx, s.paginator.NextBatch())
	s.scroll.Rearm()

	s.log.InfoContext(ctx, "Filter is changed",
		"filter", f,
		"generation", generation,
		"matching", s.paginator.Len())

	return Result{}, err
}

func (s *Session) toggleLike(ctx context.Context, postID string) Result {
	if _, ok := s.paginator.Post(postID); !ok {
		return Result{}
	}

	liked := s.tracker.ToggleLike(postID)
	s.page.SetLiked(postID, liked)

	s.log.DebugContext(ctx, "Like is toggled",
		"postID", postID,
		"liked", liked,
		"likes", s.tracker.Count())

	result := Result{Liked: liked}
	if liked {
		result = s.notify(ctx, result, noticeLiked)
	}

	return result
}

func (s *Session) changeTab(ctx context.Context, tab string) Result {
	tab = strings.TrimSpace(tab)
	s.page.SetActiveTab(tab)

	if tab == homeTab {
		return Result{ScrollToTop: true}
	}

	return s.notify(ctx, Result{}, capitalize(tab)+noticeTabSuffix)
}

func (s *Session) notify(ctx context.Context, result Result, message string) Result {
	s.notifier.Notify(ctx, message)
	result.Notices = append(result.Notices, message)

	return result
}

func playbackResult(elementID string, t media.Transition) Result {
	if t.Action == media.ActionNone {
		return Result{}
	}

	playback := &Playback{
		ElementID:      elementID,
		Action:         t.Action.String(),
		Muted:          t.Muted,
		OverlayVisible: t.OverlayVisible,
	}

	return Result{Playing: t.Action == media.ActionPlay, Playback: playback}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// renderBatch appends posts to the feed and registers the rendered videos.
func (s *Session) renderBatch(ctx context.Context, batch []domain.Post) error {
	if len(batch) == 0 {
		return nil
	}

	html, err := s.renderer.Posts(batch, s.tracker.IsLiked)
	if err != nil {
		return fmt.Errorf("render batch: %w", err)
	}

	s.feed.InsertAtEnd(html)

	for _, id := range s.page.VideoIDs() {
		player, err := s.page.Video(id)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to observe video",
				"error", err,
				"elementID", id)

			continue
		}

		s.media.Observe(id, player)
	}

	s.log.DebugContext(ctx, "Batch is rendered",
		"posts", len(batch),
		"videos", s.media.Len())

	return nil
}

type feedSink struct {
	s *Session
}

func (f feedSink) ShowLoading() {
	html, err := f.s.renderer.LoadingMore()
	if err != nil {
		f.s.log.Error("Failed to render loading indicator", "error", err)
		return
	}

	f.s.feed.InsertAtEnd(html)
}

func (f feedSink) HideLoading() {
	f.s.feed.RemoveByID(render.LoadingMoreID)
}

func (f feedSink) AppendBatch(posts []domain.Post) {
	if err := f.s.renderBatch(context.Background(), posts); err != nil {
		f.s.log.Error("Failed to append batch", "error", err)
	}
}
