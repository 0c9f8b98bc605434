package interaction

// Tracker holds the liked-post set for one session. It is not safe for
// concurrent use; the session loop is its only caller.
type Tracker struct {
	liked map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{liked: make(map[string]struct{})}
}

// ToggleLike flips membership of postID and reports the resulting state.
func (t *Tracker) ToggleLike(postID string) bool {
	if _, ok := t.liked[postID]; ok {
		delete(t.liked, postID)
		return false
	}

	t.liked[postID] = struct{}{}

	return true
}

func (t *Tracker) IsLiked(postID string) bool {
	_, ok := t.liked[postID]
	return ok
}

func (t *Tracker) Count() int {
	return len(t.liked)
}
