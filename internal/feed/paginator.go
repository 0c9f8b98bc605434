package feed

import (
	"errors"
	"slices"
	"timesquare/internal/domain"
)

var ErrInvalidPageSize = errors.New("page size must be positive")

// Paginator hands out consecutive batches of the posts matching the current
// filter. The generation changes on every SetFilter, so callers holding a
// generation can tell whether the filter moved under them.
type Paginator struct {
	posts      []domain.Post
	filtered   []domain.Post
	pageSize   int
	filter     domain.Filter
	offset     int
	generation uint64
}

func NewPaginator(posts []domain.Post, pageSize int) (*Paginator, error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}

	p := &Paginator{
		posts:    slices.Clone(posts),
		pageSize: pageSize,
	}
	p.SetFilter(domain.FilterAll)

	return p, nil
}

func (p *Paginator) SetFilter(f domain.Filter) uint64 {
	p.filter = f
	p.offset = 0
	p.generation++

	if f == domain.FilterAll {
		p.filtered = p.posts
		return p.generation
	}

	p.filtered = make([]domain.Post, 0, len(p.posts))
	for _, post := range p.posts {
		if f.Matches(post.Type) {
			p.filtered = append(p.filtered, post)
		}
	}

	return p.generation
}

// NextBatch returns up to pageSize posts following the current offset. An
// empty batch means the filtered view is exhausted.
func (p *Paginator) NextBatch() []domain.Post {
	if p.offset >= len(p.filtered) {
		return nil
	}

	end := min(p.offset+p.pageSize, len(p.filtered))
	batch := slices.Clone(p.filtered[p.offset:end])
	p.offset = end

	return batch
}

func (p *Paginator) Filter() domain.Filter {
	return p.filter
}

func (p *Paginator) Offset() int {
	return p.offset
}

func (p *Paginator) Generation() uint64 {
	return p.generation
}

// Len is the number of posts matching the current filter.
func (p *Paginator) Len() int {
	return len(p.filtered)
}

func (p *Paginator) Exhausted() bool {
	return p.offset >= len(p.filtered)
}

// Post looks a post up by id regardless of the current filter.
func (p *Paginator) Post(id string) (domain.Post, bool) {
	i := slices.IndexFunc(p.posts, func(post domain.Post) bool { return post.ID == id })
	if i < 0 {
		return domain.Post{}, false
	}

	return p.posts[i], true
}
