package feed_test

import (
	"errors"
	"fmt"
	"testing"
	"timesquare/internal/domain"
	"timesquare/internal/feed"
)

func makePosts(types ...domain.PostType) []domain.Post {
	posts := make([]domain.Post, 0, len(types))
	for i, typ := range types {
		posts = append(posts, domain.Post{ID: fmt.Sprintf("p%d", i+1), Type: typ})
	}
	return posts
}

func repeat(typ domain.PostType, n int) []domain.PostType {
	types := make([]domain.PostType, n)
	for i := range types {
		types[i] = typ
	}
	return types
}

func ids(posts []domain.Post) []string {
	out := make([]string, 0, len(posts))
	for _, post := range posts {
		out = append(out, post.ID)
	}
	return out
}

func TestNewPaginatorRejectsNonPositivePageSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		if _, err := feed.NewPaginator(nil, size); !errors.Is(err, feed.ErrInvalidPageSize) {
			t.Fatalf("page size %d: expected ErrInvalidPageSize, got %v", size, err)
		}
	}
}

func TestNextBatchPartitionsFilteredPosts(t *testing.T) {
	types := []domain.PostType{
		domain.PostTypeStandard, domain.PostTypeNews, domain.PostTypeVideo,
		domain.PostTypeNews, domain.PostTypeStandard, domain.PostTypeVideo,
		domain.PostTypeNews, domain.PostTypeStandard, domain.PostTypeNews,
		domain.PostTypeVideo, domain.PostTypeStandard,
	}
	posts := makePosts(types...)

	filters := []domain.Filter{
		domain.FilterAll,
		domain.Filter(domain.PostTypeStandard),
		domain.Filter(domain.PostTypeNews),
		domain.Filter(domain.PostTypeVideo),
	}

	for _, f := range filters {
		for pageSize := 1; pageSize <= len(posts)+1; pageSize++ {
			p, err := feed.NewPaginator(posts, pageSize)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			p.SetFilter(f)

			var want []string
			for _, post := range posts {
				if f.Matches(post.Type) {
					want = append(want, post.ID)
				}
			}

			var got []string
			for {
				batch := p.NextBatch()
				if len(batch) == 0 {
					break
				}
				if len(batch) > pageSize {
					t.Fatalf("filter %s size %d: batch of %d exceeds page size", f, pageSize, len(batch))
				}
				if p.Offset() > p.Len() {
					t.Fatalf("filter %s size %d: offset %d beyond %d", f, pageSize, p.Offset(), p.Len())
				}
				got = append(got, ids(batch)...)
			}

			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Fatalf("filter %s size %d: got %v want %v", f, pageSize, got, want)
			}

			for range 3 {
				if batch := p.NextBatch(); len(batch) != 0 {
					t.Fatalf("filter %s size %d: expected empty batch after exhaustion", f, pageSize)
				}
			}

			if !p.Exhausted() {
				t.Fatalf("filter %s size %d: expected paginator to be exhausted", f, pageSize)
			}
		}
	}
}

func TestNextBatchTwelveVideosPageFive(t *testing.T) {
	posts := makePosts(append(repeat(domain.PostTypeVideo, 12), repeat(domain.PostTypeNews, 4)...)...)

	p, err := feed.NewPaginator(posts, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.SetFilter(domain.Filter(domain.PostTypeVideo))

	want := []int{5, 5, 2, 0}
	for i, size := range want {
		if got := len(p.NextBatch()); got != size {
			t.Fatalf("batch %d: got size %d want %d", i, got, size)
		}
	}
}

func TestSetFilterResetsOffset(t *testing.T) {
	posts := makePosts(repeat(domain.PostTypeStandard, 9)...)

	p, err := feed.NewPaginator(posts, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.NextBatch()
	p.NextBatch()
	if p.Offset() != 8 {
		t.Fatalf("unexpected offset: %d", p.Offset())
	}

	before := p.Generation()
	p.SetFilter(domain.FilterAll)

	if p.Offset() != 0 {
		t.Fatalf("expected offset reset, got %d", p.Offset())
	}

	if p.Generation() == before {
		t.Fatalf("expected generation to change on SetFilter")
	}

	if got := ids(p.NextBatch()); fmt.Sprint(got) != "[p1 p2 p3 p4]" {
		t.Fatalf("unexpected first batch after reset: %v", got)
	}
}

func TestUnknownPostTypeOnlyUnderAll(t *testing.T) {
	posts := makePosts(domain.PostTypeStandard, domain.PostType("poll"))

	p, err := feed.NewPaginator(posts, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Len() != 2 {
		t.Fatalf("expected both posts under all, got %d", p.Len())
	}

	p.SetFilter(domain.Filter(domain.PostTypeStandard))
	if p.Len() != 1 {
		t.Fatalf("expected one standard post, got %d", p.Len())
	}
}

func TestPostLookupIgnoresFilter(t *testing.T) {
	posts := makePosts(domain.PostTypeStandard, domain.PostTypeNews)

	p, err := feed.NewPaginator(posts, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.SetFilter(domain.Filter(domain.PostTypeNews))

	if _, ok := p.Post("p1"); !ok {
		t.Fatalf("expected lookup to find standard post under news filter")
	}

	if _, ok := p.Post("missing"); ok {
		t.Fatalf("expected lookup of unknown id to fail")
	}
}
