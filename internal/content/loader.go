package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"timesquare/internal/domain"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const (
	ConfigResource = "content/config.json"
	PostsResource  = "content/posts.json"
	UsersResource  = "content/users.json"

	postsPerPagePath = "content.postsPerPage"
	maxDocumentBytes = 16 << 20
)

//nolint:gochecknoglobals // Codec configuration meant to be immutable.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Loader struct {
	baseURL *url.URL
	client  *http.Client
	log     *slog.Logger
}

// NewLoader fetches content over plain HTTP(S) relative to baseURL.
func NewLoader(baseURL string, client *http.Client, log *slog.Logger) (*Loader, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("parse base URL: %w", ErrMalformed)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	if client == nil {
		client = &http.Client{}
	}

	return &Loader{baseURL: u, client: client, log: log}, nil
}

// NewDirLoader reads content from root on the local filesystem. root is the
// directory that contains the content/ folder.
func NewDirLoader(root string, log *slog.Logger) *Loader {
	return &Loader{
		baseURL: &url.URL{Scheme: "file", Path: "/"},
		client:  &http.Client{Transport: http.NewFileTransport(http.Dir(root))},
		log:     log,
	}
}

// Load fetches the config document first, since the page size comes from it,
// then the posts and users documents concurrently.
func (l *Loader) Load(ctx context.Context) (*domain.Content, error) {
	settings, err := l.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	var (
		posts []domain.Post
		users []domain.User
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var loadErr error
		posts, loadErr = loadList[domain.Post](gctx, l, PostsResource, "posts")
		return loadErr
	})

	g.Go(func() error {
		var loadErr error
		users, loadErr = loadList[domain.User](gctx, l, UsersResource, "users")
		return loadErr
	})

	if err = g.Wait(); err != nil {
		return nil, err
	}

	l.log.InfoContext(ctx, "Content is loaded",
		"baseURL", l.baseURL.String(),
		"postsPerPage", settings.PostsPerPage,
		"postCount", len(posts),
		"userCount", len(users))

	return &domain.Content{
		Settings: settings,
		Posts:    posts,
		Users:    users,
	}, nil
}

func (l *Loader) loadSettings(ctx context.Context) (domain.Settings, error) {
	body, err := l.fetch(ctx, ConfigResource)
	if err != nil {
		return domain.Settings{}, &LoadError{Resource: ConfigResource, Err: err}
	}

	if !gjson.ValidBytes(body) {
		return domain.Settings{}, &LoadError{Resource: ConfigResource, Err: ErrMalformed}
	}

	pageSize, err := parsePostsPerPage(gjson.GetBytes(body, postsPerPagePath))
	if err != nil {
		return domain.Settings{}, &LoadError{Resource: ConfigResource, Err: err}
	}

	return domain.Settings{PostsPerPage: pageSize}, nil
}

func parsePostsPerPage(v gjson.Result) (int, error) {
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s is missing or not a number", ErrInvalidPageSize, postsPerPagePath)
	}

	n := v.Float()
	if n != math.Trunc(n) || n < 1 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPageSize, v.Raw)
	}

	return int(n), nil
}

func loadList[T any](ctx context.Context, l *Loader, resource, field string) ([]T, error) {
	body, err := l.fetch(ctx, resource)
	if err != nil {
		return nil, &LoadError{Resource: resource, Err: err}
	}

	if !gjson.ValidBytes(body) {
		return nil, &LoadError{Resource: resource, Err: ErrMalformed}
	}

	list := gjson.GetBytes(body, field)
	if !list.IsArray() {
		return nil, &LoadError{
			Resource: resource,
			Err:      fmt.Errorf("%w: field %q is not an array", ErrMalformed, field),
		}
	}

	items := make([]T, 0, len(list.Array()))
	if err = json.UnmarshalFromString(list.Raw, &items); err != nil {
		return nil, &LoadError{
			Resource: resource,
			Err:      fmt.Errorf("%w: decode %s: %w", ErrMalformed, field, err),
		}
	}

	return items, nil
}

func (l *Loader) fetch(ctx context.Context, resource string) ([]byte, error) {
	u := l.baseURL.JoinPath(resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			l.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", u.String(),
				"resource", resource)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}
