package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"timesquare/internal/app"
	"timesquare/internal/content"
	"timesquare/internal/server"

	"github.com/PuerkitoBio/goquery"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	commands []app.Command
	result   app.Result
	err      error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, cmd app.Command) (app.Result, error) {
	d.commands = append(d.commands, cmd)
	return d.result, d.err
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func post(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Post(srv.URL+"/api/commands", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, jsoniter.Unmarshal(raw, &decoded))

	return resp, decoded
}

func TestCommandDecoding(t *testing.T) {
	d := &fakeDispatcher{}
	srv := httptest.NewServer(server.New(d, "", discard()).Routes())
	defer srv.Close()

	bodies := []string{
		`{"type":"filter","filter":"news"}`,
		`{"type":"like","postId":"p1"}`,
		`{"type":"scroll","position":{"scrollTop":10,"scrollHeight":20,"clientHeight":5}}`,
		`{"type":"visibility","elementId":"video-p1","ratio":0.75}`,
		`{"type":"tab","tab":"groups"}`,
		`{"type":"watch"}`,
		`{"type":"feedSnapshot"}`,
	}

	for _, body := range bodies {
		resp, _ := post(t, srv, body)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
	}

	require.Len(t, d.commands, len(bodies))
	require.Equal(t, app.ChangeFilter{Filter: "news"}, d.commands[0])
	require.Equal(t, app.ToggleLike{PostID: "p1"}, d.commands[1])

	scroll, ok := d.commands[2].(app.Scroll)
	require.True(t, ok)
	require.Equal(t, 10, scroll.Position.ScrollTop)
	require.Equal(t, 20, scroll.Position.ScrollHeight)

	require.Equal(t, app.VisibilityChanged{ElementID: "video-p1", Ratio: 0.75}, d.commands[3])
	require.Equal(t, app.ChangeTab{Tab: "groups"}, d.commands[4])
	require.Equal(t, app.Watch{}, d.commands[5])
	require.Equal(t, app.FeedSnapshot{}, d.commands[6])
}

func TestCommandResultCarriesPlayback(t *testing.T) {
	d := &fakeDispatcher{result: app.Result{
		Playing:  true,
		Playback: &app.Playback{ElementID: "video-p1", Action: "play", Muted: true, OverlayVisible: true},
	}}
	srv := httptest.NewServer(server.New(d, "", discard()).Routes())
	defer srv.Close()

	_, body := post(t, srv, `{"type":"visibility","elementId":"video-p1","ratio":0.9}`)

	require.Equal(t, map[string]any{
		"elementId":      "video-p1",
		"action":         "play",
		"muted":          true,
		"overlayVisible": true,
	}, body["playback"])
	require.Equal(t, false, body["pending"])
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed", `{"type":`, nil, http.StatusBadRequest},
		{"unknown", `{"type":"dance"}`, nil, http.StatusBadRequest},
		{"invalid", `{"type":"filter","filter":"x"}`, app.ErrInvalidCommand, http.StatusBadRequest},
		{"stopped", `{"type":"search"}`, app.ErrStopped, http.StatusServiceUnavailable},
		{"internal", `{"type":"initialize"}`, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(server.New(&fakeDispatcher{err: tt.err}, "", discard()).Routes())
			defer srv.Close()

			resp, body := post(t, srv, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			require.Contains(t, body, "error")
		})
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(server.New(&fakeDispatcher{}, "", discard()).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func writeContent(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "content")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	files := map[string]string{
		"config.json": `{"content":{"postsPerPage":2}}`,
		"posts.json": `{"posts":[
			{"id":"p1","type":"standard","author":"Sarah Chen","content":"one","media":{"type":"image","url":"https://cdn.example.com/1.jpg"},"stats":{"likes":1200,"comments":3},"timestamp":"2026-01-01T10:00:00Z"},
			{"id":"p2","type":"video","author":"Tech Daily","media":{"type":"video","url":"https://cdn.example.com/2.mp4","duration":"0:42"},"stats":{"likes":5,"comments":0},"timestamp":"2026-01-01T11:00:00Z"},
			{"id":"p3","type":"news","author":"World News","content":"three","media":{"type":"image","url":"https://cdn.example.com/3.jpg"},"stats":{"likes":0,"comments":0},"timestamp":"2026-01-01T12:00:00Z"}
		]}`,
		"users.json": `{"users":[{"id":"u1","name":"Sarah Chen","avatar":"https://cdn.example.com/u1.jpg"}]}`,
	}

	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	return root
}

func TestEndToEnd(t *testing.T) {
	root := writeContent(t)
	log := discard()

	session, err := app.NewDocumentSession(content.NewDirLoader(root, log), app.Settings{
		ScrollThreshold:     100,
		LoadDelay:           time.Millisecond,
		VisibilityThreshold: 0.5,
	}, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		session.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	srv := httptest.NewServer(server.New(session, root, log).Routes())
	defer srv.Close()

	resp, _ := post(t, srv, `{"type":"initialize"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	feedResp, err := http.Get(srv.URL + "/feed")
	require.NoError(t, err)
	defer feedResp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(feedResp.Body)
	require.NoError(t, err)
	require.Equal(t, 2, doc.Find("article.post-card").Length())

	resp, body := post(t, srv, `{"type":"like","postId":"p1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["liked"])
	require.Equal(t, []any{"Liked!"}, body["notices"])

	_, body = post(t, srv, `{"type":"requestMore"}`)
	require.Equal(t, true, body["loading"])

	require.Eventually(t, func() bool {
		r, err := http.Get(srv.URL + "/feed")
		if err != nil {
			return false
		}
		defer r.Body.Close()

		d, err := goquery.NewDocumentFromReader(r.Body)
		return err == nil && d.Find("article.post-card").Length() == 3
	}, time.Second, 5*time.Millisecond)

	pageResp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer pageResp.Body.Close()

	require.Equal(t, "text/html; charset=utf-8", pageResp.Header.Get("Content-Type"))

	page, err := goquery.NewDocumentFromReader(pageResp.Body)
	require.NoError(t, err)
	require.Equal(t, "Sarah", page.Find("#stories .story-name").Text())
	require.Equal(t, 1, page.Find(`[data-id="p1"] .action-btn.liked`).Length())

	static, err := http.Get(srv.URL + "/content/config.json")
	require.NoError(t, err)
	defer static.Body.Close()

	raw, err := io.ReadAll(static.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"content":{"postsPerPage":2}}`, string(raw))
}
