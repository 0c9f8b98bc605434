package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"timesquare/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	maxCommandBytes   = 64 << 10
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	compressLevel     = 5
)

type Dispatcher interface {
	Dispatch(ctx context.Context, cmd app.Command) (app.Result, error)
}

type Server struct {
	session     Dispatcher
	contentRoot string
	log         *slog.Logger
}

// New serves session over HTTP. A non-empty contentRoot additionally exposes
// the content documents under /content/.
func New(session Dispatcher, contentRoot string, log *slog.Logger) *Server {
	return &Server{
		session:     session,
		contentRoot: contentRoot,
		log:         log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Compress(compressLevel, "text/html", "application/json"))

	r.Get("/", s.handlePage)
	r.Get("/feed", s.handleFeed)
	r.Post("/api/commands", s.handleCommand)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.contentRoot != "" {
		r.Handle("/content/*", http.FileServer(http.Dir(s.contentRoot)))
	}

	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.InfoContext(ctx, "Server is listening", "addr", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	s.log.InfoContext(ctx, "Server is stopped")

	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.respondWithSnapshot(w, r, app.Snapshot{})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.respondWithSnapshot(w, r, app.FeedSnapshot{})
}

func (s *Server) respondWithSnapshot(w http.ResponseWriter, r *http.Request, cmd app.Command) {
	res, err := s.session.Dispatch(r.Context(), cmd)
	if err != nil {
		s.respondWithDispatchError(w, r, cmd, err)
		return
	}

	respondWithHTML(w, res.HTML)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBytes))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var req commandRequest
	if err = json.Unmarshal(body, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "malformed command")
		return
	}

	cmd, err := req.command()
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.session.Dispatch(r.Context(), cmd)
	if err != nil {
		s.respondWithDispatchError(w, r, cmd, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, res)
}

func (s *Server) respondWithDispatchError(w http.ResponseWriter, r *http.Request, cmd app.Command, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidCommand):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrStopped):
		RespondWithError(w, http.StatusServiceUnavailable, "session is stopped")
	default:
		s.log.ErrorContext(r.Context(), "Failed to handle command",
			"error", err,
			"command", cmd.Name(),
			"requestID", middleware.GetReqID(r.Context()))

		RespondWithError(w, http.StatusInternalServerError, "failed to handle command")
	}
}
