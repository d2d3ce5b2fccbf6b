// Package server exposes edit sessions over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/internal/store"
)

// DefaultMaxUploadBytes bounds uploaded images when Options leaves it zero.
const DefaultMaxUploadBytes = 32 << 20

// Options configures a Server.
type Options struct {
	// Store persists sessions. Nil keeps them in memory only.
	Store *store.Store

	// Logger receives request and lifecycle logs. Nil discards them.
	Logger *slog.Logger

	// SessionOptions are applied to every session the server creates or
	// restores.
	SessionOptions []retouch.SessionOption

	MaxUploadBytes int64
}

// Server routes HTTP requests to in-memory sessions, restoring them from
// the store on first use.
type Server struct {
	store     *store.Store
	logger    *slog.Logger
	sessOpts  []retouch.SessionOption
	maxUpload int64

	mu       sync.RWMutex
	sessions map[string]*retouch.Session

	router chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	s := &Server{
		store:     opts.Store,
		logger:    opts.Logger,
		sessOpts:  opts.SessionOptions,
		maxUpload: opts.MaxUploadBytes,
		sessions:  make(map[string]*retouch.Session),
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.sessionCtx)

			r.Get("/", s.getState)
			r.Delete("/", s.deleteSession)
			r.Get("/image", s.getImage)
			r.Get("/preview", s.getPreview)
			r.Get("/export", s.export)

			r.Put("/settings", s.putSettings)
			r.Post("/prompt", s.postPrompt)

			r.Post("/clone", s.postClone)
			r.Post("/redeye", s.postRedEye)
			r.Post("/crop", s.postCrop)
			r.Post("/remove-background", s.postRemoveBackground)
			r.Post("/improve", s.postImprove)
			r.Post("/upscale", s.postUpscale)
			r.Post("/undo", s.postUndo)
			r.Post("/redo", s.postRedo)

			r.Route("/stickers", func(r chi.Router) {
				r.Post("/", s.postSticker)
				r.Post("/bake", s.postBake)
				r.Patch("/{sid}", s.patchSticker)
				r.Delete("/{sid}", s.deleteSticker)
			})
		})
	})
	return r
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"remote", r.RemoteAddr,
					"request_id", middleware.GetReqID(r.Context()),
					"elapsed", time.Since(start))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

type ctxKey struct{}

// sessionCtx resolves {id} to a session and stores it in the context.
func (s *Server) sessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.lookup(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *retouch.Session {
	return r.Context().Value(ctxKey{}).(*retouch.Session)
}

// lookup returns a live session, restoring it from the store if needed.
func (s *Server) lookup(ctx context.Context, id string) (*retouch.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}
	if s.store == nil {
		return nil, errSessionNotFound
	}

	snap, err := s.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	restored, err := retouch.RestoreSession(snap, s.sessOpts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	s.sessions[id] = restored
	s.logger.Info("server: session restored", "session", id)
	return restored, nil
}

// persist saves the session when a store is configured. Failures are
// logged; the in-memory session stays authoritative.
func (s *Server) persist(ctx context.Context, sess *retouch.Session) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, sess.Snapshot()); err != nil {
		s.logger.Error("server: persist failed", "session", sess.ID(), "error", err)
	}
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
