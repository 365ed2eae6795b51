// Package server exposes viewer sessions over HTTP.
//
// Each session owns one [engine.Engine]. Interaction endpoints address nodes
// by slash-separated label path and return the resulting scene, so a thin
// browser client can draw frames without knowing the layout rules.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/biotree/pkg/engine"
	"github.com/matzehuels/biotree/pkg/render"
	"github.com/matzehuels/biotree/pkg/source"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
	maxBodySize     = 16 << 20
)

// Config controls a [Server].
type Config struct {
	Engine engine.Config
	Theme  render.Theme

	// Source is the document location sessions load by default.
	Source string

	// AllowSource lets clients name another location when creating a
	// session. Locations are resolved on the server, local files included.
	AllowSource bool

	SourceOptions []source.Option
	SessionTTL    time.Duration
}

// Server is the HTTP API.
type Server struct {
	cfg      Config
	logger   *log.Logger
	sessions *Store
	router   chi.Router
}

// New builds a server and its routes. A nil logger uses log.Default().
func New(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: NewStore(cfg.SessionTTL),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the session store.
func (s *Server) Sessions() *Store { return s.sessions }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDelete)
			r.Get("/scene", s.handleScene)
			r.Get("/svg", s.handleSVG)
			r.Get("/png", s.handlePNG)
			r.Get("/dot", s.handleDOT)
			r.Get("/search", s.handleSearch)

			r.Post("/toggle", s.handleToggle)
			r.Post("/expand", s.handleExpand)
			r.Post("/collapse", s.handleCollapse)
			r.Post("/focus", s.handleFocus)
			r.Post("/click", s.handleClick)
			r.Post("/resize", s.handleResize)
			r.Post("/zoom", s.handleZoom)

			r.Post("/drag/start", s.handleDragStart)
			r.Post("/drag/move", s.handleDragMove)
			r.Post("/drag/end", s.handleDragEnd)
		})
	})
	return r
}

// logRequests logs each request at debug level with its status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// Expired sessions are swept in the background.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving", "addr", ln.Addr().String(), "source", s.cfg.Source)
		if err := srv.Serve(ln); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "sessions", s.sessions.Len())
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		tick := time.NewTicker(sweepInterval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-tick.C:
				if n := s.sessions.Sweep(); n > 0 {
					s.logger.Debug("swept idle sessions", "count", n)
				}
			}
		}
	})
	return g.Wait()
}
