// Package server exposes preview, quote and text generation over HTTP. It
// can also watch post directories and push regenerated excerpts of changed
// posts to websocket clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aellingwood/excerpt/internal/cache"
	"github.com/aellingwood/excerpt/internal/config"
	"github.com/aellingwood/excerpt/internal/post"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server is the excerpt HTTP API.
type Server struct {
	cfg     *config.Config
	cache   cache.Cache
	log     zerolog.Logger
	hub     *Hub
	store   *store
	metrics *metrics
	reg     *prometheus.Registry
	watcher *Watcher
	router  chi.Router
	server  *http.Server
}

// New creates a Server. A nil cache disables caching.
func New(cfg *config.Config, c cache.Cache, logger zerolog.Logger) *Server {
	if c == nil {
		c = cache.Nop{}
	}
	s := &Server{
		cfg:   cfg,
		cache: c,
		log:   logger.With().Str("component", "server").Logger(),
		hub:   NewHub(logger),
		store: newStore(),
		reg:   prometheus.NewRegistry(),
	}
	s.metrics = newMetrics(s.reg, s.hub)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	r.Get("/ws", s.hub.HandleWS)
	r.Get("/sitemap.xml", s.handleSitemap)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/preview", s.handlePreview)
		r.Post("/quote", s.handleQuote)
		r.Post("/text", s.handleText)
		r.Post("/count", s.handleCount)
		r.Get("/posts", s.handlePosts)
		r.Get("/posts/{slug}/meta", s.handlePostMeta)
		r.Get("/search", s.handleSearch)
		r.Get("/feed", s.handleFeed)
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start loads the watched directories, starts the websocket hub and the
// watcher, and serves HTTP. It blocks until ctx is cancelled or the server
// is stopped.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()

	for _, dir := range s.cfg.Server.WatchDirs {
		docs, err := post.LoadDir(dir)
		if err != nil {
			s.log.Warn().Err(err).Str("dir", dir).Msg("some posts could not be loaded")
		}
		for _, d := range docs {
			s.store.put(d)
		}
		s.log.Info().Str("dir", dir).Int("posts", len(docs)).Msg("loaded posts")
	}

	if len(s.cfg.Server.WatchDirs) > 0 {
		s.watcher = NewWatcher(s.cfg.Server.WatchDirs, s.cfg.Server.Debounce, s.log, s.reload)
		go func() {
			if err := s.watcher.Start(); err != nil {
				s.log.Error().Err(err).Msg("watcher stopped")
			}
		}()
	}

	addr := s.cfg.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(shutdownCtx)
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("serving")

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server, watcher, and hub.
func (s *Server) Stop(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.hub.Stop()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
