// Package server exposes the lineage graph over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/leaplineage/internal/loader"
	"github.com/leapstack-labs/leaplineage/pkg/lineage"
	"golang.org/x/sync/errgroup"
)

// Server serves lineage queries over HTTP.
type Server struct {
	mu       sync.RWMutex
	tracker  *lineage.Tracker
	port     int
	logger   *slog.Logger
	manifest string
	watch    bool
}

// Config holds configuration for the HTTP server.
type Config struct {
	Tracker *lineage.Tracker
	Port    int
	Logger  *slog.Logger

	// Manifest, when set together with Watch, is reloaded into a fresh
	// tracker whenever the file changes on disk.
	Manifest string
	Watch    bool
}

// New creates a server instance.
func New(cfg Config) *Server {
	tracker := cfg.Tracker
	if tracker == nil {
		tracker = lineage.NewTracker()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		tracker:  tracker,
		port:     cfg.Port,
		logger:   logger,
		manifest: cfg.Manifest,
		watch:    cfg.Watch,
	}
}

// Tracker returns the currently served tracker.
func (s *Server) Tracker() *lineage.Tracker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker
}

// swapTracker atomically replaces the served tracker.
func (s *Server) swapTracker(t *lineage.Tracker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker = t
}

// Serve starts the HTTP server and blocks until the context is cancelled
// or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting lineage API server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if s.watch && s.manifest != "" {
		eg.Go(func() error {
			return s.watchManifest(egctx)
		})
	}

	err := eg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Routes builds the chi router. Exposed separately so tests can exercise
// handlers without a listener.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.logRequests,
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/export", s.handleExport)
		r.Get("/path", s.handlePath)

		r.Route("/nodes/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetNode)
			r.Get("/upstream", s.handleUpstream)
			r.Get("/downstream", s.handleDownstream)
			r.Get("/origin", s.handleOrigin)
			r.Get("/impact", s.handleImpact)
		})

		r.Post("/datasets", s.handleRegisterDataset)
		r.Post("/transformations", s.handleRegisterTransformation)
	})

	return r
}

// logRequests is a minimal slog request logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// watchManifest reloads the manifest into a fresh tracker on file change.
func (s *Server) watchManifest(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.manifest); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.manifest, err)
	}
	s.logger.Info("watching manifest", "path", s.manifest)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			tracker, err := loader.LoadTracker(s.manifest)
			if err != nil {
				// Editors often write partial files; keep serving the
				// previous graph and try again on the next event.
				s.logger.Warn("manifest reload failed", "error", err)
				continue
			}
			s.swapTracker(tracker)
			s.logger.Info("manifest reloaded",
				"nodes", tracker.Graph().NodeCount(),
				"edges", tracker.Graph().EdgeCount(),
			)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "error", err)
		}
	}
}
