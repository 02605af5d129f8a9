// Package server exposes a loaded topology and its view state over HTTP.
//
// One view engine backs the server. Every request takes the engine lock, so
// commands from concurrent clients are applied in arrival order and all
// clients share one view.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/layout"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/pipeline"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/source"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// Config holds server configuration.
type Config struct {
	Addr            string
	AllowAllOrigins bool
	// Watch reloads Location when the file changes.
	Watch bool
	// Location is the document served at startup; empty serves the bundled
	// reference topology.
	Location      string
	Engine        string
	LayoutTimeout time.Duration
	Validate      bool
}

// Server serves one topology.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger

	mu  sync.Mutex
	eng *view.Engine

	router     chi.Router
	httpServer *http.Server
}

// New creates a server. Call Load before serving.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Engine == "" {
		cfg.Engine = layout.EngineGraphviz
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		logger: logger,
		eng:    view.New(),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.registerRoutes(r)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Load reads the configured location, lays it out and swaps it in. The
// previous topology stays in place on error.
func (s *Server) Load(ctx context.Context) error {
	eng, err := s.runner.Load(ctx, s.options(s.cfg.Location))
	if err != nil {
		return err
	}
	s.layoutAndSwap(ctx, eng)
	return nil
}

// LoadDocument installs a document read from a request body.
func (s *Server) LoadDocument(ctx context.Context, data []byte) error {
	doc, err := source.Decode("", data)
	if err != nil {
		return err
	}
	eng := s.newEngine()
	if err := eng.SetData(doc.Tree); err != nil {
		return err
	}
	s.layoutAndSwap(ctx, eng)
	return nil
}

// Reset installs the bundled reference topology.
func (s *Server) Reset(ctx context.Context) error {
	eng, err := s.runner.Load(ctx, s.options(""))
	if err != nil {
		return err
	}
	s.layoutAndSwap(ctx, eng)
	return nil
}

func (s *Server) newEngine() *view.Engine {
	opts := []view.Option{view.WithLogger(s.logger)}
	if s.cfg.Validate && s.runner.Validator != nil {
		opts = append(opts, view.WithValidator(s.runner.Validator))
	}
	return view.New(opts...)
}

func (s *Server) options(location string) pipeline.Options {
	return pipeline.Options{
		Location:      location,
		Validate:      s.cfg.Validate,
		Engine:        s.cfg.Engine,
		LayoutTimeout: s.cfg.LayoutTimeout,
	}
}

// layoutAndSwap lays out a fresh engine before any request can see it.
func (s *Server) layoutAndSwap(ctx context.Context, eng *view.Engine) {
	_, _, warn := s.runner.Layout(ctx, eng, s.options(""))
	if warn != nil {
		s.logger.Warn("layout fallback", "err", warn)
	}
	eng.Recompute()

	s.mu.Lock()
	s.eng = eng
	s.mu.Unlock()

	topo := eng.Topology()
	s.logger.Info("topology loaded", "name", topo.Meta.Name, "nodes", len(topo.Nodes), "edges", len(topo.Edges))
}

// withEngine runs fn with the engine lock held.
func (s *Server) withEngine(fn func(*view.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if s.cfg.Watch && s.cfg.Location != "" && !source.IsRemote(s.cfg.Location) && s.cfg.Location != source.Stdin {
		w, err := s.watch(ctx)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("topoviz server listening", "addr", s.cfg.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"id", middleware.GetReqID(r.Context()))
		})
	}
}
