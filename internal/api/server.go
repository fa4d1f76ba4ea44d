// File path: internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nicodishanthj/bellybutton/internal/common"
	"github.com/nicodishanthj/bellybutton/internal/samples"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	router   chi.Router
	samples  *samples.Service
	pinger   Pinger
	home     *template.Template
	static   string
	registry *prometheus.Registry
	metrics  *httpMetrics
}

// Config locates the front-end assets served next to the JSON routes.
type Config struct {
	TemplateDir string
	StaticDir   string
}

// DefaultConfig returns the standard configuration used when no overrides are
// provided.
func DefaultConfig() Config {
	return Config{
		TemplateDir: filepath.Join("web", "templates"),
		StaticDir:   filepath.Join("web", "static"),
	}
}

// Merge overlays non-empty fields from the override onto the base
// configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if trimmed := strings.TrimSpace(override.TemplateDir); trimmed != "" {
		result.TemplateDir = trimmed
	}
	if trimmed := strings.TrimSpace(override.StaticDir); trimmed != "" {
		result.StaticDir = trimmed
	}
	return result
}

func NewServer(svc *samples.Service, pinger Pinger, cfg *Config) (*Server, error) {
	logger := common.Logger()
	if svc == nil {
		return nil, fmt.Errorf("sample service required")
	}
	configuration := DefaultConfig()
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	registry := prometheus.NewRegistry()
	metrics, err := newHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	srv := &Server{
		router:   chi.NewRouter(),
		samples:  svc,
		pinger:   pinger,
		static:   configuration.StaticDir,
		registry: registry,
		metrics:  metrics,
	}
	indexPath := filepath.Join(configuration.TemplateDir, "index.html")
	home, err := template.ParseFiles(indexPath)
	if err != nil {
		logger.Warn("api: homepage template missing", "path", indexPath, "error", err)
	} else {
		srv.home = home
		logger.Info("api: homepage template loaded", "path", indexPath)
	}
	srv.routes()
	logger.Info("api: server ready", "static", configuration.StaticDir)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.metrics.middleware)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metricsHandler())

	if _, err := os.Stat(s.static); err != nil {
		logger.Warn("api: static assets missing", "path", s.static, "error", err)
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(s.static)))
	s.router.Get("/static/*", fileServer.ServeHTTP)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/names", s.handleNames)
	s.router.Get("/metadata/{sample}", s.handleMetadata)
	s.router.Get("/samples/{sample}", s.handleSamples)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, fmt.Errorf("database unreachable: %w", err))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError logs err and writes a JSON error body. Server-side failures are
// reported with the generic status text so driver messages stay in the logs.
func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		message = strings.ToLower(http.StatusText(status))
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": message})
}
