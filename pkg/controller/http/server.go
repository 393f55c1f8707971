package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/resilio/frontend"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/usecase"
	"github.com/secmon-lab/resilio/pkg/utils/apperr"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// Config holds optional dependencies of the HTTP server
type Config struct {
	ingest   *usecase.Ingest
	static   http.FileSystem
	location *time.Location
}

// Option is a functional option for configuring Server
type Option func(*Config)

// WithIngest enables the ingest endpoints of the JSON API
func WithIngest(ingest *usecase.Ingest) Option {
	return func(c *Config) {
		c.ingest = ingest
	}
}

// WithStaticFS replaces the embedded static assets
func WithStaticFS(fs http.FileSystem) Option {
	return func(c *Config) {
		c.static = fs
	}
}

// WithLocation sets the time zone used to format dates on the page
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		c.location = loc
	}
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, loader *usecase.Loader, sessions *usecase.SessionStore, opts ...Option) (*Server, error) {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}

	if config.static == nil {
		fs, err := frontend.GetHTTPFS()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load embedded static assets")
		}
		config.static = fs
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	api := &apiHandler{loader: loader, ingest: config.ingest}
	router.Route("/api/projects/{projectID}/workflows", func(r chi.Router) {
		r.Use(CORS)
		if api.ingest != nil {
			r.Post("/", api.registerWorkflow)
			r.Post("/{workflowID}/runs", api.recordRun)
		}
		r.Get("/{workflowID}", api.getWorkflow)
		r.Get("/{workflowID}/runs", api.getRunHistory)
		r.Get("/{workflowID}/heatmap", api.getHeatmap)
	})

	page := &pageHandler{sessions: sessions, location: config.location}
	router.Get("/workflows/{workflowID}", page.open)
	router.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/updates", page.updates)
		r.Post("/bins", page.clickBin)
		r.Post("/deselect", page.deselect)
		r.Post("/year", page.changeYear)
		r.Post("/table/open", page.openTable)
		r.Post("/table/close", page.closeTable)
		r.Post("/acknowledge", page.acknowledge)
	})

	router.Handle("/static/*", http.StripPrefix("/static", NewStaticHandler(config.static)))

	ctxlog.From(ctx).Debug("HTTP routes configured",
		"ingest", config.ingest != nil)

	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}

	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "resilio",
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// errorStatus maps an error to the HTTP status returned to the client
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrWorkflowNotFound), errors.Is(err, model.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrStaleHeatmap):
		return http.StatusConflict
	case goerr.HasTag(err, model.ErrTagValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status != http.StatusNotFound && status != http.StatusConflict {
		apperr.Handle(r.Context(), err)
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	writeJSON(w, r, status, map[string]string{
		"error": message,
	})
}
