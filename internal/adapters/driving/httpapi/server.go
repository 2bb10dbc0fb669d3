package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/logger"
	"github.com/custodia-labs/scout-cli/internal/validate"
)

// Default server settings.
const (
	DefaultAddr     = ":8080"
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 4 << 10
)

// Options configures the HTTP server.
type Options struct {
	// Addr is the listen address (default :8080).
	Addr string

	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string

	// SearchTimeout bounds one search request. Zero leaves it to the generator.
	SearchTimeout time.Duration
}

// Server exposes the session as a small JSON API.
type Server struct {
	ports  *Ports
	opts   Options
	router chi.Router
}

// searchRequest is the POST /api/search body.
type searchRequest struct {
	Query string `json:"query" validate:"required,max=200"`
}

// NewServer creates the server and its routes.
func NewServer(ports *Ports, opts Options) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ports: %w", err)
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{ports: ports, opts: opts}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(accessLog)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.ports.Metrics != nil {
		r.Handle("/metrics", s.ports.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/state", s.handleState)
		r.Get("/sources", s.handleSources)
	})
	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondStatus(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Query = strings.TrimSpace(req.Query)

	fes, err := validate.Struct(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(fes) > 0 {
		respondStatus(w, r, http.StatusBadRequest, "validation failed", validate.Messages(fes)...)
		return
	}

	ctx := r.Context()
	if s.opts.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.SearchTimeout)
		defer cancel()
	}

	result, err := s.ports.Session.Submit(ctx, req.Query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, r, searchResponse(result))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, s.ports.Session.State())
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	sources := s.ports.Search.Sources()
	out := make([]sourceView, 0, len(sources))
	for _, src := range sources {
		out = append(out, sourceView{Name: src.Name(), URL: src.String()})
	}
	respondOK(w, r, out)
}

type sourceView struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// searchView adds the empty state message so clients need not hardcode it.
type searchView struct {
	*domain.SearchResult
	Message string `json:"message,omitempty"`
}

func searchResponse(result *domain.SearchResult) searchView {
	view := searchView{SearchResult: result}
	if result.IsEmpty() {
		view.Message = domain.EmptyStateMessage
	}
	return view
}
