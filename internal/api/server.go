// Package api exposes the HTTP read interface over the index.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/webindex/webindex/internal/search"
)

// IndexChecker is the coverage read path exposed by the store.
type IndexChecker interface {
	IsIndexed(ctx context.Context, url string) (bool, error)
}

// Matcher is the companion search read path.
type Matcher interface {
	MatchRows(ctx context.Context, query string) ([]search.Match, error)
}

// Server wires HTTP handlers to the index read paths.
type Server struct {
	router  chi.Router
	index   IndexChecker
	matcher Matcher
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(index IndexChecker, matcher Matcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		index:   index,
		matcher: matcher,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(s.loggingMiddleware)
	r.Use(recoverMiddleware)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/indexed", s.getIndexed)
		r.Get("/search", s.getSearch)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type indexedResponse struct {
	URL     string `json:"url"`
	Indexed bool   `json:"indexed"`
}

func (s *Server) getIndexed(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}
	indexed, err := s.index.IsIndexed(r.Context(), url)
	if err != nil {
		s.logger.Error("indexed check failed", zap.String("url", url), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "index lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, indexedResponse{URL: url, Indexed: indexed})
}

type searchResponse struct {
	Query   string         `json:"query"`
	Matches []search.Match `json:"matches"`
}

func (s *Server) getSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	matches, err := s.matcher.MatchRows(r.Context(), query)
	if err != nil {
		s.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if matches == nil {
		matches = []search.Match{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Matches: matches})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(started)),
		)
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
