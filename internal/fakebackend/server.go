// Package fakebackend serves collections over the same query protocol as
// the CMDB REST backend, for tests and local development.
package fakebackend

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/friendsofgo/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/httpsource"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Server routes GET /{collection} to registered fetchers.
type Server struct {
	mu      sync.RWMutex
	sources map[string]pagedview.Fetcher
	logger  *zap.Logger
}

// New creates a server without collections.
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		sources: make(map[string]pagedview.Fetcher),
		logger:  logger,
	}
}

// Register serves f under name, replacing any previous fetcher.
func (s *Server) Register(name string, f pagedview.Fetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[name] = f
}

// Collections returns the registered names, sorted.
func (s *Server) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.listCollections)
	r.Get("/{collection}", s.fetchPage)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "no route for "+req.URL.Path)
	})
	return r
}

func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Collections())
}

func (s *Server) fetchPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	s.mu.RLock()
	source, ok := s.sources[name]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection "+name)
		return
	}

	req, err := httpsource.DecodeRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := source.FetchPage(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		var sizeErr *pagedview.PageSizeError
		if errors.As(err, &sizeErr) {
			status = http.StatusBadRequest
		}
		s.logger.Warn("fetch page failed", zap.String("collection", name), zap.Error(err))
		writeError(w, status, err.Error())
		return
	}

	s.logger.Debug("served page",
		zap.String("collection", name),
		zap.Int("page", req.Page),
		zap.Int("rows", len(page.Results)),
		zap.Int("total", page.Total),
	)
	writeJSON(w, http.StatusOK, page)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}
