// Package v1 implements the REST API the editor talks to.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/events"
	"github.com/vmunix/seasonarr/internal/metrics"
)

// maxBodyBytes bounds request bodies. A whole catalog fits well below it.
const maxBodyBytes = 32 << 20

// Server is the v1 API server.
type Server struct {
	deps    ServerDeps
	metrics *metrics.Metrics
	log     *slog.Logger

	// mu serializes read-modify-write cycles on the catalog file.
	mu sync.Mutex
}

// NewWithDeps creates a new v1 API server with explicit dependencies.
func NewWithDeps(deps ServerDeps, logger *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, errors.Join(ErrMissingDependency, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	return &Server{
		deps:    deps,
		metrics: m,
		log:     logger.With("component", "api"),
	}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Catalog
	mux.HandleFunc("GET /api/v1/collection", s.getCollection)
	mux.HandleFunc("PUT /api/v1/collection", s.putCollection)
	mux.HandleFunc("GET /api/v1/series/{id}", s.getSeries)
	mux.HandleFunc("PUT /api/v1/series/{id}", s.putSeries)
	mux.HandleFunc("POST /api/v1/clean-title", s.cleanTitle)

	// Import
	mux.HandleFunc("POST /api/v1/import/preview", s.requireExtractor(s.importPreview))
	mux.HandleFunc("POST /api/v1/import/stream", s.requireExtractor(s.importStream))
	mux.HandleFunc("POST /api/v1/import/single-item", s.requireExtractor(s.importSingle))
	mux.HandleFunc("POST /api/v1/import/source-info", s.requireExtractor(s.sourceInfo))

	// System
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	if s.deps.Registry != nil {
		mux.Handle("GET /metrics", metrics.Handler(s.deps.Registry))
	}
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeBody parses the JSON request body into v. On failure it writes a 400
// and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body: "+err.Error())
		return false
	}
	return true
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// publish is a no-op when the bus is not configured.
func (s *Server) publish(ctx context.Context, e events.Event) {
	if s.deps.Bus == nil {
		return
	}
	if err := s.deps.Bus.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:   "ok",
		Version:  s.deps.Version,
		EventLog: s.deps.EventLog != nil,
	}
	resp.Extractor.Available = s.deps.Extractor != nil
	resp.Extractor.Binary = s.deps.ExtractorID
	writeJSON(w, http.StatusOK, resp)
}

func countTree(doc *catalog.Document) (series, seasons, episodes int) {
	series = len(doc.Series)
	for _, s := range doc.Series {
		seasons += len(s.Seasons)
		for _, season := range s.Seasons {
			episodes += len(season.Episodes)
		}
	}
	return series, seasons, episodes
}
