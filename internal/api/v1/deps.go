package v1

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/events"
	"github.com/vmunix/seasonarr/internal/metrics"
	"github.com/vmunix/seasonarr/internal/ytdlp"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Repository loads and saves the whole catalog document.
type Repository interface {
	Load() (*catalog.Document, error)
	Save(doc *catalog.Document) error
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required
	Catalog Repository

	// Optional (nil if not configured)
	Extractor ytdlp.Extractor
	Bus       *events.Bus
	EventLog  *events.EventLog
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry // served at /metrics

	// Reported by GET /status
	Version     string
	ExtractorID string // resolved yt-dlp path
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.New("catalog repository is required")
	}
	return nil
}
