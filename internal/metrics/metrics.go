// Package metrics exposes daemon counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seasonarr"

// Import stream outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeAborted   = "aborted" // client went away
)

// Metrics holds the daemon's instruments.
type Metrics struct {
	ImportStreams        *prometheus.CounterVec
	FramesWritten        *prometheus.CounterVec
	ImportStreamDuration prometheus.Histogram
	ExtractionErrors     *prometheus.CounterVec
	TitlesCleaned        prometheus.Counter
	CollectionSaves      *prometheus.CounterVec
	CacheLookups         *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ImportStreams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "streams_total",
			Help:      "Streamed playlist imports by outcome.",
		}, []string{"outcome"}),
		FramesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "frames_written_total",
			Help:      "Import stream frames written by frame type.",
		}, []string{"type"}),
		ImportStreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "stream_duration_seconds",
			Help:      "Time from request to final frame of an import stream.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}),
		ExtractionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ytdlp",
			Name:      "errors_total",
			Help:      "Failed yt-dlp extractions by operation.",
		}, []string{"operation"}),
		TitlesCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "titles_cleaned_total",
			Help:      "Titles passed through the cleaner.",
		}),
		CollectionSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "saves_total",
			Help:      "Catalog writes by scope (collection or series).",
		}, []string{"scope"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Extraction cache lookups by result (hit or miss).",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.ImportStreams,
		m.FramesWritten,
		m.ImportStreamDuration,
		m.ExtractionErrors,
		m.TitlesCleaned,
		m.CollectionSaves,
		m.CacheLookups,
	)
	return m
}

// NewRegistry returns a registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves reg in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
