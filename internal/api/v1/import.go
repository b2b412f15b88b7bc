package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/events"
	"github.com/vmunix/seasonarr/internal/importstream"
	"github.com/vmunix/seasonarr/internal/metrics"
)

// RunIDHeader carries the import run id on stream responses.
const RunIDHeader = "X-Import-Run"

func requireURL(w http.ResponseWriter, url string) bool {
	if strings.TrimSpace(url) == "" {
		writeError(w, http.StatusBadRequest, "URL_REQUIRED", "url is required")
		return false
	}
	return true
}

func (s *Server) extractionFailed(w http.ResponseWriter, op string, err error) {
	s.metrics.ExtractionErrors.WithLabelValues(op).Inc()
	s.log.Warn("extraction failed", "operation", op, "error", err)
	writeError(w, http.StatusBadGateway, "EXTRACTION_FAILED", err.Error())
}

func (s *Server) importPreview(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if !decodeBody(w, r, &req) || !requireURL(w, req.URL) {
		return
	}
	videos, err := s.deps.Extractor.Playlist(r.Context(), req.URL)
	if err != nil {
		s.extractionFailed(w, "playlist", err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{Videos: videos})
}

func (s *Server) importSingle(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if !decodeBody(w, r, &req) || !requireURL(w, req.URL) {
		return
	}

	runID := uuid.NewString()
	s.publish(r.Context(), &events.ImportStarted{
		BaseEvent: events.NewBaseEvent(events.EventImportStarted, events.EntityImport, runID),
		Kind:      events.ImportVideo,
		URL:       req.URL,
	})

	start := time.Now()
	video, err := s.deps.Extractor.Video(r.Context(), req.URL)
	if err != nil {
		s.publish(r.Context(), importFailed(runID, req.URL, err, 0))
		s.extractionFailed(w, "video", err)
		return
	}
	s.publish(r.Context(), importCompleted(runID, req.URL, 1, time.Since(start)))
	writeJSON(w, http.StatusOK, video)
}

func (s *Server) sourceInfo(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if !decodeBody(w, r, &req) || !requireURL(w, req.URL) {
		return
	}
	src, err := s.deps.Extractor.Channel(r.Context(), req.URL)
	if err != nil {
		s.extractionFailed(w, "channel", err)
		return
	}
	writeJSON(w, http.StatusOK, SourceInfoResponse(src))
}

// importStream answers with an NDJSON frame stream: count, one video per
// item, then done. Failures before the first frame use the JSON error
// envelope; later failures end the stream with an error frame.
func (s *Server) importStream(w http.ResponseWriter, r *http.Request) {
	var req StreamRequest
	if !decodeBody(w, r, &req) || !requireURL(w, req.URL) {
		return
	}

	ctx := r.Context()
	start := time.Now()
	runID := uuid.NewString()
	log := s.log.With("run", runID, "url", req.URL)

	s.publish(ctx, &events.ImportStarted{
		BaseEvent:         events.NewBaseEvent(events.EventImportStarted, events.EntityImport, runID),
		Kind:              events.ImportPlaylist,
		URL:               req.URL,
		FetchDescriptions: req.FetchDescriptions,
	})

	listing, err := s.deps.Extractor.Playlist(ctx, req.URL)
	if err != nil {
		s.metrics.ImportStreams.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.publish(ctx, importFailed(runID, req.URL, err, 0))
		s.extractionFailed(w, "playlist", err)
		return
	}

	w.Header().Set("Content-Type", importstream.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set(RunIDHeader, runID)
	w.WriteHeader(http.StatusOK)

	enc := importstream.NewEncoder(w)
	defer func() {
		for _, t := range []importstream.FrameType{
			importstream.FrameCount, importstream.FrameVideo,
			importstream.FrameDone, importstream.FrameError,
		} {
			if n := enc.Written(t); n > 0 {
				s.metrics.FramesWritten.WithLabelValues(string(t)).Add(float64(n))
			}
		}
		s.metrics.ImportStreamDuration.Observe(time.Since(start).Seconds())
	}()

	videos, err := s.streamFrames(ctx, enc, req, listing)
	switch {
	case err == nil:
		s.metrics.ImportStreams.WithLabelValues(metrics.OutcomeCompleted).Inc()
		s.publish(ctx, importCompleted(runID, req.URL, len(videos), time.Since(start)))
		log.Info("import stream completed", "videos", len(videos), "duration", time.Since(start))
	case errors.Is(err, errClientGone) || ctx.Err() != nil:
		s.metrics.ImportStreams.WithLabelValues(metrics.OutcomeAborted).Inc()
		s.publish(context.WithoutCancel(ctx), importFailed(runID, req.URL, err, len(videos)))
		log.Info("import stream aborted by client", "sent", len(videos))
	default:
		s.metrics.ImportStreams.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.metrics.ExtractionErrors.WithLabelValues("stream").Inc()
		s.publish(ctx, importFailed(runID, req.URL, err, len(videos)))
		log.Warn("import stream failed", "sent", len(videos), "error", err)
		if werr := enc.WriteError(err.Error()); werr != nil {
			log.Debug("write error frame", "error", werr)
		}
	}
}

var errClientGone = errors.New("client disconnected")

// streamFrames writes count and video frames followed by done. It returns
// the videos sent so far.
func (s *Server) streamFrames(ctx context.Context, enc *importstream.Encoder, req StreamRequest, listing []catalog.ImportedVideo) ([]catalog.ImportedVideo, error) {
	if err := enc.WriteCount(len(listing)); err != nil {
		return nil, errors.Join(errClientGone, err)
	}

	if !req.FetchDescriptions {
		for i, v := range listing {
			if err := enc.WriteVideo(v); err != nil {
				return listing[:i], errors.Join(errClientGone, err)
			}
		}
		if err := enc.WriteDone(listing); err != nil {
			return listing, errors.Join(errClientGone, err)
		}
		return listing, nil
	}

	collected := make([]catalog.ImportedVideo, 0, len(listing))
	err := s.deps.Extractor.StreamPlaylist(ctx, req.URL, func(v catalog.ImportedVideo) error {
		if err := enc.WriteVideo(v); err != nil {
			return errors.Join(errClientGone, err)
		}
		collected = append(collected, v)
		return nil
	})
	if err != nil {
		return collected, err
	}
	if err := enc.WriteDone(collected); err != nil {
		return collected, errors.Join(errClientGone, err)
	}
	return collected, nil
}

func importFailed(runID, url string, err error, received int) *events.ImportFailed {
	return &events.ImportFailed{
		BaseEvent: events.NewBaseEvent(events.EventImportFailed, events.EntityImport, runID),
		URL:       url,
		Reason:    err.Error(),
		Received:  received,
	}
}

func importCompleted(runID, url string, videos int, d time.Duration) *events.ImportCompleted {
	return &events.ImportCompleted{
		BaseEvent:  events.NewBaseEvent(events.EventImportCompleted, events.EntityImport, runID),
		URL:        url,
		Videos:     videos,
		DurationMS: d.Milliseconds(),
	}
}

