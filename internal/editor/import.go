package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/client"
	"github.com/vmunix/seasonarr/internal/importstream"
	"github.com/vmunix/seasonarr/internal/merge"
	"github.com/vmunix/seasonarr/internal/progress"
)

// PreviewLimit is how many titles a preview lists.
const PreviewLimit = 10

// PreviewResult is a bounded listing of a playlist.
type PreviewResult struct {
	Total     int      `json:"total"`
	Titles    []string `json:"titles"` // at most PreviewLimit
	Remaining int      `json:"remaining"`
}

// Preview lists the first titles of a playlist without importing it.
func (e *Editor) Preview(ctx context.Context, url string) (PreviewResult, error) {
	if strings.TrimSpace(url) == "" {
		e.notify.Notify(LevelError, "Enter a playlist URL")
		return PreviewResult{}, ErrURLRequired
	}
	videos, err := e.backend.Preview(ctx, url)
	if err != nil {
		e.notify.Notify(LevelError, "Error: "+err.Error())
		return PreviewResult{}, fmt.Errorf("preview: %w", err)
	}

	res := PreviewResult{Total: len(videos)}
	for i, v := range videos {
		if i == PreviewLimit {
			break
		}
		res.Titles = append(res.Titles, v.Title)
	}
	res.Remaining = len(videos) - len(res.Titles)
	return res, nil
}

// ImportRequest describes a playlist import into one season.
type ImportRequest struct {
	URL               string
	SeriesID          string
	SeasonNumber      int // 0 means SuggestSeasonNumber
	FetchDescriptions bool
}

// ImportResult reports a finished import.
type ImportResult struct {
	merge.Outcome
	SeasonNumber int
	Malformed    int // frames skipped by the decoder
}

// Import streams a playlist from the daemon, reports progress and merges the
// final list into the target series. Only one import runs at a time. Any
// failure before the merge leaves the document unchanged.
func (e *Editor) Import(ctx context.Context, req ImportRequest, onProgress func(progress.Snapshot), d merge.Decider) (ImportResult, error) {
	if strings.TrimSpace(req.URL) == "" || req.SeriesID == "" {
		e.notify.Notify(LevelError, "Fill in all fields")
		if req.SeriesID == "" {
			return ImportResult{}, fmt.Errorf("import: series is required: %w", merge.ErrTargetNotFound)
		}
		return ImportResult{}, ErrURLRequired
	}
	if !e.importing.CompareAndSwap(false, true) {
		return ImportResult{}, ErrImportInProgress
	}
	defer e.importing.Store(false)

	if _, ok := e.store.Series(req.SeriesID); !ok {
		e.notify.Notify(LevelError, "Target series not found")
		return ImportResult{}, fmt.Errorf("import into %q: %w", req.SeriesID, merge.ErrTargetNotFound)
	}
	number := req.SeasonNumber
	if number <= 0 {
		number = e.SuggestSeasonNumber(req.SeriesID)
	}
	if onProgress == nil {
		onProgress = func(progress.Snapshot) {}
	}
	log := e.log.With("series", req.SeriesID, "season", number, "url", req.URL)

	videos, malformed, err := e.receive(ctx, req, onProgress)
	if err != nil {
		log.Warn("import failed", "error", err)
		e.notify.Notify(LevelError, "Import failed: "+err.Error())
		return ImportResult{SeasonNumber: number, Malformed: malformed}, err
	}

	outcome, err := e.resolver.Merge(ctx, req.SeriesID, number, videos, d)
	res := ImportResult{Outcome: outcome, SeasonNumber: number, Malformed: malformed}
	if err != nil {
		e.notify.Notify(LevelError, "Import failed: "+err.Error())
		return res, err
	}
	if !outcome.Committed() {
		e.notify.Notify(LevelInfo, fmt.Sprintf("Import discarded: season %d kept", number))
		return res, nil
	}

	if _, err := e.Select(ctx, req.SeriesID); err != nil {
		log.Warn("select imported series", "error", err)
	}
	msg := fmt.Sprintf("Season imported: %d episodes", outcome.EpisodesAdded)
	if req.FetchDescriptions {
		msg += " with synopses"
	}
	e.notify.Notify(LevelSuccess, msg)
	log.Info("import merged", "status", outcome.Status, "episodes", outcome.EpisodesAdded)
	return res, nil
}

// receive reads the stream until its done frame and returns the final list.
func (e *Editor) receive(ctx context.Context, req ImportRequest, onProgress func(progress.Snapshot)) ([]catalog.ImportedVideo, int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var rep progress.Reporter
	onProgress(rep.Reset())

	// The idle limit also covers connecting and waiting for the response
	// headers; once the body is open the decoder's own timer takes over.
	var (
		waiting *time.Timer
		noReply atomic.Bool
	)
	if e.idle > 0 {
		waiting = time.AfterFunc(e.idle, func() {
			noReply.Store(true)
			cancel()
		})
	}
	body, err := e.backend.Stream(ctx, client.StreamRequest{
		URL:               req.URL,
		FetchDescriptions: req.FetchDescriptions,
	})
	if waiting != nil && !waiting.Stop() {
		noReply.Store(true)
	}
	if noReply.Load() {
		if body != nil {
			_ = body.Close()
		}
		return nil, 0, fmt.Errorf("start import stream: %w: no response for %s", importstream.ErrStalled, e.idle)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("start import stream: %w", err)
	}
	defer func() { _ = body.Close() }()

	malformed := 0
	opts := []importstream.Option{
		importstream.WithLogger(e.log),
		importstream.WithMalformedHandler(func([]byte, error) { malformed++ }),
	}
	if e.idle > 0 {
		opts = append(opts, importstream.WithIdleTimeout(e.idle, cancel))
	}
	dec := importstream.NewDecoder(body, opts...)
	defer dec.Close()

	for {
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil, malformed, importstream.ErrTruncated
		}
		if err != nil {
			return nil, malformed, err
		}
		onProgress(rep.Observe(ev))
		if done, ok := ev.(importstream.DoneEvent); ok {
			return done.Videos, malformed, nil
		}
	}
}

// ImportVideo extracts one video and appends it to season si of the current series.
func (e *Editor) ImportVideo(ctx context.Context, url string, si int) (catalog.Episode, error) {
	if strings.TrimSpace(url) == "" {
		e.notify.Notify(LevelError, "Enter a video URL")
		return catalog.Episode{}, ErrURLRequired
	}
	if _, ok := e.Current(); !ok {
		return catalog.Episode{}, ErrNoSelection
	}

	video, err := e.backend.Video(ctx, url)
	if err != nil {
		e.notify.Notify(LevelError, "Error: "+err.Error())
		return catalog.Episode{}, fmt.Errorf("extract video: %w", err)
	}

	var added catalog.Episode
	_, err = e.updateCurrent(func(s *catalog.Series) error {
		season, err := s.Season(si)
		if err != nil {
			return err
		}
		if err := season.InsertEpisode(len(season.Episodes), video.Episode()); err != nil {
			return err
		}
		added = season.Episodes[len(season.Episodes)-1]
		return nil
	})
	if err != nil {
		return catalog.Episode{}, err
	}
	e.notify.Notify(LevelSuccess, "Episode added: "+added.Title)
	return added, nil
}
