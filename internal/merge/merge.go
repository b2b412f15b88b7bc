// Package merge integrates an imported playlist into a series as a season.
package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/seasonarr/internal/catalog"
)

// ErrTargetNotFound is returned when the series to merge into does not exist.
var ErrTargetNotFound = errors.New("merge target not found")

// errNeedsDecision stops the first commit attempt when the season number is taken.
var errNeedsDecision = errors.New("season collision")

// Decision is the caller's answer to a season collision.
type Decision int

const (
	Abort Decision = iota
	Replace
)

func (d Decision) String() string {
	if d == Replace {
		return "replace"
	}
	return "abort"
}

// Collision describes an existing season that has the incoming season number.
type Collision struct {
	SeriesID    string
	SeriesTitle string
	Existing    catalog.Season
	Incoming    catalog.Season
}

// Decider is asked to resolve a collision before anything is changed.
type Decider interface {
	Decide(ctx context.Context, c Collision) (Decision, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, c Collision) (Decision, error)

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, c Collision) (Decision, error) { return f(ctx, c) }

var (
	// AlwaysReplace overwrites any colliding season.
	AlwaysReplace Decider = DeciderFunc(func(context.Context, Collision) (Decision, error) { return Replace, nil })

	// AlwaysAbort keeps any colliding season and drops the import.
	AlwaysAbort Decider = DeciderFunc(func(context.Context, Collision) (Decision, error) { return Abort, nil })
)

// Status is how a merge ended.
type Status string

const (
	StatusAppended Status = "appended"
	StatusReplaced Status = "replaced"
	StatusAborted  Status = "aborted"
)

// Outcome reports the result of a merge.
type Outcome struct {
	Status        Status
	EpisodesAdded int
	Season        catalog.Season
}

// Committed reports whether the store was changed.
func (o Outcome) Committed() bool {
	return o.Status == StatusAppended || o.Status == StatusReplaced
}

// BuildSeason creates a season from imported videos, preserving their order.
// Titles are kept as extracted.
func BuildSeason(number int, videos []catalog.ImportedVideo) catalog.Season {
	s := catalog.Season{
		SeasonNumber: number,
		Title:        catalog.SeasonTitle(number),
		Episodes:     make([]catalog.Episode, len(videos)),
	}
	for i, v := range videos {
		s.Episodes[i] = v.Episode()
	}
	s.Normalize()
	return s
}

// Resolver merges built seasons into the document store.
type Resolver struct {
	store *catalog.Store
	log   *slog.Logger
}

// NewResolver creates a resolver for store.
func NewResolver(store *catalog.Store, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{store: store, log: log}
}

// Merge adds the videos to the series as season seasonNumber. If that number is
// already taken, d decides whether to replace the existing season or abort; the
// store is not locked while d runs. Nothing is persisted.
func (r *Resolver) Merge(ctx context.Context, seriesID string, seasonNumber int, videos []catalog.ImportedVideo, d Decider) (Outcome, error) {
	incoming := BuildSeason(seasonNumber, videos)

	var collision Collision
	err := r.store.UpdateSeries(seriesID, func(s *catalog.Series) error {
		idx := s.SeasonIndex(seasonNumber)
		if idx < 0 {
			s.Seasons = append(s.Seasons, incoming.Clone())
			return nil
		}
		collision = Collision{
			SeriesID:    s.ID,
			SeriesTitle: s.Title,
			Existing:    s.Seasons[idx].Clone(),
			Incoming:    incoming.Clone(),
		}
		return errNeedsDecision
	})
	switch {
	case err == nil:
		r.log.Info("season appended", "series", seriesID, "season", seasonNumber, "episodes", incoming.EpisodeCount)
		return Outcome{Status: StatusAppended, EpisodesAdded: incoming.EpisodeCount, Season: incoming}, nil
	case errors.Is(err, catalog.ErrNotFound):
		return Outcome{}, fmt.Errorf("series %q: %w", seriesID, ErrTargetNotFound)
	case !errors.Is(err, errNeedsDecision):
		return Outcome{}, err
	}

	if d == nil {
		d = AlwaysAbort
	}
	decision, err := d.Decide(ctx, collision)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve season %d collision: %w", seasonNumber, err)
	}
	r.log.Info("season collision resolved", "series", seriesID, "season", seasonNumber, "decision", decision.String())

	if decision != Replace {
		return Outcome{Status: StatusAborted, Season: incoming}, nil
	}

	status := StatusReplaced
	err = r.store.UpdateSeries(seriesID, func(s *catalog.Series) error {
		// Re-resolve by number: the list may have changed while deciding.
		idx := s.SeasonIndex(seasonNumber)
		if idx < 0 {
			status = StatusAppended
			s.Seasons = append(s.Seasons, incoming.Clone())
			return nil
		}
		s.Seasons[idx] = incoming.Clone()
		return nil
	})
	if errors.Is(err, catalog.ErrNotFound) {
		return Outcome{}, fmt.Errorf("series %q: %w", seriesID, ErrTargetNotFound)
	}
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: status, EpisodesAdded: incoming.EpisodeCount, Season: incoming}, nil
}
