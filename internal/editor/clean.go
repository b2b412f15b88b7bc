package editor

import (
	"context"
	"fmt"

	"github.com/vmunix/seasonarr/internal/catalog"
)

// CleanTitle runs text through the daemon's cleaner. On failure the text is
// returned unchanged and a notice is shown.
func (e *Editor) CleanTitle(ctx context.Context, text string) string {
	cleaned, err := e.backend.CleanTitle(ctx, text)
	if err != nil {
		e.log.Warn("clean title failed", "error", err)
		e.notify.Notify(LevelError, "Error cleaning title")
		return text
	}
	return cleaned
}

// CleanEpisodeTitle cleans the title of one episode in the current series.
func (e *Editor) CleanEpisodeTitle(ctx context.Context, si, ei int) (string, error) {
	series, ok := e.Current()
	if !ok {
		return "", ErrNoSelection
	}
	ep, err := episodeAt(&series, si, ei)
	if err != nil {
		return "", err
	}

	cleaned := e.CleanTitle(ctx, ep.Title)
	_, err = e.updateCurrent(func(s *catalog.Series) error {
		target, err := episodeAt(s, si, ei)
		if err != nil {
			return err
		}
		target.Title = cleaned
		return nil
	})
	if err != nil {
		return "", err
	}
	e.notify.Notify(LevelSuccess, "Title cleaned")
	return cleaned, nil
}

// CleanSeasonTitles cleans every episode title of season si, one call at a
// time. A failed call keeps that episode's title. It returns how many
// episodes were processed.
func (e *Editor) CleanSeasonTitles(ctx context.Context, si int) (int, error) {
	series, ok := e.Current()
	if !ok {
		return 0, ErrNoSelection
	}
	season, err := series.Season(si)
	if err != nil {
		return 0, err
	}
	e.notify.Notify(LevelInfo, "Cleaning titles...")

	titles := make([]string, len(season.Episodes))
	for i, ep := range season.Episodes {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		titles[i] = e.CleanTitle(ctx, ep.Title)
	}

	_, err = e.updateCurrent(func(s *catalog.Series) error {
		target, err := s.Season(si)
		if err != nil {
			return err
		}
		if len(target.Episodes) != len(titles) {
			return fmt.Errorf("season %d changed while cleaning: %w", si, catalog.ErrIndexOutOfRange)
		}
		for i := range target.Episodes {
			target.Episodes[i].Title = titles[i]
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.notify.Notify(LevelSuccess, fmt.Sprintf("%d titles cleaned", len(titles)))
	return len(titles), nil
}
