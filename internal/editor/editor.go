// Package editor is the application state behind the seasonarr client: the
// document store, the current selection, expanded seasons and the calls to
// the daemon that edits and imports go through.
package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/client"
	"github.com/vmunix/seasonarr/internal/merge"
	"github.com/vmunix/seasonarr/internal/prefs"
)

//go:generate mockgen -destination=mocks/backend.go -package=mocks . Backend

// Backend is the daemon API the editor talks to. *client.Client implements it.
type Backend interface {
	Collection(ctx context.Context) (*catalog.Document, error)
	SaveCollection(ctx context.Context, doc *catalog.Document) error
	CleanTitle(ctx context.Context, text string) (string, error)
	Preview(ctx context.Context, url string) ([]catalog.ImportedVideo, error)
	Stream(ctx context.Context, req client.StreamRequest) (io.ReadCloser, error)
	Video(ctx context.Context, url string) (catalog.ImportedVideo, error)
	SourceInfo(ctx context.Context, url string) (client.SourceInfo, error)
}

var _ Backend = (*client.Client)(nil)

var (
	// ErrNoSelection is returned by edits that need a current series.
	ErrNoSelection = errors.New("no series selected")

	// ErrUnknownField is returned by UpdateSeriesField for unsupported fields.
	ErrUnknownField = errors.New("unknown series field")

	// ErrURLRequired is returned when an import or lookup has no URL.
	ErrURLRequired = errors.New("url is required")

	// ErrImportInProgress is returned when an import is started while one is running.
	ErrImportInProgress = errors.New("an import is already in progress")
)

// Preference keys.
const (
	KeyCurrentSeries     = "current_series_id"
	keyOpenSeasonsPrefix = "open_seasons/"
)

// DefaultGenre is assigned to new series created without genres.
const DefaultGenre = catalog.DefaultGenre

// Options configures an Editor. Zero values are usable.
type Options struct {
	Prefs       prefs.Store
	Notifier    Notifier
	Logger      *slog.Logger
	IdleTimeout time.Duration // import stream stall limit; 0 disables
	Now         func() time.Time
}

// Editor owns the in-memory document and the UI state around it.
type Editor struct {
	store    *catalog.Store
	resolver *merge.Resolver
	backend  Backend
	prefs    prefs.Store
	notify   Notifier
	log      *slog.Logger
	idle     time.Duration
	now      func() time.Time

	mu       sync.Mutex
	current  string
	expanded map[int]bool

	importing atomic.Bool
}

// New creates an editor with an empty document. Call Load to fetch it.
func New(backend Backend, opts Options) *Editor {
	if opts.Prefs == nil {
		opts.Prefs = prefs.NewMemoryStore()
	}
	if opts.Notifier == nil {
		opts.Notifier = Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger.With("component", "editor")
	store := catalog.NewStore(catalog.Document{})
	return &Editor{
		store:    store,
		resolver: merge.NewResolver(store, opts.Logger),
		backend:  backend,
		prefs:    opts.Prefs,
		notify:   opts.Notifier,
		log:      log,
		idle:     opts.IdleTimeout,
		now:      opts.Now,
		expanded: make(map[int]bool),
	}
}

// Store exposes the document store so views can subscribe to changes.
func (e *Editor) Store() *catalog.Store { return e.store }

// Load fetches the document and restores the saved selection.
func (e *Editor) Load(ctx context.Context) error {
	doc, err := e.backend.Collection(ctx)
	if err != nil {
		e.notify.Notify(LevelError, "Error loading data: "+err.Error())
		return fmt.Errorf("load collection: %w", err)
	}
	e.store.Replace(*doc)

	e.mu.Lock()
	e.current = ""
	e.expanded = make(map[int]bool)
	e.mu.Unlock()

	id, ok, err := e.prefs.Get(ctx, KeyCurrentSeries)
	if err != nil {
		e.log.Warn("read saved selection", "error", err)
	}
	if ok {
		if _, exists := e.store.Series(id); exists {
			e.mu.Lock()
			e.current = id
			e.expanded = e.loadExpanded(ctx, id)
			e.mu.Unlock()
		} else {
			e.log.Debug("saved selection no longer exists", "series", id)
		}
	}

	e.notify.Notify(LevelSuccess, "Data loaded")
	return nil
}

// Select makes the series with the given id (or title) current.
func (e *Editor) Select(ctx context.Context, idOrTitle string) (catalog.Series, error) {
	series, err := e.store.Lookup(idOrTitle)
	if err != nil {
		return catalog.Series{}, err
	}
	if err := e.prefs.Set(ctx, KeyCurrentSeries, series.ID); err != nil {
		e.log.Warn("save selection", "error", err)
	}

	e.mu.Lock()
	e.current = series.ID
	e.expanded = e.loadExpanded(ctx, series.ID)
	e.mu.Unlock()
	return series, nil
}

// Current returns a copy of the selected series.
func (e *Editor) Current() (catalog.Series, bool) {
	id := e.currentID()
	if id == "" {
		return catalog.Series{}, false
	}
	return e.store.Series(id)
}

func (e *Editor) currentID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// ToggleSeason flips the expanded state of season i and reports whether it is now open.
func (e *Editor) ToggleSeason(ctx context.Context, i int) (bool, error) {
	series, ok := e.Current()
	if !ok {
		return false, ErrNoSelection
	}
	if i < 0 || i >= len(series.Seasons) {
		return false, fmt.Errorf("toggle season %d: %w", i, catalog.ErrIndexOutOfRange)
	}

	e.mu.Lock()
	open := !e.expanded[i]
	if open {
		e.expanded[i] = true
	} else {
		delete(e.expanded, i)
	}
	indices := sortedKeys(e.expanded)
	e.mu.Unlock()

	e.saveExpanded(ctx, series.ID, indices)
	return open, nil
}

// ExpandedSeasons returns the open season indices of the current series in order.
func (e *Editor) ExpandedSeasons() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortedKeys(e.expanded)
}

func (e *Editor) loadExpanded(ctx context.Context, seriesID string) map[int]bool {
	out := make(map[int]bool)
	raw, ok, err := e.prefs.Get(ctx, keyOpenSeasonsPrefix+seriesID)
	if err != nil {
		e.log.Warn("read expanded seasons", "series", seriesID, "error", err)
		return out
	}
	if !ok {
		return out
	}
	var indices []int
	if err := json.Unmarshal([]byte(raw), &indices); err != nil {
		e.log.Warn("ignoring malformed expanded seasons", "series", seriesID, "error", err)
		return out
	}
	for _, i := range indices {
		out[i] = true
	}
	return out
}

func (e *Editor) saveExpanded(ctx context.Context, seriesID string, indices []int) {
	data, _ := json.Marshal(indices)
	if err := e.prefs.Set(ctx, keyOpenSeasonsPrefix+seriesID, string(data)); err != nil {
		e.log.Warn("save expanded seasons", "series", seriesID, "error", err)
	}
}

// remapExpanded rewrites the expanded set after seasons were reordered.
// perm[new] = old; indices that disappear are dropped.
func (e *Editor) remapExpanded(ctx context.Context, seriesID string, perm []int) {
	e.mu.Lock()
	if e.current != seriesID {
		e.mu.Unlock()
		return
	}
	next := make(map[int]bool)
	for newIdx, oldIdx := range perm {
		if e.expanded[oldIdx] {
			next[newIdx] = true
		}
	}
	e.expanded = next
	indices := sortedKeys(next)
	e.mu.Unlock()

	e.saveExpanded(ctx, seriesID, indices)
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// updateCurrent applies fn to the selected series.
func (e *Editor) updateCurrent(fn func(*catalog.Series) error) (string, error) {
	id := e.currentID()
	if id == "" {
		return "", ErrNoSelection
	}
	return id, e.store.UpdateSeries(id, fn)
}

// UpdateSeriesField sets one scalar field of the current series. Values are trimmed.
func (e *Editor) UpdateSeriesField(field, value string) error {
	value = strings.TrimSpace(value)
	var year int
	if field == "release_year" && value != "" {
		y, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("release_year %q: %w", value, catalog.ErrInvalid)
		}
		year = y
	}

	_, err := e.updateCurrent(func(s *catalog.Series) error {
		switch field {
		case "title":
			s.Title = value
		case "original_title":
			s.OriginalTitle = value
		case "studio":
			s.Studio = value
		case "synopsis":
			s.Synopsis = value
		case "release_year":
			s.ReleaseYear = year
		case "banner":
			s.Images.Banner = value
		case "logo":
			s.Images.Logo = value
		default:
			return fmt.Errorf("%q: %w", field, ErrUnknownField)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.notify.Notify(LevelInfo, field+" updated")
	return nil
}

// UpdateSeasonTitle renames season i of the current series.
func (e *Editor) UpdateSeasonTitle(i int, title string) error {
	_, err := e.updateCurrent(func(s *catalog.Series) error {
		season, err := s.Season(i)
		if err != nil {
			return err
		}
		season.Title = strings.TrimSpace(title)
		return nil
	})
	if err != nil {
		return err
	}
	e.notify.Notify(LevelInfo, "Season title updated")
	return nil
}

// EditEpisode replaces the title and synopsis of one episode.
func (e *Editor) EditEpisode(si, ei int, title, synopsis string) error {
	_, err := e.updateCurrent(func(s *catalog.Series) error {
		ep, err := episodeAt(s, si, ei)
		if err != nil {
			return err
		}
		ep.Title = title
		ep.Synopsis = synopsis
		return nil
	})
	if err != nil {
		return err
	}
	e.notify.Notify(LevelInfo, "Episode updated")
	return nil
}

// DeleteSeason removes season i of the current series.
func (e *Editor) DeleteSeason(ctx context.Context, i int) error {
	var n int
	id, err := e.updateCurrent(func(s *catalog.Series) error {
		n = len(s.Seasons)
		return s.RemoveSeason(i)
	})
	if err != nil {
		return err
	}
	perm := make([]int, 0, n-1)
	for old := range n {
		if old != i {
			perm = append(perm, old)
		}
	}
	e.remapExpanded(ctx, id, perm)
	return nil
}

// MoveSeason reorders the seasons of the current series.
func (e *Editor) MoveSeason(ctx context.Context, from, to int) error {
	var n int
	id, err := e.updateCurrent(func(s *catalog.Series) error {
		n = len(s.Seasons)
		return s.MoveSeason(from, to)
	})
	if err != nil {
		return err
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	item := perm[from]
	perm = slices.Delete(perm, from, from+1)
	perm = slices.Insert(perm, to, item)
	e.remapExpanded(ctx, id, perm)
	return nil
}

// DeleteEpisode removes one episode; later episodes are renumbered.
func (e *Editor) DeleteEpisode(si, ei int) error {
	_, err := e.updateCurrent(func(s *catalog.Series) error {
		season, err := s.Season(si)
		if err != nil {
			return err
		}
		return season.RemoveEpisode(ei)
	})
	return err
}

// MoveEpisode reorders episodes within a season.
func (e *Editor) MoveEpisode(si, from, to int) error {
	_, err := e.updateCurrent(func(s *catalog.Series) error {
		season, err := s.Season(si)
		if err != nil {
			return err
		}
		return season.MoveEpisode(from, to)
	})
	return err
}

func episodeAt(s *catalog.Series, si, ei int) (*catalog.Episode, error) {
	season, err := s.Season(si)
	if err != nil {
		return nil, err
	}
	if ei < 0 || ei >= len(season.Episodes) {
		return nil, fmt.Errorf("episode %d: %w", ei, catalog.ErrIndexOutOfRange)
	}
	return &season.Episodes[ei], nil
}

// CreateSeries adds a new series and selects it. Missing genres default to
// DefaultGenre, a zero release year to the current year and an empty
// original title to the title.
func (e *Editor) CreateSeries(ctx context.Context, draft catalog.Series) (catalog.Series, error) {
	draft.ID = strings.TrimSpace(draft.ID)
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.ID == "" || draft.Title == "" {
		e.notify.Notify(LevelError, "ID and title are required")
		return catalog.Series{}, fmt.Errorf("create series: id and title are required: %w", catalog.ErrInvalid)
	}
	if strings.TrimSpace(draft.OriginalTitle) == "" {
		draft.OriginalTitle = draft.Title
	}
	if draft.ReleaseYear == 0 {
		draft.ReleaseYear = e.now().Year()
	}
	draft.NormalizeTags()
	if len(draft.Genres) == 0 {
		draft.Genres = []string{DefaultGenre}
	}
	draft.Seasons = []catalog.Season{}

	if err := e.store.AddSeries(draft); err != nil {
		e.notify.Notify(LevelError, err.Error())
		return catalog.Series{}, err
	}
	series, err := e.Select(ctx, draft.ID)
	if err != nil {
		return catalog.Series{}, err
	}
	e.notify.Notify(LevelSuccess, "Series created")
	return series, nil
}

// DraftFromSource prefills a new series from channel metadata.
func (e *Editor) DraftFromSource(ctx context.Context, url string) (catalog.Series, error) {
	if strings.TrimSpace(url) == "" {
		e.notify.Notify(LevelError, "Enter a channel URL")
		return catalog.Series{}, ErrURLRequired
	}
	src, err := e.backend.SourceInfo(ctx, url)
	if err != nil {
		e.notify.Notify(LevelError, "Error: "+err.Error())
		return catalog.Series{}, fmt.Errorf("source info: %w", err)
	}
	e.notify.Notify(LevelSuccess, "Channel info fetched")
	return catalog.Series{
		ID:            Slug(src.Title),
		Title:         src.Title,
		OriginalTitle: src.Title,
		Images:        catalog.Images{Logo: src.Thumbnail},
	}, nil
}

// SuggestSeasonNumber proposes the number for the next import into seriesID.
func (e *Editor) SuggestSeasonNumber(seriesID string) int {
	series, ok := e.store.Series(seriesID)
	if !ok {
		return 1
	}
	return series.NextSeasonNumber()
}

// Save writes the whole document to the daemon and clears the dirty flag.
func (e *Editor) Save(ctx context.Context) error {
	doc := e.store.Snapshot()
	if err := e.backend.SaveCollection(ctx, &doc); err != nil {
		e.notify.Notify(LevelError, "Error saving: "+err.Error())
		return fmt.Errorf("save collection: %w", err)
	}
	e.store.MarkClean()
	e.notify.Notify(LevelSuccess, "JSON saved")
	return nil
}

// Dirty reports unsaved changes.
func (e *Editor) Dirty() bool { return e.store.Dirty() }
