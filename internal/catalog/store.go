package catalog

import (
	"fmt"
	"strings"
	"sync"
)

// ChangeKind describes what a committed mutation touched.
type ChangeKind string

const (
	ChangeReplaced      ChangeKind = "replaced"
	ChangeSeriesAdded   ChangeKind = "series_added"
	ChangeSeriesUpdated ChangeKind = "series_updated"
)

// Change is emitted once per committed mutation.
type Change struct {
	Kind     ChangeKind
	SeriesID string // empty for ChangeReplaced
}

// Listener is notified after a mutation is committed.
type Listener func(Change)

// Store is the in-memory document the editor mutates. It never persists itself;
// Dirty reports whether anything changed since the last MarkClean.
type Store struct {
	mu        sync.RWMutex
	doc       Document
	dirty     bool
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store holding a copy of doc.
func NewStore(doc Document) *Store {
	s := &Store{listeners: make(map[int]Listener)}
	s.doc = normalized(doc)
	return s
}

// Subscribe registers l for change notifications and returns a func that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Replace swaps the whole document. Used after loading from the backend,
// so the store is left clean.
func (s *Store) Replace(doc Document) {
	s.mu.Lock()
	s.doc = normalized(doc)
	s.dirty = false
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeReplaced})
}

// List returns copies of all series in document order.
func (s *Store) List() []Series {
	return s.Snapshot().Series
}

// Series returns a copy of the series with the given id.
func (s *Store) Series(id string) (Series, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Series{}, false
	}
	return s.doc.Series[i].Clone(), true
}

// AddSeries appends a new series.
func (s *Store) AddSeries(series Series) error {
	series.ID = strings.TrimSpace(series.ID)
	series.Title = strings.TrimSpace(series.Title)
	if series.ID == "" || series.Title == "" {
		return fmt.Errorf("add series: id and title are required: %w", ErrInvalid)
	}

	s.mu.Lock()
	if s.indexOf(series.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("add series %q: %w", series.ID, ErrDuplicate)
	}
	series = series.Clone()
	series.Normalize()
	s.doc.Series = append(s.doc.Series, series)
	s.dirty = true
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeSeriesAdded, SeriesID: series.ID})
	return nil
}

// UpdateSeries applies fn to a working copy of the series and commits it if fn
// returns nil. Derived season fields are restored before commit. The series id
// cannot be changed through fn.
func (s *Store) UpdateSeries(id string, fn func(*Series) error) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("series %q: %w", id, ErrNotFound)
	}

	working := s.doc.Series[i].Clone()
	if err := fn(&working); err != nil {
		s.mu.Unlock()
		return err
	}
	working.ID = id
	working.Normalize()
	s.doc.Series[i] = working
	s.dirty = true
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeSeriesUpdated, SeriesID: id})
	return nil
}

// Dirty reports whether the document changed since it was loaded or saved.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// MarkClean clears the dirty flag after a successful save.
func (s *Store) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

func (s *Store) indexOf(id string) int {
	for i := range s.doc.Series {
		if s.doc.Series[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(c)
	}
}

func normalized(doc Document) Document {
	out := doc.Clone()
	if out.Series == nil {
		out.Series = []Series{}
	}
	for i := range out.Series {
		out.Series[i].Normalize()
	}
	return out
}
