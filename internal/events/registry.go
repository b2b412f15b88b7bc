package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnknownType is returned when a stored event has no registered decoder.
var ErrUnknownType = errors.New("unknown event type")

// EventFactory returns a pointer to a zero event ready to be decoded into.
type EventFactory func() Event

// Registry decodes stored payloads back into concrete events.
type Registry struct {
	factories map[string]EventFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]EventFactory{}}
}

// Register binds eventType to factory, replacing any earlier binding.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Types lists the registered event types in sorted order.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Unmarshal decodes raw into its registered type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, raw.EventType)
	}
	e := factory()
	if err := json.Unmarshal([]byte(raw.Payload), e); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", raw.EventType, err)
	}
	return e, nil
}

// DefaultRegistry knows every event the daemon writes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for t, f := range map[string]EventFactory{
		EventCollectionSaved: func() Event { return &CollectionSaved{} },
		EventSeriesUpdated:   func() Event { return &SeriesUpdated{} },
		EventTitleCleaned:    func() Event { return &TitleCleaned{} },
		EventImportStarted:   func() Event { return &ImportStarted{} },
		EventImportCompleted: func() Event { return &ImportCompleted{} },
		EventImportFailed:    func() Event { return &ImportFailed{} },
	} {
		r.Register(t, f)
	}
	return r
}
