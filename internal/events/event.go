package events

import "time"

// Entity types an event can be attached to.
const (
	EntityCollection = "collection"
	EntitySeries     = "series"
	EntityImport     = "import"
)

// Event is anything the log can store. Concrete events embed BaseEvent and
// add their own JSON fields.
type Event interface {
	EventType() string
	EntityType() string
	EntityID() string
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields shared by every payload.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        string    `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewBaseEvent stamps an envelope with the current UTC time.
func NewBaseEvent(eventType, entityType, entityID string) BaseEvent {
	return BaseEvent{Type: eventType, Entity: entityType, ID: entityID, Timestamp: time.Now().UTC()}
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() string      { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
