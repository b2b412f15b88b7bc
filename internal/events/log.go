package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// EventLog is the audit trail in the events table. Timestamps are stored in UTC.
type EventLog struct {
	db *sql.DB
}

func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

// RawEvent is a stored event with its JSON payload undecoded. Registry turns
// it back into a concrete type.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   string
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Filter selects events for Find. Zero fields match everything.
type Filter struct {
	EventType  string
	EntityType string
	EntityID   string
	Since      time.Time
	Limit      int // keep only the newest Limit matches
}

// Append stores e and returns its row id.
func (l *EventLog) Append(e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal %s event: %w", e.EventType(), err)
	}

	res, err := l.db.Exec(
		`INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), string(payload), e.OccurredAt().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert %s event: %w", e.EventType(), err)
	}
	return res.LastInsertId()
}

// Find returns the events matching f, newest first.
func (l *EventLog) Find(ctx context.Context, f Filter) ([]RawEvent, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		where = append(where, clause)
		args = append(args, v)
	}
	if f.EventType != "" {
		add("event_type = ?", f.EventType)
	}
	if f.EntityType != "" {
		add("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		add("entity_id = ?", f.EntityID)
	}
	if !f.Since.IsZero() {
		add("occurred_at >= ?", f.Since.UTC())
	}

	q := `SELECT id, event_type, entity_type, entity_id, payload, occurred_at, created_at FROM events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []RawEvent{}
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Recent returns the newest limit events, newest first. A non-positive
// limit means 50.
func (l *EventLog) Recent(limit int) ([]RawEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.Find(context.Background(), Filter{Limit: limit})
}

// ForEntity returns the history of one entity, oldest first.
func (l *EventLog) ForEntity(entityType, entityID string) ([]RawEvent, error) {
	list, err := l.Find(context.Background(), Filter{EntityType: entityType, EntityID: entityID})
	if err != nil {
		return nil, err
	}
	slices.Reverse(list)
	return list, nil
}

// Prune deletes events that occurred more than olderThan ago.
func (l *EventLog) Prune(olderThan time.Duration) (int64, error) {
	res, err := l.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}
