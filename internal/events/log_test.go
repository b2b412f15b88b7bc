package events

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/seasonarr/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Apply(context.Background(), db))
	return db
}

type testEvent struct {
	BaseEvent
	Message string `json:"message"`
}

func newTestEvent(eventType, entityID, msg string) *testEvent {
	return &testEvent{BaseEvent: NewBaseEvent(eventType, "test", entityID), Message: msg}
}

func TestEventLog_Append(t *testing.T) {
	log := NewEventLog(setupTestDB(t))

	id, err := log.Append(newTestEvent("test.created", "one", "hello"))
	require.NoError(t, err)
	assert.Positive(t, id)

	events, err := log.ForEntity("test", "one")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Payload, `"message":"hello"`)
	assert.Equal(t, "test.created", events[0].EventType)
	assert.Equal(t, "test", events[0].EntityType)
	assert.Equal(t, "one", events[0].EntityID)
}

func TestEventLog_Find(t *testing.T) {
	log := NewEventLog(setupTestDB(t))

	old := newTestEvent("test.created", "a", "")
	old.Timestamp = time.Now().UTC().Add(-time.Hour)
	for _, e := range []*testEvent{
		old,
		newTestEvent("test.updated", "a", ""),
		newTestEvent("test.created", "b", ""),
		newTestEvent("test.updated", "b", ""),
	} {
		_, err := log.Append(e)
		require.NoError(t, err)
	}
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		want   []string // entity ids, newest first
	}{
		{"everything", Filter{}, []string{"b", "b", "a", "a"}},
		{"by type", Filter{EventType: "test.created"}, []string{"b", "a"}},
		{"by entity", Filter{EntityType: "test", EntityID: "a"}, []string{"a", "a"}},
		{"since", Filter{Since: time.Now().UTC().Add(-time.Minute)}, []string{"b", "b", "a"}},
		{"limit keeps newest", Filter{Limit: 1}, []string{"b"}},
		{"no match", Filter{EntityType: "other"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := log.Find(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]string, len(list))
			for i, e := range list {
				got[i] = e.EntityID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventLog_ForEntity(t *testing.T) {
	log := NewEventLog(setupTestDB(t))

	for _, e := range []*testEvent{
		newTestEvent("test.one", "run-1", ""),
		newTestEvent("test.two", "run-2", ""),
		newTestEvent("test.three", "run-1", ""),
	} {
		_, err := log.Append(e)
		require.NoError(t, err)
	}

	events, err := log.ForEntity("test", "run-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "test.one", events[0].EventType)
	assert.Equal(t, "test.three", events[1].EventType)

	none, err := log.ForEntity("test", "run-9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEventLog_Recent(t *testing.T) {
	log := NewEventLog(setupTestDB(t))

	for _, typ := range []string{"test.a", "test.b", "test.c"} {
		_, err := log.Append(newTestEvent(typ, "x", ""))
		require.NoError(t, err)
	}

	events, err := log.Recent(2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "test.c", events[0].EventType, "newest first")
	assert.Equal(t, "test.b", events[1].EventType)
}

func TestEventLog_Prune(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	old := newTestEvent("test.old", "x", "")
	old.Timestamp = time.Now().UTC().Add(-100 * 24 * time.Hour)
	_, err := log.Append(old)
	require.NoError(t, err)
	_, err = log.Append(newTestEvent("test.new", "x", ""))
	require.NoError(t, err)

	pruned, err := log.Prune(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	events, err := log.Find(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "test.new", events[0].EventType)
}
