package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vmunix/seasonarr/internal/events"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit == 0 {
		limit = 50
	}
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit must be non-negative")
		return
	}
	const maxLimit = 1000
	if limit > maxLimit {
		limit = maxLimit
	}

	q := r.URL.Query()
	filter := events.Filter{
		EventType:  q.Get("event_type"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		Limit:      limit,
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be an RFC 3339 timestamp")
			return
		}
		filter.Since = since
	}

	list, err := s.deps.EventLog.Find(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	resp := listEventsResponse{
		Items: make([]EventResponse, len(list)),
		Total: len(list),
		Limit: limit,
	}
	for i, e := range list {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
		if e.Payload != "" {
			resp.Items[i].Payload = json.RawMessage(e.Payload)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
