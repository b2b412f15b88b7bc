package v1

import (
	"encoding/json"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/ytdlp"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// CleanTitleRequest is the body of POST /clean-title.
type CleanTitleRequest struct {
	Title    *string `json:"title"`
	SeriesID string  `json:"series_id,omitempty"` // recorded in the audit trail
}

// CleanTitleResponse is the result of POST /clean-title.
type CleanTitleResponse struct {
	Cleaned string `json:"cleaned"`
}

// URLRequest is the body of the preview, single-item and source-info endpoints.
type URLRequest struct {
	URL string `json:"url"`
}

// StreamRequest is the body of POST /import/stream.
type StreamRequest struct {
	URL               string `json:"url"`
	FetchDescriptions bool   `json:"fetch_descriptions"`
}

// UnmarshalJSON also accepts the fetchDescriptions and get_descriptions spellings.
func (r *StreamRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		URL   string `json:"url"`
		Snake *bool  `json:"fetch_descriptions"`
		Camel *bool  `json:"fetchDescriptions"`
		Get   *bool  `json:"get_descriptions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.URL = raw.URL
	r.FetchDescriptions = false
	for _, b := range []*bool{raw.Snake, raw.Camel, raw.Get} {
		if b != nil && *b {
			r.FetchDescriptions = true
		}
	}
	return nil
}

// PreviewResponse is the result of POST /import/preview.
type PreviewResponse struct {
	Videos []catalog.ImportedVideo `json:"videos"`
}

// SourceInfoResponse is the result of POST /import/source-info.
type SourceInfoResponse = ytdlp.Source

// StatusResponse is the result of GET /status.
type StatusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Extractor struct {
		Available bool   `json:"available"`
		Binary    string `json:"binary,omitempty"`
	} `json:"extractor"`
	EventLog bool `json:"event_log"`
}

// EventResponse is one audit trail entry.
type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	OccurredAt string          `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}
