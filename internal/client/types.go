package client

import (
	"encoding/json"

	"github.com/vmunix/seasonarr/internal/catalog"
)

// API request and response types (mirror server types)

type SuccessResponse struct {
	Success bool `json:"success"`
}

type CleanTitleRequest struct {
	Title    string `json:"title"`
	SeriesID string `json:"series_id,omitempty"`
}

type CleanTitleResponse struct {
	Cleaned string `json:"cleaned"`
}

type URLRequest struct {
	URL string `json:"url"`
}

type StreamRequest struct {
	URL               string `json:"url"`
	FetchDescriptions bool   `json:"fetch_descriptions"`
}

type PreviewResponse struct {
	Videos []catalog.ImportedVideo `json:"videos"`
}

type SourceInfo struct {
	Title     string `json:"title"`
	ChannelID string `json:"channel_id"`
	Thumbnail string `json:"thumbnail"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Extractor struct {
		Available bool   `json:"available"`
		Binary    string `json:"binary,omitempty"`
	} `json:"extractor"`
	EventLog bool `json:"event_log"`
}

type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	OccurredAt string          `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}
