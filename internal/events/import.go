package events

// Import event types.
const (
	EventImportStarted   = "import.started"
	EventImportCompleted = "import.completed"
	EventImportFailed    = "import.failed"
)

// Import kinds.
const (
	ImportPlaylist = "playlist"
	ImportVideo    = "video"
)

// ImportStarted is emitted when the daemon begins extracting for an import.
// The entity id is the import run id.
type ImportStarted struct {
	BaseEvent
	Kind              string `json:"kind"`
	URL               string `json:"url"`
	FetchDescriptions bool   `json:"fetch_descriptions"`
}

// ImportCompleted is emitted when the final frame of an import was written.
type ImportCompleted struct {
	BaseEvent
	URL        string `json:"url"`
	Videos     int    `json:"videos"`
	DurationMS int64  `json:"duration_ms"`
}

// ImportFailed is emitted when extraction fails during an import.
type ImportFailed struct {
	BaseEvent
	URL      string `json:"url"`
	Reason   string `json:"reason"`
	Received int    `json:"received"` // videos sent before the failure
}
