package events

// Catalog event types.
const (
	EventCollectionSaved = "collection.saved"
	EventSeriesUpdated   = "series.updated"
	EventTitleCleaned    = "title.cleaned"
)

// CollectionSaved is emitted after the whole document is written to disk.
type CollectionSaved struct {
	BaseEvent
	Series   int `json:"series"`
	Seasons  int `json:"seasons"`
	Episodes int `json:"episodes"`
}

// SeriesUpdated is emitted after a single series is replaced on disk.
type SeriesUpdated struct {
	BaseEvent
	SeriesID string `json:"series_id"`
	Title    string `json:"title"`
	Seasons  int    `json:"seasons"`
}

// TitleCleaned is emitted when the cleaner changed a title.
type TitleCleaned struct {
	BaseEvent
	Original string `json:"original"`
	Cleaned  string `json:"cleaned"`
}

// NewCollectionSaved builds the event for a persisted document.
func NewCollectionSaved(series, seasons, episodes int) *CollectionSaved {
	return &CollectionSaved{
		BaseEvent: NewBaseEvent(EventCollectionSaved, EntityCollection, EntityCollection),
		Series:    series,
		Seasons:   seasons,
		Episodes:  episodes,
	}
}
