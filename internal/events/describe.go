package events

import (
	"fmt"
	"time"
)

// Describe renders a one-line human summary of e.
func Describe(e Event) string {
	switch e := e.(type) {
	case *CollectionSaved:
		return fmt.Sprintf("saved %d series, %d seasons, %d episodes", e.Series, e.Seasons, e.Episodes)
	case *SeriesUpdated:
		return fmt.Sprintf("%s updated (%d seasons)", e.Title, e.Seasons)
	case *TitleCleaned:
		return fmt.Sprintf("%q -> %q", e.Original, e.Cleaned)
	case *ImportStarted:
		if e.FetchDescriptions {
			return fmt.Sprintf("%s import of %s with descriptions", e.Kind, e.URL)
		}
		return fmt.Sprintf("%s import of %s", e.Kind, e.URL)
	case *ImportCompleted:
		return fmt.Sprintf("%d videos in %s", e.Videos, time.Duration(e.DurationMS)*time.Millisecond)
	case *ImportFailed:
		return fmt.Sprintf("failed after %d videos: %s", e.Received, e.Reason)
	default:
		return e.EventType()
	}
}
