// Package progress turns import stream events into a percentage and a status line.
package progress

import (
	"fmt"

	"github.com/vmunix/seasonarr/internal/importstream"
)

// Snapshot is what the UI shows for an import at one point in time.
type Snapshot struct {
	Received      int
	Total         int
	Known         bool // a count frame has arrived
	Indeterminate bool // show a spinner instead of a bar
	Percent       float64
	Status        string
}

// Reporter tracks one import at a time. Reset it before each import.
type Reporter struct {
	received int
	total    int
	known    bool
}

// Reset clears the counters and returns the initial snapshot.
func (r *Reporter) Reset() Snapshot {
	r.received, r.total, r.known = 0, 0, false
	return r.snapshot("Connecting...")
}

// Observe updates the counters from e and returns the new snapshot.
func (r *Reporter) Observe(e importstream.Event) Snapshot {
	switch ev := e.(type) {
	case importstream.CountEvent:
		r.total, r.known = ev.Total, true
		return r.snapshot(fmt.Sprintf("Found %d videos. Extracting data...", ev.Total))
	case importstream.VideoEvent:
		r.received++
		if r.known {
			return r.snapshot(fmt.Sprintf("Importing video %d of %d: %s", r.received, r.total, ev.Video.Title))
		}
		return r.snapshot(fmt.Sprintf("Importing video %d: %s", r.received, ev.Video.Title))
	case importstream.DoneEvent:
		return r.snapshot(fmt.Sprintf("Import finished: %d videos", len(ev.Videos)))
	default:
		return r.snapshot("")
	}
}

func (r *Reporter) snapshot(status string) Snapshot {
	s := Snapshot{
		Received: r.received,
		Total:    r.total,
		Known:    r.known,
		Status:   status,
	}
	if !r.known || r.total <= 0 {
		s.Indeterminate = true
		return s
	}
	s.Percent = float64(r.received) / float64(r.total) * 100
	if s.Percent > 100 {
		s.Percent = 100
	}
	return s
}
