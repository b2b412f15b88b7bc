// Package importstream encodes and decodes the newline-delimited JSON frames
// a playlist import is streamed as.
package importstream

import (
	"errors"
	"fmt"

	"github.com/vmunix/seasonarr/internal/catalog"
)

// ContentType is the media type of an import stream response.
const ContentType = "application/x-ndjson"

// FrameType tags each frame on the wire.
type FrameType string

const (
	FrameCount FrameType = "count"
	FrameVideo FrameType = "video"
	FrameDone  FrameType = "done"
	FrameError FrameType = "error"
)

// frame is the union of every frame shape.
type frame struct {
	Type   FrameType               `json:"type"`
	Total  *int                    `json:"total,omitempty"`
	Video  *catalog.ImportedVideo  `json:"video,omitempty"`
	Videos []catalog.ImportedVideo `json:"videos,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// Event is one decoded frame.
type Event interface {
	Type() FrameType
}

// CountEvent announces how many videos the stream will carry.
type CountEvent struct {
	Total int
}

// VideoEvent carries one extracted video.
type VideoEvent struct {
	Video catalog.ImportedVideo
}

// DoneEvent ends the stream. Videos is the authoritative final list and may
// differ from the videos seen in VideoEvents.
type DoneEvent struct {
	Videos []catalog.ImportedVideo
}

func (CountEvent) Type() FrameType { return FrameCount }
func (VideoEvent) Type() FrameType { return FrameVideo }
func (DoneEvent) Type() FrameType  { return FrameDone }

var (
	// ErrTruncated is returned when the stream ends before a done frame.
	ErrTruncated = errors.New("import stream ended before completion")

	// ErrStalled is returned when no data arrived within the idle timeout.
	ErrStalled = errors.New("import stream stalled")
)

// RemoteError is an error frame sent by the server after the stream started.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("import failed on server: %s", e.Message)
}
