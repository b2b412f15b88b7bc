package importstream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vmunix/seasonarr/internal/catalog"
)

// Encoder writes frames, flushing after each one when the writer supports it.
type Encoder struct {
	enc     *json.Encoder
	flusher http.Flusher
	written map[FrameType]int
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	e := &Encoder{enc: enc, written: make(map[FrameType]int)}
	if f, ok := w.(http.Flusher); ok {
		e.flusher = f
	}
	return e
}

// WriteCount announces the number of videos that will follow.
func (e *Encoder) WriteCount(total int) error {
	return e.write(FrameCount, frame{Type: FrameCount, Total: &total})
}

// WriteVideo sends one extracted video.
func (e *Encoder) WriteVideo(v catalog.ImportedVideo) error {
	return e.write(FrameVideo, frame{Type: FrameVideo, Video: &v})
}

// WriteDone sends the final list and ends the stream.
func (e *Encoder) WriteDone(videos []catalog.ImportedVideo) error {
	if videos == nil {
		videos = []catalog.ImportedVideo{}
	}
	// Written separately so an empty list is sent as [] rather than omitted.
	return e.write(FrameDone, struct {
		Type   FrameType               `json:"type"`
		Videos []catalog.ImportedVideo `json:"videos"`
	}{FrameDone, videos})
}

// WriteError reports a failure after the response has started.
func (e *Encoder) WriteError(msg string) error {
	return e.write(FrameError, frame{Type: FrameError, Error: msg})
}

// Written returns how many frames of type t were written.
func (e *Encoder) Written(t FrameType) int {
	return e.written[t]
}

func (e *Encoder) write(t FrameType, v any) error {
	// json.Encoder terminates every value with a newline.
	if err := e.enc.Encode(v); err != nil {
		return fmt.Errorf("write %s frame: %w", t, err)
	}
	e.written[t]++
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
