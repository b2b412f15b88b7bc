package importstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const readSize = 32 * 1024

// Decoder reads frames from an import stream. Frame boundaries do not need to
// line up with read boundaries, and a UTF-8 character split across reads is
// held back until complete.
type Decoder struct {
	r           io.Reader
	buf         []byte
	pending     [][]byte
	chunk       []byte
	done        bool
	eof         bool
	log         *slog.Logger
	onMalformed func(line []byte, err error)

	idle    time.Duration
	onIdle  func()
	timer   *time.Timer
	stalled atomic.Bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for skipped frames.
func WithLogger(log *slog.Logger) Option {
	return func(d *Decoder) {
		d.log = log
	}
}

// WithMalformedHandler is called for every frame that fails to parse.
func WithMalformedHandler(fn func(line []byte, err error)) Option {
	return func(d *Decoder) {
		d.onMalformed = fn
	}
}

// WithIdleTimeout calls onIdle when no bytes arrive for d. onIdle should cancel
// whatever the reader is blocked on, typically the request context. Once it
// fires, Next returns ErrStalled.
func WithIdleTimeout(d time.Duration, onIdle func()) Option {
	return func(dec *Decoder) {
		dec.idle = d
		dec.onIdle = onIdle
	}
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		r:     transform.NewReader(r, unicode.UTF8BOM.NewDecoder()),
		chunk: make([]byte, readSize),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.idle > 0 {
		d.timer = time.AfterFunc(d.idle, func() {
			d.stalled.Store(true)
			if d.onIdle != nil {
				d.onIdle()
			}
		})
	}
	return d
}

// Next returns the next event. It returns io.EOF after a DoneEvent, ErrTruncated
// if the source ends first, ErrStalled after an idle timeout and *RemoteError
// for an error frame.
func (d *Decoder) Next() (Event, error) {
	for {
		if d.done {
			return nil, io.EOF
		}

		for len(d.pending) > 0 {
			line := d.pending[0]
			d.pending = d.pending[1:]

			ev, err := d.parse(line)
			if err != nil {
				d.finish()
				return nil, err
			}
			if ev == nil {
				continue
			}
			if _, ok := ev.(DoneEvent); ok {
				d.finish()
			}
			return ev, nil
		}

		if d.eof {
			d.finish()
			return nil, ErrTruncated
		}
		if err := d.fill(); err != nil {
			d.finish()
			return nil, err
		}
	}
}

// Close stops the idle timer. It does not close the underlying reader.
func (d *Decoder) Close() {
	d.finish()
}

// fill performs one read and splits the buffer into complete frames.
func (d *Decoder) fill() error {
	n, err := d.r.Read(d.chunk)
	if d.timer != nil && n > 0 {
		d.timer.Reset(d.idle)
	}
	if n > 0 {
		// Bytes carried over from earlier reads hold no newline, so only
		// the new chunk is scanned.
		scan := len(d.buf)
		d.buf = append(d.buf, d.chunk[:n]...)
		start := 0
		for {
			i := bytes.IndexByte(d.buf[scan:], '\n')
			if i < 0 {
				break
			}
			end := scan + i
			d.pending = append(d.pending, append([]byte(nil), d.buf[start:end]...))
			start = end + 1
			scan = start
		}
		if start > 0 {
			d.buf = append(d.buf[:0], d.buf[start:]...)
		}
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		d.eof = true
		if len(bytes.TrimSpace(d.buf)) > 0 {
			// An unterminated trailing frame can never complete.
			d.log.Warn("discarding unterminated frame", "bytes", len(d.buf))
		}
		return nil
	case d.stalled.Load():
		return fmt.Errorf("%w: no data for %s", ErrStalled, d.idle)
	default:
		return fmt.Errorf("read import stream: %w", err)
	}
}

// parse decodes one frame. A nil event with nil error means skip.
func (d *Decoder) parse(line []byte) (Event, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil
	}

	var f frame
	if err := json.Unmarshal(line, &f); err != nil {
		d.log.Warn("skipping malformed frame", "error", err, "frame", truncate(line, 200))
		if d.onMalformed != nil {
			d.onMalformed(line, err)
		}
		return nil, nil
	}

	switch f.Type {
	case FrameCount:
		if f.Total == nil {
			d.log.Warn("skipping count frame without total")
			return nil, nil
		}
		return CountEvent{Total: *f.Total}, nil
	case FrameVideo:
		if f.Video == nil {
			d.log.Warn("skipping video frame without video")
			return nil, nil
		}
		return VideoEvent{Video: *f.Video}, nil
	case FrameDone:
		return DoneEvent{Videos: f.Videos}, nil
	case FrameError:
		return nil, &RemoteError{Message: f.Error}
	default:
		d.log.Debug("skipping unknown frame", "type", f.Type)
		return nil, nil
	}
}

func (d *Decoder) finish() {
	d.done = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
