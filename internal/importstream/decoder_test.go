package importstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/seasonarr/internal/catalog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// chunkReader returns the given chunks one Read at a time.
type chunkReader struct {
	chunks [][]byte
	reads  int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	r.reads++
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func splitAt(data []byte, cuts ...int) [][]byte {
	var chunks [][]byte
	prev := 0
	for _, c := range cuts {
		chunks = append(chunks, data[prev:c])
		prev = c
	}
	return append(chunks, data[prev:])
}

func collect(t *testing.T, d *Decoder) ([]Event, error) {
	t.Helper()
	var events []Event
	for {
		ev, err := d.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return events, err
		}
		events = append(events, ev)
	}
}

const sampleStream = `{"type":"count","total":2}
{"type":"video","video":{"id":"a","title":"Capítulo 1 – Ñandú 🎬","url":"u1","duration":600,"thumbnail":"t1"}}
{"type":"video","video":{"id":"b","title":"日本語のタイトル","url":"u2","duration":660,"thumbnail":"t2","description":"línea"}}
{"type":"done","videos":[{"id":"a","title":"Capítulo 1 – Ñandú 🎬","url":"u1","duration":600,"thumbnail":"t1"},{"id":"b","title":"日本語のタイトル","url":"u2","duration":660,"thumbnail":"t2","description":"línea"}]}
`

func expectedSample() []Event {
	a := catalog.ImportedVideo{ID: "a", Title: "Capítulo 1 – Ñandú 🎬", URL: "u1", Duration: 600, Thumbnail: "t1"}
	b := catalog.ImportedVideo{ID: "b", Title: "日本語のタイトル", URL: "u2", Duration: 660, Thumbnail: "t2", Description: "línea"}
	return []Event{
		CountEvent{Total: 2},
		VideoEvent{Video: a},
		VideoEvent{Video: b},
		DoneEvent{Videos: []catalog.ImportedVideo{a, b}},
	}
}

func TestDecoder_WholeStream(t *testing.T) {
	d := NewDecoder(strings.NewReader(sampleStream), WithLogger(testLogger()))
	events, err := collect(t, d)
	require.NoError(t, err)
	assert.Equal(t, expectedSample(), events)
}

func TestDecoder_EverySingleSplitPoint(t *testing.T) {
	data := []byte(sampleStream)
	want := expectedSample()

	for cut := 1; cut < len(data); cut++ {
		d := NewDecoder(&chunkReader{chunks: splitAt(data, cut)}, WithLogger(testLogger()))
		events, err := collect(t, d)
		require.NoError(t, err, "cut at %d", cut)
		require.Equal(t, want, events, "cut at %d", cut)
	}
}

func TestDecoder_OneByteReads(t *testing.T) {
	d := NewDecoder(iotest.OneByteReader(strings.NewReader(sampleStream)), WithLogger(testLogger()))
	events, err := collect(t, d)
	require.NoError(t, err)
	assert.Equal(t, expectedSample(), events)
}

func TestDecoder_LargeDoneFrame(t *testing.T) {
	videos := make([]catalog.ImportedVideo, 20000)
	for i := range videos {
		videos[i] = catalog.ImportedVideo{ID: fmt.Sprintf("v%05d", i), Title: "Capítulo", URL: "u", Duration: 60}
	}
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.WriteCount(len(videos)))
	require.NoError(t, enc.WriteDone(videos))
	require.Greater(t, buf.Len(), 20*readSize, "done frame spans many reads")

	d := NewDecoder(&buf, WithLogger(testLogger()))
	events, err := collect(t, d)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, CountEvent{Total: len(videos)}, events[0])
	done, ok := events[1].(DoneEvent)
	require.True(t, ok)
	assert.Equal(t, videos, done.Videos)
}

func TestDecoder_RandomSplits(t *testing.T) {
	data := []byte(sampleStream)
	want := expectedSample()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		var cuts []int
		pos := 0
		for {
			pos += 1 + rng.Intn(12)
			if pos >= len(data) {
				break
			}
			cuts = append(cuts, pos)
		}
		d := NewDecoder(&chunkReader{chunks: splitAt(data, cuts...)}, WithLogger(testLogger()))
		events, err := collect(t, d)
		require.NoError(t, err, "cuts %v", cuts)
		require.Equal(t, want, events, "cuts %v", cuts)
	}
}

func TestDecoder_SplitInsideMultibyteCharacter(t *testing.T) {
	data := []byte(sampleStream)
	emoji := bytes.Index(data, []byte("🎬"))
	require.Positive(t, emoji)

	// Split inside the four-byte emoji at every interior offset.
	for off := 1; off < 4; off++ {
		d := NewDecoder(&chunkReader{chunks: splitAt(data, emoji+off)}, WithLogger(testLogger()))
		events, err := collect(t, d)
		require.NoError(t, err)
		require.Equal(t, expectedSample(), events)
	}
}

func TestDecoder_MalformedFrameIsSkipped(t *testing.T) {
	stream := `{"type":"count","total":1}
{"type":"video","video":{"id":"a"
{"type":"video","video":{"id":"b","title":"B"}}
not json at all
{"type":"done","videos":[{"id":"b","title":"B"}]}
`
	var malformed []string
	d := NewDecoder(strings.NewReader(stream),
		WithLogger(testLogger()),
		WithMalformedHandler(func(line []byte, _ error) { malformed = append(malformed, string(line)) }),
	)

	events, err := collect(t, d)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, CountEvent{Total: 1}, events[0])
	assert.Equal(t, VideoEvent{Video: catalog.ImportedVideo{ID: "b", Title: "B"}}, events[1])
	assert.Equal(t, FrameDone, events[2].Type())
	assert.Len(t, malformed, 2)
}

func TestDecoder_BlankAndUnknownFramesSkipped(t *testing.T) {
	stream := "\n   \n{\"type\":\"heartbeat\"}\r\n{\"type\":\"count\",\"total\":0}\r\n{\"type\":\"done\",\"videos\":[]}\n"
	d := NewDecoder(strings.NewReader(stream), WithLogger(testLogger()))

	events, err := collect(t, d)
	require.NoError(t, err)
	assert.Equal(t, []Event{CountEvent{Total: 0}, DoneEvent{Videos: []catalog.ImportedVideo{}}}, events)
}

func TestDecoder_DoneStopsReading(t *testing.T) {
	stream := []byte("{\"type\":\"done\",\"videos\":[]}\n{\"type\":\"count\",\"total\":5}\n")
	tail := []byte("{\"type\":\"count\",\"total\":9}\n")
	r := &chunkReader{chunks: [][]byte{stream, tail}}
	d := NewDecoder(r, WithLogger(testLogger()))

	ev, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, FrameDone, ev.Type())

	_, err = d.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, r.reads, "no reads after the done frame")
}

func TestDecoder_TruncatedStream(t *testing.T) {
	stream := `{"type":"count","total":2}
{"type":"video","video":{"id":"a","title":"A"}}
{"type":"done","videos":[`
	d := NewDecoder(strings.NewReader(stream), WithLogger(testLogger()))

	events, err := collect(t, d)
	require.ErrorIs(t, err, ErrTruncated)
	assert.Len(t, events, 2)

	_, err = d.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_ErrorFrame(t *testing.T) {
	stream := `{"type":"count","total":2}
{"type":"error","error":"yt-dlp exited with status 1"}
{"type":"done","videos":[]}
`
	d := NewDecoder(strings.NewReader(stream), WithLogger(testLogger()))

	events, err := collect(t, d)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "yt-dlp exited with status 1", remote.Message)
	assert.Len(t, events, 1)
}

func TestDecoder_LeadingBOM(t *testing.T) {
	stream := "\xef\xbb\xbf{\"type\":\"count\",\"total\":3}\n{\"type\":\"done\",\"videos\":[]}\n"
	d := NewDecoder(strings.NewReader(stream), WithLogger(testLogger()))

	events, err := collect(t, d)
	require.NoError(t, err)
	assert.Equal(t, CountEvent{Total: 3}, events[0])
}

func TestDecoder_ReadError(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("{\"type\":\"count\",\"total\":1}\n"), iotest.ErrReader(boom))
	d := NewDecoder(r, WithLogger(testLogger()))

	events, err := collect(t, d)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []Event{CountEvent{Total: 1}}, events)
}

func TestDecoder_IdleTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_, _ = pw.Write([]byte("{\"type\":\"count\",\"total\":1}\n"))
		<-ctx.Done()
		_ = pw.CloseWithError(ctx.Err())
	}()

	d := NewDecoder(pr, WithLogger(testLogger()), WithIdleTimeout(50*time.Millisecond, cancel))

	ev, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, CountEvent{Total: 1}, ev)

	_, err = d.Next()
	assert.ErrorIs(t, err, ErrStalled)
}
