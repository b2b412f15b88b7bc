package importstream

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/seasonarr/internal/catalog"
)

func TestEncoder_Frames(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	v := catalog.ImportedVideo{ID: "a", Title: "Tom & Jerry", URL: "https://www.youtube.com/watch?v=a", Duration: 61}
	require.NoError(t, enc.WriteCount(1))
	require.NoError(t, enc.WriteVideo(v))
	require.NoError(t, enc.WriteDone(nil))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"type":"count","total":1}`, lines[0])
	assert.JSONEq(t, `{"type":"video","video":{"id":"a","title":"Tom & Jerry","url":"https://www.youtube.com/watch?v=a","duration":61,"thumbnail":""}}`, lines[1])
	assert.JSONEq(t, `{"type":"done","videos":[]}`, lines[2])
	assert.Contains(t, lines[1], "Tom & Jerry", "no HTML escaping")

	assert.Equal(t, 1, enc.Written(FrameVideo))
	assert.Equal(t, 0, enc.Written(FrameError))
}

func TestEncoder_CountZeroIsKept(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).WriteCount(0))
	assert.JSONEq(t, `{"type":"count","total":0}`, buf.String())
}

func TestEncoder_FlushesHTTPResponses(t *testing.T) {
	w := httptest.NewRecorder()
	enc := NewEncoder(w)

	require.NoError(t, enc.WriteError("boom"))
	assert.True(t, w.Flushed)
	assert.JSONEq(t, `{"type":"error","error":"boom"}`, w.Body.String())
}

func TestEncoder_DecoderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	videos := []catalog.ImportedVideo{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}
	require.NoError(t, enc.WriteCount(len(videos)))
	for _, v := range videos {
		require.NoError(t, enc.WriteVideo(v))
	}
	require.NoError(t, enc.WriteDone(videos))

	events, err := collect(t, NewDecoder(&buf, WithLogger(testLogger())))
	require.NoError(t, err)
	assert.Equal(t, []Event{
		CountEvent{Total: 2},
		VideoEvent{Video: videos[0]},
		VideoEvent{Video: videos[1]},
		DoneEvent{Videos: videos},
	}, events)
}
