package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "series.json"))

	doc, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Series)
	assert.NotNil(t, doc.Series)
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "series.json")
	fs := NewFileStore(path)

	doc := &Document{Series: []Series{{
		ID:     "la-familia",
		Title:  "La Familia Pérez & Cía",
		Genres: []string{"Animación"},
		Images: Images{Logo: "https://example.com/logo.png?a=1&b=2"},
		Seasons: []Season{{
			SeasonNumber: 1, Title: "Temporada 1", EpisodeCount: 1,
			Episodes: []Episode{{EpisodeNumber: 1, Title: "Capítulo 1", Duration: 12, Sources: []Source{{Type: SourceYouTube, ID: "x", URL: "u"}}}},
		}},
	}}}
	require.NoError(t, fs.Save(doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Pérez & Cía", "non-ASCII and & are kept verbatim")
	assert.Contains(t, string(raw), "?a=1&b=2")
	assert.Contains(t, string(raw), "\n    \"series\"", "four-space indentation")

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestFileStore_LoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(filepath.Join(dir, "series.json"))
	require.NoError(t, fs.Save(&Document{Series: []Series{}}))
	require.NoError(t, fs.Save(&Document{Series: []Series{}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "series.json", entries[0].Name())
}

const foreignDoc = `{
    "series": [
        {
            "id": "a",
            "title": "Pocoyó",
            "studio": "",
            "genres": [],
            "values": [],
            "age_rating": "TP",
            "images": {"banner": "b.jpg", "logo": "", "square": "s.jpg"},
            "seasons": [
                {
                    "season_number": 1,
                    "title": "Temporada 1",
                    "episode_count": 1,
                    "poster": "p.jpg",
                    "episodes": [
                        {
                            "episode_number": 1,
                            "title": "Uno",
                            "duration": 7,
                            "thumbnail": "",
                            "synopsis": "",
                            "watched": false,
                            "sources": [{"type": "youtube", "id": "x", "url": "u", "lang": "es"}]
                        }
                    ]
                }
            ]
        }
    ],
    "updated_by": {"app": "series-viewer", "version": 3}
}`

func TestFileStore_KeepsForeignMembers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.json")
	require.NoError(t, os.WriteFile(path, []byte(foreignDoc), 0644))
	fs := NewFileStore(path)

	doc, err := fs.Load()
	require.NoError(t, err)
	require.NoError(t, fs.Save(doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, foreignDoc, string(raw))
}

func TestEncode_ForeignMembersSurviveEdits(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(foreignDoc), &doc))

	store := NewStore(doc)
	require.NoError(t, store.UpdateSeries("a", func(s *Series) error {
		s.Studio = "Zinkia"
		s.AddGenre("Infantil")
		s.Seasons[0].Title = "Primera"
		return nil
	}))
	snap := store.Snapshot()
	data, err := Encode(&snap)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	series := got["series"].([]any)[0].(map[string]any)
	assert.Equal(t, "Zinkia", series["studio"], "edited value replaces the kept empty one")
	assert.Equal(t, []any{"Infantil"}, series["genres"])
	assert.Equal(t, []any{}, series["values"])
	assert.Equal(t, "TP", series["age_rating"])
	season := series["seasons"].([]any)[0].(map[string]any)
	assert.Equal(t, "Primera", season["title"])
	assert.Equal(t, "p.jpg", season["poster"])
	assert.Contains(t, got, "updated_by")
	assert.Equal(t, 1, strings.Count(string(data), `"studio"`))
}

func TestSeries_CloneKeepsExtraAndEmptyTags(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(foreignDoc), &doc))
	orig := doc.Series[0]

	c := orig.Clone()
	assert.NotNil(t, c.Values)
	assert.Empty(t, c.Values)
	assert.Equal(t, orig.Extra, c.Extra)

	c.Extra["age_rating"] = json.RawMessage(`"+7"`)
	c.Seasons[0].Extra["poster"] = json.RawMessage(`"q.jpg"`)
	c.Seasons[0].Episodes[0].Sources[0].Extra["lang"] = json.RawMessage(`"en"`)
	assert.JSONEq(t, `"TP"`, string(orig.Extra["age_rating"]))
	assert.JSONEq(t, `"p.jpg"`, string(orig.Seasons[0].Extra["poster"]))
	assert.JSONEq(t, `"es"`, string(orig.Seasons[0].Episodes[0].Sources[0].Extra["lang"]))
}

func TestDocument_NoExtraForModelledMembers(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"series":[{"id":"a","title":"A","images":{"banner":"","logo":""},"seasons":[]}]}`), &doc))
	assert.Nil(t, doc.Extra)
	assert.Nil(t, doc.Series[0].Extra)
	assert.Nil(t, doc.Series[0].Images.Extra)
}
