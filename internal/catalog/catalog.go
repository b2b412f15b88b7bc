// Package catalog holds the series document tree and the in-memory store the editor reads from.
package catalog

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// SourceYouTube tags episode sources created by playlist imports.
const SourceYouTube = "youtube"

// Defaults written into the document follow its Spanish locale.
const (
	DefaultGenre       = "Animación"
	seasonTitlePattern = "Temporada %d"
)

// SeasonTitle is the title given to a season created by an import.
func SeasonTitle(number int) string {
	return fmt.Sprintf(seasonTitlePattern, number)
}

// Document is the top-level JSON document.
type Document struct {
	Series []Series `json:"series"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Series is one show in the catalog. ID is caller-assigned and stable.
type Series struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title,omitempty"`
	Studio        string   `json:"studio,omitempty"`
	ReleaseYear   int      `json:"release_year,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Values        []string `json:"values,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
	Images        Images   `json:"images"`
	Seasons       []Season `json:"seasons"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Images holds artwork URLs for a series.
type Images struct {
	Banner string `json:"banner"`
	Logo   string `json:"logo"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Season is an ordered run of episodes identified by SeasonNumber within its series.
type Season struct {
	SeasonNumber int       `json:"season_number"`
	Title        string    `json:"title"`
	EpisodeCount int       `json:"episode_count"`
	Episodes     []Episode `json:"episodes"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Episode is a single entry in a season. EpisodeNumber always equals position+1.
type Episode struct {
	EpisodeNumber int      `json:"episode_number"`
	Title         string   `json:"title"`
	Duration      int      `json:"duration"` // minutes
	Thumbnail     string   `json:"thumbnail,omitempty"`
	Synopsis      string   `json:"synopsis"`
	Sources       []Source `json:"sources"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Source points at where an episode can be watched.
type Source struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	URL  string `json:"url"`

	Extra map[string]json.RawMessage `json:"-"`
}

// ImportedVideo is what the extraction service returns for one playlist item.
// It is never stored directly.
type ImportedVideo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Duration    float64 `json:"duration"` // seconds
	Thumbnail   string  `json:"thumbnail"`
	Description string  `json:"description,omitempty"`
}

// Episode converts the video into an episode. The number is assigned by Normalize.
func (v ImportedVideo) Episode() Episode {
	return Episode{
		Title:     v.Title,
		Duration:  int(math.Round(v.Duration / 60)),
		Thumbnail: v.Thumbnail,
		Synopsis:  v.Description,
		Sources: []Source{{
			Type: SourceYouTube,
			ID:   v.ID,
			URL:  v.URL,
		}},
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Series: make([]Series, len(d.Series)), Extra: maps.Clone(d.Extra)}
	for i, s := range d.Series {
		out.Series[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the series. Nil and empty tag lists stay
// distinct.
func (s Series) Clone() Series {
	out := s
	out.Genres = slices.Clone(s.Genres)
	out.Values = slices.Clone(s.Values)
	out.Images.Extra = maps.Clone(s.Images.Extra)
	out.Extra = maps.Clone(s.Extra)
	out.Seasons = make([]Season, len(s.Seasons))
	for i, season := range s.Seasons {
		out.Seasons[i] = season.Clone()
	}
	return out
}

// Clone returns a deep copy of the season.
func (s Season) Clone() Season {
	out := s
	out.Extra = maps.Clone(s.Extra)
	out.Episodes = make([]Episode, len(s.Episodes))
	for i, e := range s.Episodes {
		e.Extra = maps.Clone(e.Extra)
		e.Sources = slices.Clone(e.Sources)
		for j := range e.Sources {
			e.Sources[j].Extra = maps.Clone(e.Sources[j].Extra)
		}
		out.Episodes[i] = e
	}
	return out
}

// AddGenre adds a genre if it is not already present.
func (s *Series) AddGenre(g string) { s.Genres = addToSet(s.Genres, g) }

// AddValue adds a value tag if it is not already present.
func (s *Series) AddValue(v string) { s.Values = addToSet(s.Values, v) }

// NormalizeTags removes blank and duplicate genres and values, keeping first occurrence order.
func (s *Series) NormalizeTags() {
	s.Genres = dedupe(s.Genres)
	s.Values = dedupe(s.Values)
}

func addToSet(set []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return set
	}
	for _, existing := range set {
		if existing == v {
			return set
		}
	}
	return append(set, v)
}

func dedupe(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = addToSet(out, v)
	}
	return out
}
