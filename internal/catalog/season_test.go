package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seasonWith(titles ...string) Season {
	s := Season{SeasonNumber: 1, Title: "Season 1"}
	for _, t := range titles {
		s.Episodes = append(s.Episodes, Episode{Title: t})
	}
	s.Normalize()
	return s
}

func assertDense(t *testing.T, s Season) {
	t.Helper()
	require.Equal(t, len(s.Episodes), s.EpisodeCount, "episode_count must match episodes")
	for i, e := range s.Episodes {
		assert.Equal(t, i+1, e.EpisodeNumber, "episode %q at position %d", e.Title, i)
	}
}

func titles(s Season) []string {
	out := make([]string, len(s.Episodes))
	for i, e := range s.Episodes {
		out[i] = e.Title
	}
	return out
}

func TestSeason_InsertEpisode(t *testing.T) {
	s := seasonWith("a", "c")

	require.NoError(t, s.InsertEpisode(1, Episode{Title: "b"}))
	require.NoError(t, s.InsertEpisode(3, Episode{Title: "d"}))
	require.NoError(t, s.InsertEpisode(0, Episode{Title: "start"}))

	assert.Equal(t, []string{"start", "a", "b", "c", "d"}, titles(s))
	assertDense(t, s)
}

func TestSeason_InsertEpisode_OutOfRange(t *testing.T) {
	s := seasonWith("a")

	err := s.InsertEpisode(3, Episode{Title: "x"})
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, []string{"a"}, titles(s))
}

func TestSeason_RemoveEpisode(t *testing.T) {
	s := seasonWith("a", "b", "c")

	require.NoError(t, s.RemoveEpisode(1))
	assert.Equal(t, []string{"a", "c"}, titles(s))
	assertDense(t, s)

	assert.ErrorIs(t, s.RemoveEpisode(2), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveEpisode(-1), ErrIndexOutOfRange)
}

func TestSeason_MoveEpisode(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"to end", 1, 3, []string{"a", "c", "d", "b"}},
		{"same position", 2, 2, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seasonWith("a", "b", "c", "d")
			require.NoError(t, s.MoveEpisode(tt.from, tt.to))
			assert.Equal(t, tt.want, titles(s))
			assertDense(t, s)
		})
	}
}

func TestSeason_MoveEpisode_OutOfRange(t *testing.T) {
	s := seasonWith("a", "b")
	assert.ErrorIs(t, s.MoveEpisode(0, 2), ErrIndexOutOfRange)
	assert.Equal(t, []string{"a", "b"}, titles(s))
}

func TestSeason_Normalize_RepairsDrift(t *testing.T) {
	s := Season{
		EpisodeCount: 7,
		Episodes: []Episode{
			{EpisodeNumber: 4, Title: "a"},
			{EpisodeNumber: 4, Title: "b"},
			{EpisodeNumber: 9, Title: "c"},
		},
	}
	s.Normalize()
	assertDense(t, s)
}

func TestSeries_SeasonOps(t *testing.T) {
	s := Series{ID: "show", Title: "Show", Seasons: []Season{
		{SeasonNumber: 1}, {SeasonNumber: 2}, {SeasonNumber: 3},
	}}

	assert.Equal(t, 1, s.SeasonIndex(2))
	assert.Equal(t, -1, s.SeasonIndex(9))
	assert.Equal(t, 4, s.NextSeasonNumber())

	require.NoError(t, s.MoveSeason(2, 0))
	assert.Equal(t, 3, s.Seasons[0].SeasonNumber)
	assert.Equal(t, 0, s.SeasonIndex(3))

	require.NoError(t, s.RemoveSeason(1))
	require.Len(t, s.Seasons, 2)
	assert.Equal(t, []int{3, 2}, []int{s.Seasons[0].SeasonNumber, s.Seasons[1].SeasonNumber})

	assert.ErrorIs(t, s.RemoveSeason(5), ErrIndexOutOfRange)
	_, err := s.Season(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSeries_TagsBehaveAsSets(t *testing.T) {
	s := Series{Genres: []string{"Drama", "Drama", " "}}
	s.NormalizeTags()
	s.AddGenre("Comedy")
	s.AddGenre("Drama")
	s.AddValue("Family")
	s.AddValue("Family")

	assert.Equal(t, []string{"Drama", "Comedy"}, s.Genres)
	assert.Equal(t, []string{"Family"}, s.Values)
}

func TestImportedVideo_Episode(t *testing.T) {
	v := ImportedVideo{ID: "abc", Title: "Ep 1", URL: "https://www.youtube.com/watch?v=abc", Duration: 630, Thumbnail: "thumb", Description: "desc"}

	e := v.Episode()
	assert.Equal(t, "Ep 1", e.Title)
	assert.Equal(t, 11, e.Duration, "630s rounds to 11 minutes")
	assert.Equal(t, "thumb", e.Thumbnail)
	assert.Equal(t, "desc", e.Synopsis)
	assert.Equal(t, []Source{{Type: SourceYouTube, ID: "abc", URL: v.URL}}, e.Sources)
}

func TestSeasonTitle(t *testing.T) {
	assert.Equal(t, "Temporada 1", SeasonTitle(1))
	assert.Equal(t, "Temporada 12", SeasonTitle(12))
}
