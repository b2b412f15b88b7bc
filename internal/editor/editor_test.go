package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/client"
	"github.com/vmunix/seasonarr/internal/editor/mocks"
	"github.com/vmunix/seasonarr/internal/prefs"
)

type notice struct {
	Level Level
	Msg   string
}

// recorder collects notices.
type recorder struct {
	mu      sync.Mutex
	notices []notice
}

func (r *recorder) Notify(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{level, msg})
}

func (r *recorder) last() notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *recorder) errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notices {
		if n.Level == LevelError {
			out = append(out, n.Msg)
		}
	}
	return out
}

type fixture struct {
	ed      *Editor
	backend *mocks.MockBackend
	prefs   *prefs.MemoryStore
	notes   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		backend: mocks.NewMockBackend(ctrl),
		prefs:   prefs.NewMemoryStore(),
		notes:   &recorder{},
	}
	f.ed = New(f.backend, Options{
		Prefs:    f.prefs,
		Notifier: f.notes,
		Now:      func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) },
	})
	return f
}

func testDoc() *catalog.Document {
	ep := func(title string) catalog.Episode {
		return catalog.Episode{Title: title, Duration: 20, Sources: []catalog.Source{}}
	}
	return &catalog.Document{Series: []catalog.Series{
		{
			ID:    "bluey",
			Title: "Bluey",
			Seasons: []catalog.Season{
				{SeasonNumber: 1, Title: "Season 1", Episodes: []catalog.Episode{ep("One"), ep("Two"), ep("Three")}},
				{SeasonNumber: 2, Title: "Season 2", Episodes: []catalog.Episode{ep("Four")}},
				{SeasonNumber: 3, Title: "Season 3", Episodes: []catalog.Episode{}},
			},
		},
		{ID: "peppa", Title: "Peppa Pig", Seasons: []catalog.Season{}},
	}}
}

// loaded returns a fixture whose editor has testDoc loaded.
func loaded(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.backend.EXPECT().Collection(gomock.Any()).Return(testDoc(), nil)
	require.NoError(t, f.ed.Load(context.Background()))
	return f
}

func TestLoad_RestoresSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.prefs.Set(ctx, KeyCurrentSeries, "bluey"))
	require.NoError(t, f.prefs.Set(ctx, "open_seasons/bluey", "[2,0]"))
	f.backend.EXPECT().Collection(gomock.Any()).Return(testDoc(), nil)

	require.NoError(t, f.ed.Load(ctx))

	cur, ok := f.ed.Current()
	require.True(t, ok)
	assert.Equal(t, "bluey", cur.ID)
	assert.Equal(t, []int{0, 2}, f.ed.ExpandedSeasons())
	assert.False(t, f.ed.Dirty())
	assert.Equal(t, LevelSuccess, f.notes.last().Level)
}

func TestLoad_StaleSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.prefs.Set(ctx, KeyCurrentSeries, "gone"))
	f.backend.EXPECT().Collection(gomock.Any()).Return(testDoc(), nil)

	require.NoError(t, f.ed.Load(ctx))

	_, ok := f.ed.Current()
	assert.False(t, ok)
	assert.Empty(t, f.ed.ExpandedSeasons())
}

func TestLoad_MalformedExpandedIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.prefs.Set(ctx, KeyCurrentSeries, "bluey"))
	require.NoError(t, f.prefs.Set(ctx, "open_seasons/bluey", "not json"))
	f.backend.EXPECT().Collection(gomock.Any()).Return(testDoc(), nil)

	require.NoError(t, f.ed.Load(ctx))
	assert.Empty(t, f.ed.ExpandedSeasons())
}

func TestLoad_Error(t *testing.T) {
	f := newFixture(t)
	f.backend.EXPECT().Collection(gomock.Any()).Return(nil, errors.New("connection refused"))

	err := f.ed.Load(context.Background())
	require.Error(t, err)
	assert.Len(t, f.notes.errors(), 1)
	assert.Empty(t, f.ed.Store().List())
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)

	series, err := f.ed.Select(ctx, "Peppa Pig")
	require.NoError(t, err)
	assert.Equal(t, "peppa", series.ID)

	saved, ok, err := f.prefs.Get(ctx, KeyCurrentSeries)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "peppa", saved)

	_, err = f.ed.Select(ctx, "blue")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestToggleSeason(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)

	_, err := f.ed.ToggleSeason(ctx, 0)
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = f.ed.Select(ctx, "bluey")
	require.NoError(t, err)

	open, err := f.ed.ToggleSeason(ctx, 1)
	require.NoError(t, err)
	assert.True(t, open)
	open, err = f.ed.ToggleSeason(ctx, 0)
	require.NoError(t, err)
	assert.True(t, open)
	open, err = f.ed.ToggleSeason(ctx, 1)
	require.NoError(t, err)
	assert.False(t, open)

	assert.Equal(t, []int{0}, f.ed.ExpandedSeasons())
	saved, _, _ := f.prefs.Get(ctx, "open_seasons/bluey")
	assert.Equal(t, "[0]", saved)

	_, err = f.ed.ToggleSeason(ctx, 9)
	assert.ErrorIs(t, err, catalog.ErrIndexOutOfRange)

	// Expanded state is per series.
	_, err = f.ed.Select(ctx, "peppa")
	require.NoError(t, err)
	assert.Empty(t, f.ed.ExpandedSeasons())
	_, err = f.ed.Select(ctx, "bluey")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, f.ed.ExpandedSeasons())
}

func TestUpdateSeriesField(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)
	assert.ErrorIs(t, f.ed.UpdateSeriesField("title", "x"), ErrNoSelection)

	_, err := f.ed.Select(ctx, "bluey")
	require.NoError(t, err)

	for _, kv := range [][2]string{
		{"title", "  Bluey!  "},
		{"original_title", "Bluey"},
		{"studio", "Ludo"},
		{"synopsis", "Dogs."},
		{"release_year", "2018"},
		{"banner", "https://b"},
		{"logo", "https://l"},
	} {
		require.NoError(t, f.ed.UpdateSeriesField(kv[0], kv[1]), kv[0])
	}

	cur, _ := f.ed.Current()
	assert.Equal(t, "Bluey!", cur.Title)
	assert.Equal(t, "Ludo", cur.Studio)
	assert.Equal(t, 2018, cur.ReleaseYear)
	assert.Equal(t, catalog.Images{Banner: "https://b", Logo: "https://l"}, cur.Images)
	assert.True(t, f.ed.Dirty())
	assert.Equal(t, notice{LevelInfo, "logo updated"}, f.notes.last())

	assert.ErrorIs(t, f.ed.UpdateSeriesField("seasons", "x"), ErrUnknownField)
	assert.ErrorIs(t, f.ed.UpdateSeriesField("release_year", "soon"), catalog.ErrInvalid)
}

func TestEditSeasonAndEpisode(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)
	_, err := f.ed.Select(ctx, "bluey")
	require.NoError(t, err)

	require.NoError(t, f.ed.UpdateSeasonTitle(1, "  Second  "))
	require.NoError(t, f.ed.EditEpisode(0, 2, "Drei", "third"))
	assert.ErrorIs(t, f.ed.EditEpisode(0, 3, "x", ""), catalog.ErrIndexOutOfRange)
	assert.ErrorIs(t, f.ed.UpdateSeasonTitle(5, "x"), catalog.ErrIndexOutOfRange)

	cur, _ := f.ed.Current()
	assert.Equal(t, "Second", cur.Seasons[1].Title)
	assert.Equal(t, "Drei", cur.Seasons[0].Episodes[2].Title)
	assert.Equal(t, "third", cur.Seasons[0].Episodes[2].Synopsis)
}

func TestDeleteAndMoveEpisodes(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)
	_, err := f.ed.Select(ctx, "bluey")
	require.NoError(t, err)

	require.NoError(t, f.ed.MoveEpisode(0, 2, 0))
	require.NoError(t, f.ed.DeleteEpisode(0, 1))

	cur, _ := f.ed.Current()
	season := cur.Seasons[0]
	require.Len(t, season.Episodes, 2)
	assert.Equal(t, 2, season.EpisodeCount)
	assert.Equal(t, "Three", season.Episodes[0].Title)
	assert.Equal(t, "Two", season.Episodes[1].Title)
	for i, ep := range season.Episodes {
		assert.Equal(t, i+1, ep.EpisodeNumber)
	}

	assert.ErrorIs(t, f.ed.DeleteEpisode(0, 5), catalog.ErrIndexOutOfRange)
	assert.ErrorIs(t, f.ed.MoveEpisode(7, 0, 1), catalog.ErrIndexOutOfRange)
}

func TestDeleteSeason_RemapsExpanded(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)
	_, err := f.ed.Select(ctx, "bluey")
	require.NoError(t, err)
	for _, i := range []int{0, 2} {
		_, err := f.ed.ToggleSeason(ctx, i)
		require.NoError(t, err)
	}

	require.NoError(t, f.ed.DeleteSeason(ctx, 0))

	cur, _ := f.ed.Current()
	require.Len(t, cur.Seasons, 2)
	assert.Equal(t, 2, cur.Seasons[0].SeasonNumber)
	assert.Equal(t, []int{1}, f.ed.ExpandedSeasons(), "season 3 moved from index 2 to 1")

	saved, _, _ := f.prefs.Get(ctx, "open_seasons/bluey")
	assert.Equal(t, "[1]", saved)
}

func TestMoveSeason_RemapsExpanded(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)
	_, err := f.ed.Select(ctx, "bluey")
	require.NoError(t, err)
	_, err = f.ed.ToggleSeason(ctx, 0)
	require.NoError(t, err)

	require.NoError(t, f.ed.MoveSeason(ctx, 0, 2))

	cur, _ := f.ed.Current()
	numbers := []int{cur.Seasons[0].SeasonNumber, cur.Seasons[1].SeasonNumber, cur.Seasons[2].SeasonNumber}
	assert.Equal(t, []int{2, 3, 1}, numbers, "season numbers move with their seasons")
	assert.Equal(t, []int{2}, f.ed.ExpandedSeasons())

	assert.ErrorIs(t, f.ed.MoveSeason(ctx, 0, 3), catalog.ErrIndexOutOfRange)
}

func TestCreateSeries(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)

	series, err := f.ed.CreateSeries(ctx, catalog.Series{ID: " new ", Title: " New Show "})
	require.NoError(t, err)

	assert.Equal(t, "new", series.ID)
	assert.Equal(t, "New Show", series.OriginalTitle)
	assert.Equal(t, 2024, series.ReleaseYear)
	assert.Equal(t, []string{DefaultGenre}, series.Genres)
	assert.Empty(t, series.Values)
	assert.Empty(t, series.Seasons)

	cur, ok := f.ed.Current()
	require.True(t, ok)
	assert.Equal(t, "new", cur.ID, "new series is selected")
	assert.True(t, f.ed.Dirty())
}

func TestCreateSeries_KeepsGivenFields(t *testing.T) {
	f := loaded(t)

	series, err := f.ed.CreateSeries(context.Background(), catalog.Series{
		ID: "x", Title: "X", OriginalTitle: "Ex", ReleaseYear: 1999,
		Genres: []string{"Comedy", "Comedy", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ex", series.OriginalTitle)
	assert.Equal(t, 1999, series.ReleaseYear)
	assert.Equal(t, []string{"Comedy"}, series.Genres)
}

func TestCreateSeries_Rejects(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)

	_, err := f.ed.CreateSeries(ctx, catalog.Series{ID: "", Title: "T"})
	assert.ErrorIs(t, err, catalog.ErrInvalid)
	_, err = f.ed.CreateSeries(ctx, catalog.Series{ID: "id", Title: "   "})
	assert.ErrorIs(t, err, catalog.ErrInvalid)
	_, err = f.ed.CreateSeries(ctx, catalog.Series{ID: "bluey", Title: "Again"})
	assert.ErrorIs(t, err, catalog.ErrDuplicate)

	assert.Len(t, f.ed.Store().List(), 2)
	assert.Len(t, f.notes.errors(), 3)
}

func TestDraftFromSource(t *testing.T) {
	f := newFixture(t)
	f.backend.EXPECT().SourceInfo(gomock.Any(), "https://example.com/@chan").
		Return(client.SourceInfo{Title: "Canción Niños TV", Thumbnail: "https://img"}, nil)

	draft, err := f.ed.DraftFromSource(context.Background(), "https://example.com/@chan")
	require.NoError(t, err)
	assert.Equal(t, "cancion-ninos-tv", draft.ID)
	assert.Equal(t, "Canción Niños TV", draft.Title)
	assert.Equal(t, "https://img", draft.Images.Logo)

	_, err = f.ed.DraftFromSource(context.Background(), " ")
	assert.ErrorIs(t, err, ErrURLRequired)
}

func TestDraftFromSource_Error(t *testing.T) {
	f := newFixture(t)
	f.backend.EXPECT().SourceInfo(gomock.Any(), gomock.Any()).Return(client.SourceInfo{}, errors.New("boom"))

	_, err := f.ed.DraftFromSource(context.Background(), "https://example.com/@chan")
	require.Error(t, err)
	assert.Equal(t, LevelError, f.notes.last().Level)
}

func TestSuggestSeasonNumber(t *testing.T) {
	f := loaded(t)
	assert.Equal(t, 4, f.ed.SuggestSeasonNumber("bluey"))
	assert.Equal(t, 1, f.ed.SuggestSeasonNumber("peppa"))
	assert.Equal(t, 1, f.ed.SuggestSeasonNumber("missing"))
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)
	_, err := f.ed.Select(ctx, "bluey")
	require.NoError(t, err)
	require.NoError(t, f.ed.UpdateSeriesField("studio", "Ludo"))
	require.True(t, f.ed.Dirty())

	f.backend.EXPECT().SaveCollection(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *catalog.Document) error {
			assert.Equal(t, "Ludo", doc.Series[0].Studio)
			return nil
		})

	require.NoError(t, f.ed.Save(ctx))
	assert.False(t, f.ed.Dirty())
}

func TestSave_ErrorKeepsDirty(t *testing.T) {
	ctx := context.Background()
	f := loaded(t)
	_, err := f.ed.Select(ctx, "bluey")
	require.NoError(t, err)
	require.NoError(t, f.ed.UpdateSeriesField("studio", "Ludo"))
	f.backend.EXPECT().SaveCollection(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	require.Error(t, f.ed.Save(ctx))
	assert.True(t, f.ed.Dirty())
	assert.Contains(t, f.notes.last().Msg, "disk full")
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My Show", "my-show"},
		{"  Leading   and trailing  ", "leading-and-trailing"},
		{"Animación", "animacion"},
		{"Tom & Jerry", "tom--jerry"},
		{"already-slugged", "already-slugged"},
		{"Season 2: Return!", "season-2-return"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}
