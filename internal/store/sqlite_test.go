package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/media-explorer/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleTitles() []model.RawTitle {
	return []model.RawTitle{
		{
			TitleType:      "movie",
			Genres:         []string{"Action", "Drama"},
			RuntimeMinutes: model.NumberOf(120),
			AverageRating:  model.NumberOf(7.5),
			StartYear:      model.NumberOf(2020),
			OriginalTitle:  "Alpha",
		},
		{
			TitleType:     "tvSeries",
			Genres:        []string{"Comedy"},
			AverageRating: model.NumberOf(8.1),
			StartYear:     model.NumberOf(2015),
			OriginalTitle: "Beta",
		},
		{
			TitleType:      "movie",
			RuntimeMinutes: model.NumberOf(95),
			OriginalTitle:  "Gamma",
		},
	}
}

func TestSQLite_SaveAndLoad(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.SaveTitles(ctx, sampleTitles())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := st.LoadTitles(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Alpha", got[0].OriginalTitle)
	assert.Equal(t, []string{"Action", "Drama"}, got[0].Genres)
	assert.Equal(t, model.NumberOf(120), got[0].RuntimeMinutes)
	assert.Equal(t, model.NumberOf(7.5), got[0].AverageRating)

	assert.Equal(t, "Beta", got[1].OriginalTitle)
	assert.False(t, got[1].RuntimeMinutes.Valid, "missing runtime stays undefined")

	assert.Equal(t, "Gamma", got[2].OriginalTitle)
	assert.Empty(t, got[2].Genres)
	assert.False(t, got[2].AverageRating.Valid)
	assert.False(t, got[2].StartYear.Valid)
}

func TestSQLite_SaveReplaces(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.SaveTitles(ctx, sampleTitles())
	require.NoError(t, err)

	_, err = st.SaveTitles(ctx, sampleTitles()[:1])
	require.NoError(t, err)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := st.LoadTitles(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].OriginalTitle)
}

func TestSQLite_LoadEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.LoadTitles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Migrate(context.Background()))
}

func TestGenresEncoding(t *testing.T) {
	s, err := encodeGenres(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	g, err := decodeGenres(`["Action","Sci-Fi"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, g)

	_, err = decodeGenres("{not json")
	assert.Error(t, err)
}
