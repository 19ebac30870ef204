package binning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/media-explorer/internal/model"
)

func ratings(values ...float64) []model.FlatRecord {
	out := make([]model.FlatRecord, len(values))
	for i, v := range values {
		out[i] = model.FlatRecord{Type: model.TitleTypeMovie, Genre: "Drama", Year: 2010, Runtime: int(v * 10), Rating: v}
	}
	return out
}

func labels(buckets []Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Label
	}
	return out
}

func total(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Records)
	}
	return n
}

func TestParseRange(t *testing.T) {
	iv, ok := ParseRange("2.75 - 4.5")
	require.True(t, ok)
	assert.Equal(t, Interval{Min: 2.75, Max: 4.5}, iv)
	assert.True(t, iv.Contains(4.5))
	assert.False(t, iv.Contains(4.51))

	_, ok = ParseRange("Action")
	assert.False(t, ok)
	_, ok = ParseRange("a - b")
	assert.False(t, ok)
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "1 - 2.75", FormatRange(1, 2.75))
	assert.Equal(t, "2010 - 2014", FormatRange(2010, 2014))
}

func TestInterval_OpenMax(t *testing.T) {
	iv := Interval{Min: 45, Max: 120, OpenMax: true}
	assert.True(t, iv.Contains(45))
	assert.False(t, iv.Contains(120))
	assert.False(t, iv.Contains(44))
}

func TestQuantileBinner_Quartiles(t *testing.T) {
	b := QuantileBinner{Attr: model.AttrRating}
	buckets := b.Group(ratings(8, 1, 7, 2, 6, 3, 5, 4))

	assert.Equal(t, []string{"1 - 2.75", "2.75 - 4.5", "4.5 - 6.25", "6.25 - 8"}, labels(buckets))
	for _, bucket := range buckets {
		assert.Len(t, bucket.Records, 2, bucket.Label)
	}
}

func TestQuantileBinner_ThresholdGoesUp(t *testing.T) {
	b := QuantileBinner{Attr: model.AttrRating}
	buckets := b.Group(ratings(1, 2, 3, 4, 5))

	require.Equal(t, []string{"1 - 2", "2 - 3", "3 - 4", "4 - 5"}, labels(buckets))
	assert.Equal(t, 2.0, buckets[1].Records[0].Rating)
	assert.Len(t, buckets[3].Records, 2)
}

func TestQuantileBinner_ConstantValues(t *testing.T) {
	b := QuantileBinner{Attr: model.AttrRating}
	buckets := b.Group(ratings(5, 5, 5))

	assert.Equal(t, []string{"5 - 5"}, labels(buckets))
	assert.Equal(t, 3, total(buckets))
}

func TestQuantileBinner_RoundsThresholds(t *testing.T) {
	th := Thresholds([]float64{1, 1.333, 2.667, 4})
	for _, v := range th {
		assert.Equal(t, round2(v), v)
	}
}

func TestSemanticBinner_Runtime(t *testing.T) {
	records := []model.FlatRecord{{Runtime: 200}, {Runtime: 30}, {Runtime: 45}, {Runtime: 119}, {Runtime: 120}}
	buckets := RuntimeSemantic().Group(records)

	assert.Equal(t, []string{"Short (< 45 min)", "Standard (45-119 min)", "Long (120-179 min)", "Epic (> 180 min)"}, labels(buckets))
	assert.Len(t, buckets[1].Records, 2)
	assert.Equal(t, 5, total(buckets))
}

func TestSemanticBinner_Rating(t *testing.T) {
	buckets := RatingSemantic().Group(ratings(5.9, 6.0, 10, 9.0))

	assert.Equal(t, []string{"Below Average (<6.0)", "Average (6.0-6.9)", "Excellent (9.0-10.0)"}, labels(buckets))
	assert.Len(t, buckets[2].Records, 2)
}

func TestGenreBinner_OtherIsLast(t *testing.T) {
	b := NewGenreBinner([]string{"Drama", "Action"})
	records := []model.FlatRecord{{Genre: "Comedy"}, {Genre: "Action"}, {Genre: "Drama"}, {Genre: "Horror"}}

	buckets := b.Group(records)
	assert.Equal(t, []string{"Drama", "Action", model.OtherLabel}, labels(buckets))
	assert.Len(t, buckets[2].Records, 2)

	assert.Equal(t, "Action", b.Label("Action"))
	assert.Equal(t, model.OtherLabel, b.Label("Comedy"))
	assert.Equal(t, []string{"Drama", "Action"}, b.Top())
}

func TestYearBinner(t *testing.T) {
	records := []model.FlatRecord{{Year: 2013}, {Year: 1999}, {Year: 2010}, {Year: 2014}}
	buckets := YearBinner{}.Group(records)

	assert.Equal(t, []string{"1995 - 1999", "2010 - 2014"}, labels(buckets))
	assert.Len(t, buckets[1].Records, 3)
	assert.Equal(t, "2015 - 2019", YearLabel(2015))
}

func TestTypeBinner_MoviesFirst(t *testing.T) {
	records := []model.FlatRecord{{Type: model.TitleTypeTVSeries}, {Type: model.TitleTypeMovie}}
	buckets := TypeBinner{}.Group(records)

	assert.Equal(t, []string{"movie", "tvSeries"}, labels(buckets))
}

func TestNewTable_Modes(t *testing.T) {
	q := NewTable(Options{})
	assert.IsType(t, QuantileBinner{}, q[model.AttrRuntime])

	s := NewTable(Options{Mode: ModeSemantic})
	assert.IsType(t, SemanticBinner{}, s[model.AttrRating])

	for _, attr := range model.HierarchyLevels {
		assert.Contains(t, q, attr)
		assert.Equal(t, attr, q[attr].Attribute())
	}
}

func TestTable_Interval(t *testing.T) {
	table := NewTable(Options{Mode: ModeSemantic})

	iv, ok := table.Interval(model.AttrRuntime, "Long (120-179 min)")
	require.True(t, ok)
	assert.Equal(t, Interval{Min: 120, Max: 180, OpenMax: true}, iv)

	iv, ok = table.Interval(model.AttrYear, "2010 - 2014")
	require.True(t, ok)
	assert.Equal(t, 2014.0, iv.Max)

	_, ok = table.Interval(model.AttrGenre, "Action")
	assert.False(t, ok)
}

func TestTable_GroupEmpty(t *testing.T) {
	table := NewTable(Options{})
	assert.Nil(t, table.Group(model.AttrRating, nil))
	assert.Nil(t, table.Group("budget", ratings(1)))
}
