package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/media-explorer/internal/model"
)

func TestRegress_ExactLine(t *testing.T) {
	points := []Point{{1, 3}, {2, 5}, {3, 7}, {4, 9}}

	r := Regress(points)
	require.NotNil(t, r)
	assert.InDelta(t, 2.0, r.Slope, 1e-9)
	assert.InDelta(t, 1.0, r.Intercept, 1e-9)
	assert.InDelta(t, 1.0, r.R2, 1e-9)
	assert.Equal(t, 4, r.N)
}

func TestRegress_NoTrend(t *testing.T) {
	assert.Nil(t, Regress(nil))
	assert.Nil(t, Regress([]Point{{1, 2}}))
	assert.Nil(t, Regress([]Point{{3, 1}, {3, 5}, {3, 9}}), "identical x values")
}

func TestRegress_ConstantY(t *testing.T) {
	r := Regress([]Point{{1, 5}, {2, 5}, {3, 5}})
	require.NotNil(t, r)
	assert.InDelta(t, 0.0, r.Slope, 1e-9)
	assert.InDelta(t, 5.0, r.Intercept, 1e-9)
	assert.Equal(t, 1.0, r.R2)
}

func TestRegress_SkipsNonFinite(t *testing.T) {
	r := Regress([]Point{{1, 3}, {math.NaN(), 4}, {2, 5}, {3, math.Inf(1)}})
	require.NotNil(t, r)
	assert.Equal(t, 2, r.N)
	assert.InDelta(t, 2.0, r.Slope, 1e-9)
}

func TestRegress_R2InRange(t *testing.T) {
	r := Regress([]Point{{1, 9}, {2, 1}, {3, 8}, {4, 2}, {5, 7}})
	require.NotNil(t, r)
	assert.GreaterOrEqual(t, r.R2, 0.0)
	assert.LessOrEqual(t, r.R2, 1.0)
}

func TestRegressRecords(t *testing.T) {
	records := []model.FlatRecord{
		{Runtime: 90, Rating: 6},
		{Runtime: 120, Rating: 7},
		{Runtime: 150, Rating: 8},
	}
	r := RegressRecords(records, model.AttrRuntime)
	require.NotNil(t, r)
	assert.InDelta(t, 1.0/30, r.Slope, 1e-9)
	assert.InDelta(t, 3.0, r.Intercept, 1e-9)

	assert.Nil(t, RegressRecords(records, model.AttrGenre))
}
