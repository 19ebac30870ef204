// Package stats computes box-plot summaries, dominant categories, and
// least-squares trends over record buckets.
package stats

import (
	"math"
	"slices"

	"github.com/sells-group/media-explorer/internal/model"
)

// WhiskerFactor is the Tukey fence multiplier applied to the IQR.
const WhiskerFactor = 1.5

// ValueFunc selects the numeric value summarized by Compute.
type ValueFunc func(model.FlatRecord) float64

// Rating is the value selector used throughout the dashboard.
func Rating(r model.FlatRecord) float64 { return r.Rating }

// Quantile returns the p-quantile of an ascending slice using linear
// interpolation between closest ranks. It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Box is the five-number summary of a sample with whiskers clipped to the
// Tukey fences.
type Box struct {
	Min, Q1, Median, Q3, Max float64
}

// BoxOf summarizes values. The input is not modified. ok is false for an
// empty input.
func BoxOf(values []float64) (Box, bool) {
	if len(values) == 0 {
		return Box{}, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	return Box{
		Min:    math.Max(sorted[0], q1-WhiskerFactor*iqr),
		Q1:     q1,
		Median: Quantile(sorted, 0.5),
		Q3:     q3,
		Max:    math.Min(sorted[len(sorted)-1], q3+WhiskerFactor*iqr),
	}, true
}

// Mean returns the arithmetic mean, or NaN for an empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev returns the sample (n-1) standard deviation. ok is false
// when fewer than two values are given.
func SampleStdDev(values []float64) (float64, bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1)), true
}

// Compute builds the GroupStats of one non-empty bucket. ok is false for an
// empty bucket.
func Compute(key string, records []model.FlatRecord, value ValueFunc) (model.GroupStats, bool) {
	if len(records) == 0 {
		return model.GroupStats{}, false
	}
	if value == nil {
		value = Rating
	}
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = value(r)
	}
	box, _ := BoxOf(values)

	gs := model.GroupStats{
		Key:              key,
		Min:              box.Min,
		Q1:               box.Q1,
		Median:           box.Median,
		Q3:               box.Q3,
		Max:              box.Max,
		Mean:             Mean(values),
		Count:            len(records),
		DominantGenre:    DominantGenre(records),
		TypeDistribution: TypeDistribution(records),
	}
	if sd, ok := SampleStdDev(values); ok {
		gs.StdDev = &sd
	}
	return gs, true
}
