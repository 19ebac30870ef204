package binning

import (
	"slices"
	"sort"

	"github.com/sells-group/media-explorer/internal/model"
	"github.com/sells-group/media-explorer/internal/stats"
)

// Quartiles is the number of quantile buckets.
const Quartiles = 4

// QuantileBinner splits records into quartile ranges computed over the
// records being grouped, so labels differ between subtrees. Thresholds are
// rounded to two decimals; a value equal to a threshold belongs to the
// upper bucket. Buckets are labeled "min - max" and ordered by min.
type QuantileBinner struct {
	Attr model.Attribute
}

func (b QuantileBinner) Attribute() model.Attribute { return b.Attr }

// Thresholds returns the rounded inner quartile boundaries of values.
func Thresholds(values []float64) []float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	out := make([]float64, Quartiles-1)
	for i := range out {
		out[i] = round2(stats.Quantile(sorted, float64(i+1)/Quartiles))
	}
	return out
}

func (b QuantileBinner) Group(records []model.FlatRecord) []Bucket {
	if len(records) == 0 {
		return nil
	}
	values := make([]float64, len(records))
	for i, r := range records {
		values[i], _ = r.Numeric(b.Attr)
	}
	thresholds := Thresholds(values)
	lo, hi := slices.Min(values), slices.Max(values)

	extent := func(i int) (float64, float64) {
		from, to := lo, hi
		if i > 0 {
			from = thresholds[i-1]
		}
		if i < len(thresholds) {
			to = thresholds[i]
		}
		return from, to
	}

	type slot struct {
		min, max float64
		bucket   Bucket
	}
	index := make(map[string]int)
	var slots []slot
	for i, r := range records {
		q := sort.Search(len(thresholds), func(k int) bool { return thresholds[k] > values[i] })
		from, to := extent(q)
		label := FormatRange(from, to)
		j, ok := index[label]
		if !ok {
			j = len(slots)
			index[label] = j
			slots = append(slots, slot{min: from, max: to, bucket: Bucket{Label: label}})
		}
		slots[j].bucket.Records = append(slots[j].bucket.Records, r)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].min != slots[j].min {
			return slots[i].min < slots[j].min
		}
		return slots[i].max < slots[j].max
	})
	out := make([]Bucket, len(slots))
	for i, s := range slots {
		out[i] = s.bucket
	}
	return out
}

// SemanticBin is one named range.
type SemanticBin struct {
	Label    string
	Interval Interval
}

// SemanticBinner buckets a numeric attribute into fixed named ranges,
// ordered as listed. Values outside every range fall into the nearest bin.
type SemanticBinner struct {
	Attr model.Attribute
	Bins []SemanticBin
}

// RuntimeSemantic returns the named runtime ranges.
func RuntimeSemantic() SemanticBinner {
	return SemanticBinner{Attr: model.AttrRuntime, Bins: []SemanticBin{
		{Label: "Short (< 45 min)", Interval: Interval{Min: 0, Max: 45, OpenMax: true}},
		{Label: "Standard (45-119 min)", Interval: Interval{Min: 45, Max: 120, OpenMax: true}},
		{Label: "Long (120-179 min)", Interval: Interval{Min: 120, Max: 180, OpenMax: true}},
		{Label: "Epic (> 180 min)", Interval: Interval{Min: 180, Max: 1e9}},
	}}
}

// RatingSemantic returns the named rating ranges.
func RatingSemantic() SemanticBinner {
	return SemanticBinner{Attr: model.AttrRating, Bins: []SemanticBin{
		{Label: "Below Average (<6.0)", Interval: Interval{Min: 0, Max: 6, OpenMax: true}},
		{Label: "Average (6.0-6.9)", Interval: Interval{Min: 6, Max: 7, OpenMax: true}},
		{Label: "Good (7.0-7.9)", Interval: Interval{Min: 7, Max: 8, OpenMax: true}},
		{Label: "Great (8.0-8.9)", Interval: Interval{Min: 8, Max: 9, OpenMax: true}},
		{Label: "Excellent (9.0-10.0)", Interval: Interval{Min: 9, Max: 10}},
	}}
}

func (b SemanticBinner) Attribute() model.Attribute { return b.Attr }

// Interval implements IntervalResolver.
func (b SemanticBinner) Interval(label string) (Interval, bool) {
	for _, bin := range b.Bins {
		if bin.Label == label {
			return bin.Interval, true
		}
	}
	return Interval{}, false
}

// binIndex returns the bin holding v.
func (b SemanticBinner) binIndex(v float64) int {
	last := 0
	for i, bin := range b.Bins {
		if bin.Interval.Contains(v) {
			return i
		}
		if v >= bin.Interval.Min {
			last = i
		}
	}
	return last
}

func (b SemanticBinner) Group(records []model.FlatRecord) []Bucket {
	slots := make([][]model.FlatRecord, len(b.Bins))
	for _, r := range records {
		v, _ := r.Numeric(b.Attr)
		i := b.binIndex(v)
		slots[i] = append(slots[i], r)
	}
	var out []Bucket
	for i, recs := range slots {
		if len(recs) > 0 {
			out = append(out, Bucket{Label: b.Bins[i].Label, Records: recs})
		}
	}
	return out
}
