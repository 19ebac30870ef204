// Package binning holds the per-attribute bucketing strategies shared by the
// hierarchy builder, the filter state, and the correlation view.
package binning

import (
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/media-explorer/internal/model"
)

// Mode selects how runtime and rating are bucketed.
type Mode string

const (
	// ModeQuantile splits each bucket into four quartile ranges labeled
	// "min - max".
	ModeQuantile Mode = "quantile"
	// ModeSemantic uses fixed named ranges such as "Short (< 45 min)".
	ModeSemantic Mode = "semantic"
)

// RangeSeparator separates the bounds of a range label.
const RangeSeparator = " - "

// Bucket is a group of records sharing one binned label.
type Bucket struct {
	Label   string
	Records []model.FlatRecord
}

// Binner partitions records on one attribute. Group never emits an empty
// bucket and returns buckets in display order.
type Binner interface {
	Attribute() model.Attribute
	Group(records []model.FlatRecord) []Bucket
}

// IntervalResolver is implemented by binners whose labels name numeric
// ranges that cannot be parsed from the label text.
type IntervalResolver interface {
	Interval(label string) (Interval, bool)
}

// Interval is a numeric range. Max is inclusive unless OpenMax is set.
type Interval struct {
	Min     float64
	Max     float64
	OpenMax bool
}

// Contains reports whether v lies in the interval.
func (iv Interval) Contains(v float64) bool {
	if v < iv.Min {
		return false
	}
	if iv.OpenMax {
		return v < iv.Max
	}
	return v <= iv.Max
}

// ParseRange parses a "min - max" label into a closed interval.
func ParseRange(label string) (Interval, bool) {
	lo, hi, found := strings.Cut(label, RangeSeparator)
	if !found {
		return Interval{}, false
	}
	minV, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Interval{}, false
	}
	maxV, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return Interval{}, false
	}
	return Interval{Min: minV, Max: maxV}, true
}

// FormatRange renders a closed interval as a range label.
func FormatRange(lo, hi float64) string {
	return formatBound(lo) + RangeSeparator + formatBound(hi)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// round2 rounds to two decimals so that range labels are exact.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Options configures a strategy table.
type Options struct {
	Mode Mode
	// TopGenres is the global genre ranking; genres outside it fall into
	// the Other bucket.
	TopGenres []string
}

// Table maps each hierarchy attribute to its binning strategy.
type Table map[model.Attribute]Binner

// NewTable builds the strategy table for the given options.
func NewTable(opts Options) Table {
	t := Table{
		model.AttrType:  TypeBinner{},
		model.AttrGenre: NewGenreBinner(opts.TopGenres),
		model.AttrYear:  YearBinner{},
	}
	switch opts.Mode {
	case ModeSemantic:
		t[model.AttrRuntime] = RuntimeSemantic()
		t[model.AttrRating] = RatingSemantic()
	default:
		t[model.AttrRuntime] = QuantileBinner{Attr: model.AttrRuntime}
		t[model.AttrRating] = QuantileBinner{Attr: model.AttrRating}
	}
	return t
}

// Group buckets records on attribute a. An attribute without a strategy
// yields nil.
func (t Table) Group(a model.Attribute, records []model.FlatRecord) []Bucket {
	b, ok := t[a]
	if !ok || len(records) == 0 {
		return nil
	}
	return b.Group(records)
}

// Interval resolves a range-valued label for attribute a. Labels known to
// the attribute's strategy win over parsing the label text.
func (t Table) Interval(a model.Attribute, label string) (Interval, bool) {
	if r, ok := t[a].(IntervalResolver); ok {
		if iv, ok := r.Interval(label); ok {
			return iv, true
		}
	}
	return ParseRange(label)
}

// groupOrdered partitions records by key, keeping first-seen key order.
func groupOrdered(records []model.FlatRecord, key func(model.FlatRecord) string) []Bucket {
	index := make(map[string]int)
	var out []Bucket
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Bucket{Label: k})
		}
		out[i].Records = append(out[i].Records, r)
	}
	return out
}
