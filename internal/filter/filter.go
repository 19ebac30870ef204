// Package filter holds the drill-down path state and turns it into record
// predicates.
package filter

import (
	"github.com/sells-group/media-explorer/internal/binning"
	"github.com/sells-group/media-explorer/internal/model"
)

// Kind is how a path segment constrains its attribute.
type Kind string

const (
	// KindBypass leaves the level unconstrained (sentinel labels).
	KindBypass Kind = "bypass"
	// KindRange keeps records whose value falls in an interval.
	KindRange Kind = "range"
	// KindEquality keeps records whose value equals the label.
	KindEquality Kind = "equality"
)

// Predicate is the compiled constraint of one path segment.
type Predicate struct {
	Attribute model.Attribute
	Value     string
	Kind      Kind
	Interval  binning.Interval
}

// Match reports whether r satisfies the predicate.
func (p Predicate) Match(r model.FlatRecord) bool {
	switch p.Kind {
	case KindBypass:
		return true
	case KindRange:
		v, ok := r.Numeric(p.Attribute)
		return ok && p.Interval.Contains(v)
	default:
		v, ok := r.Field(p.Attribute)
		return ok && v == p.Value
	}
}

// Compile turns a path into predicates, one per segment that has a level.
// Segments past the last level are ignored. Sentinel labels ("Other",
// "Media") bypass their level. Range labels, either "min - max" or a name
// known to the level's binner, become interval tests; every other label is
// an equality test against the field's string form.
func Compile(table binning.Table, levels []model.Attribute, path model.FilterPath) []Predicate {
	out := make([]Predicate, 0, len(path))
	for i, seg := range path {
		if i >= len(levels) {
			break
		}
		attr := levels[i]
		p := Predicate{Attribute: attr, Value: seg, Kind: KindEquality}
		switch {
		case model.IsSentinel(seg):
			p.Kind = KindBypass
		default:
			if iv, ok := table.Interval(attr, seg); ok {
				p.Kind = KindRange
				p.Interval = iv
			}
		}
		out = append(out, p)
	}
	return out
}

// Apply returns the records that satisfy every predicate. The input slice
// is not modified.
func Apply(records []model.FlatRecord, preds []Predicate) []model.FlatRecord {
	out := make([]model.FlatRecord, 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if !p.Match(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// ActiveAttribute returns the first level not constrained by a path of the
// given length, or the last level once the path is exhausted.
func ActiveAttribute(levels []model.Attribute, depth int) model.Attribute {
	if len(levels) == 0 {
		return model.AttrRating
	}
	if depth < 0 {
		depth = 0
	}
	if depth >= len(levels) {
		return levels[len(levels)-1]
	}
	return levels[depth]
}
