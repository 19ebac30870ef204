package binning

import (
	"slices"
	"sort"
	"strconv"

	"github.com/sells-group/media-explorer/internal/model"
)

// TypeBinner partitions by literal title type, movies before TV series.
type TypeBinner struct{}

func (TypeBinner) Attribute() model.Attribute { return model.AttrType }

func (TypeBinner) Group(records []model.FlatRecord) []Bucket {
	buckets := groupOrdered(records, func(r model.FlatRecord) string { return string(r.Type) })
	rank := func(label string) int {
		switch model.TitleType(label) {
		case model.TitleTypeMovie:
			return 0
		case model.TitleTypeTVSeries:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return rank(buckets[i].Label) < rank(buckets[j].Label)
	})
	return buckets
}

// GenreBinner keeps the globally top-ranked genres as their own buckets in
// rank order and collapses the rest into Other, which is always last.
type GenreBinner struct {
	top  []string
	rank map[string]int
}

// NewGenreBinner builds a genre binner over a ranked genre list.
func NewGenreBinner(top []string) GenreBinner {
	rank := make(map[string]int, len(top))
	for i, g := range top {
		rank[g] = i
	}
	return GenreBinner{top: slices.Clone(top), rank: rank}
}

func (GenreBinner) Attribute() model.Attribute { return model.AttrGenre }

// Label returns the bucket label of a genre.
func (b GenreBinner) Label(genre string) string {
	if _, ok := b.rank[genre]; ok {
		return genre
	}
	return model.OtherLabel
}

// Top returns the ranked genres that receive their own bucket.
func (b GenreBinner) Top() []string {
	return slices.Clone(b.top)
}

func (b GenreBinner) Group(records []model.FlatRecord) []Bucket {
	slots := make([][]model.FlatRecord, len(b.top))
	var other []model.FlatRecord
	for _, r := range records {
		if i, ok := b.rank[r.Genre]; ok {
			slots[i] = append(slots[i], r)
			continue
		}
		other = append(other, r)
	}
	var out []Bucket
	for i, recs := range slots {
		if len(recs) > 0 {
			out = append(out, Bucket{Label: b.top[i], Records: recs})
		}
	}
	if len(other) > 0 {
		out = append(out, Bucket{Label: model.OtherLabel, Records: other})
	}
	return out
}

// YearBinSize is the width of a year bucket.
const YearBinSize = 5

// YearBinner partitions into fixed five-year bins labeled "start - end".
type YearBinner struct{}

func (YearBinner) Attribute() model.Attribute { return model.AttrYear }

// YearStart returns the first year of the bin containing year.
func YearStart(year int) int {
	start := year / YearBinSize * YearBinSize
	if year < 0 && year%YearBinSize != 0 {
		start -= YearBinSize
	}
	return start
}

// YearLabel returns the label of the bin containing year.
func YearLabel(year int) string {
	start := YearStart(year)
	return strconv.Itoa(start) + RangeSeparator + strconv.Itoa(start+YearBinSize-1)
}

func (YearBinner) Group(records []model.FlatRecord) []Bucket {
	buckets := groupOrdered(records, func(r model.FlatRecord) string { return YearLabel(r.Year) })
	sort.SliceStable(buckets, func(i, j int) bool {
		return YearStart(buckets[i].Records[0].Year) < YearStart(buckets[j].Records[0].Year)
	})
	return buckets
}
