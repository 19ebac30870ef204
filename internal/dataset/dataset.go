package dataset

import (
	"sort"

	"github.com/sells-group/media-explorer/internal/model"
)

// GenreCount is the number of flat records carrying one genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Extent is the closed numeric range of an attribute over the dataset.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Dataset is the normalized, read-only record set plus the global facts
// derived from it once at load time.
type Dataset struct {
	records []model.FlatRecord
	genres  []GenreCount
	extents map[model.Attribute]Extent
	report  NormalizeReport
}

// New derives a Dataset from already-normalized records.
func New(records []model.FlatRecord) *Dataset {
	d := &Dataset{
		records: records,
		genres:  RankGenres(records),
		extents: make(map[model.Attribute]Extent, 3),
	}
	for _, a := range []model.Attribute{model.AttrYear, model.AttrRuntime, model.AttrRating} {
		if ext, ok := ComputeExtent(records, a); ok {
			d.extents[a] = ext
		}
	}
	return d
}

// FromTitles normalizes raw titles and derives a Dataset.
func FromTitles(titles []model.RawTitle, yearCutoff int) *Dataset {
	records, report := Normalize(titles, yearCutoff)
	d := New(records)
	d.report = report
	return d
}

// Records returns the flat records. Callers must not modify the slice.
func (d *Dataset) Records() []model.FlatRecord {
	return d.records
}

// Len returns the number of flat records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Genres returns every genre ranked by descending frequency.
func (d *Dataset) Genres() []GenreCount {
	return d.genres
}

// TopGenres returns the n most frequent genre names.
func (d *Dataset) TopGenres(n int) []string {
	if n > len(d.genres) || n < 0 {
		n = len(d.genres)
	}
	out := make([]string, n)
	for i := range n {
		out[i] = d.genres[i].Genre
	}
	return out
}

// Extent returns the global range of a numeric attribute.
func (d *Dataset) Extent(a model.Attribute) (Extent, bool) {
	ext, ok := d.extents[a]
	return ext, ok
}

// Report returns the normalization outcome for datasets built from raw titles.
func (d *Dataset) Report() NormalizeReport {
	return d.report
}

// RankGenres counts records per genre, highest count first. Ties keep the
// order in which genres were first seen.
func RankGenres(records []model.FlatRecord) []GenreCount {
	index := make(map[string]int)
	var counts []GenreCount
	for _, r := range records {
		i, ok := index[r.Genre]
		if !ok {
			i = len(counts)
			index[r.Genre] = i
			counts = append(counts, GenreCount{Genre: r.Genre})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// ComputeExtent returns the min and max of a numeric attribute.
func ComputeExtent(records []model.FlatRecord, a model.Attribute) (Extent, bool) {
	var ext Extent
	found := false
	for _, r := range records {
		v, ok := r.Numeric(a)
		if !ok {
			return Extent{}, false
		}
		if !found {
			ext = Extent{Min: v, Max: v}
			found = true
			continue
		}
		if v < ext.Min {
			ext.Min = v
		}
		if v > ext.Max {
			ext.Max = v
		}
	}
	return ext, found
}
