// Package dataset loads the media-titles document and flattens it into
// per-genre records.
package dataset

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/media-explorer/internal/model"
)

// DefaultYearCutoff is the latest start year kept by the normalizer.
const DefaultYearCutoff = 2024

// DropReason explains why a raw title was discarded.
type DropReason string

const (
	DropType    DropReason = "type"
	DropGenres  DropReason = "genres"
	DropRuntime DropReason = "runtime"
	DropRating  DropReason = "rating"
	DropYear    DropReason = "year"
)

// NormalizeReport counts the outcome of one normalization pass.
type NormalizeReport struct {
	Titles  int
	Kept    int
	Records int
	Dropped map[DropReason]int
}

// Normalize flattens raw titles into one record per (title, genre) pair.
// Incomplete or out-of-range titles are dropped silently; the report says
// how many and why.
func Normalize(titles []model.RawTitle, yearCutoff int) ([]model.FlatRecord, NormalizeReport) {
	if yearCutoff == 0 {
		yearCutoff = DefaultYearCutoff
	}
	report := NormalizeReport{Titles: len(titles), Dropped: make(map[DropReason]int)}
	records := make([]model.FlatRecord, 0, len(titles))

	for _, t := range titles {
		if reason, ok := check(t, yearCutoff); !ok {
			report.Dropped[reason]++
			continue
		}
		kept := 0
		for _, g := range t.Genres {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			records = append(records, model.FlatRecord{
				Type:    model.TitleType(t.TitleType),
				Genre:   g,
				Year:    int(t.StartYear.Value),
				Runtime: int(t.RuntimeMinutes.Value),
				Rating:  t.AverageRating.Value,
				Title:   t.OriginalTitle,
			})
			kept++
		}
		if kept == 0 {
			report.Dropped[DropGenres]++
			continue
		}
		report.Kept++
		report.Records += kept
	}

	if len(report.Dropped) > 0 {
		zap.L().Debug("dataset: dropped incomplete titles",
			zap.Int("titles", report.Titles),
			zap.Int("kept", report.Kept),
			zap.Any("dropped", report.Dropped),
		)
	}
	return records, report
}

// check applies the inclusion predicates. Zero runtime, rating, and year
// count as undefined.
func check(t model.RawTitle, yearCutoff int) (DropReason, bool) {
	if !model.TitleType(t.TitleType).Valid() {
		return DropType, false
	}
	if len(t.Genres) == 0 {
		return DropGenres, false
	}
	if !defined(t.RuntimeMinutes) || t.RuntimeMinutes.Value <= 0 {
		return DropRuntime, false
	}
	if !defined(t.AverageRating) || t.AverageRating.Value <= 0 || t.AverageRating.Value > 10 {
		return DropRating, false
	}
	if !defined(t.StartYear) || t.StartYear.Value <= 0 || int(t.StartYear.Value) > yearCutoff {
		return DropYear, false
	}
	return "", true
}

func defined(n model.Number) bool {
	return n.Valid && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0)
}

// Denormalize turns flat records back into single-genre raw titles.
func Denormalize(records []model.FlatRecord) []model.RawTitle {
	out := make([]model.RawTitle, 0, len(records))
	for _, r := range records {
		out = append(out, model.RawTitle{
			TitleType:      string(r.Type),
			Genres:         []string{r.Genre},
			RuntimeMinutes: model.NumberOf(float64(r.Runtime)),
			AverageRating:  model.NumberOf(r.Rating),
			StartYear:      model.NumberOf(float64(r.Year)),
			OriginalTitle:  r.Title,
		})
	}
	return out
}
