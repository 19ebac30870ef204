package stats

import (
	"github.com/sells-group/media-explorer/internal/model"
)

// Mode returns the most frequent key produced by fn. Ties go to the key
// encountered first. ok is false for an empty input.
func Mode[T any, K comparable](items []T, fn func(T) K) (K, bool) {
	var zero K
	if len(items) == 0 {
		return zero, false
	}
	counts := make(map[K]int)
	var order []K
	for _, it := range items {
		k := fn(it)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	best, bestCount := order[0], counts[order[0]]
	for _, k := range order[1:] {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, true
}

// DominantGenre returns the most frequent genre of a bucket.
func DominantGenre(records []model.FlatRecord) string {
	g, _ := Mode(records, func(r model.FlatRecord) string { return r.Genre })
	return g
}

// DominantType returns the most frequent title type of a bucket.
func DominantType(records []model.FlatRecord) model.TitleType {
	t, _ := Mode(records, func(r model.FlatRecord) model.TitleType { return r.Type })
	return t
}

// DominantAmong returns the most frequent genre that belongs to allowed.
// Ties go to the genre ranked earlier in allowed. ok is false when no
// record carries an allowed genre.
func DominantAmong(records []model.FlatRecord, allowed []string) (string, bool) {
	rank := make(map[string]int, len(allowed))
	for i, g := range allowed {
		rank[g] = i
	}
	counts := make([]int, len(allowed))
	for _, r := range records {
		if i, ok := rank[r.Genre]; ok {
			counts[i]++
		}
	}
	best := -1
	for i, c := range counts {
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return allowed[best], true
}

// TypeDistribution counts members per title type, movies first.
func TypeDistribution(records []model.FlatRecord) []model.TypeCount {
	counts := make(map[model.TitleType]int)
	var extra []model.TitleType
	for _, r := range records {
		if _, seen := counts[r.Type]; !seen && !r.Type.Valid() {
			extra = append(extra, r.Type)
		}
		counts[r.Type]++
	}
	var out []model.TypeCount
	for _, t := range append([]model.TitleType{model.TitleTypeMovie, model.TitleTypeTVSeries}, extra...) {
		if c := counts[t]; c > 0 {
			out = append(out, model.TypeCount{Type: t, Count: c})
		}
	}
	return out
}

// AverageRating returns the mean rating of a bucket, or 0 when empty.
func AverageRating(records []model.FlatRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Rating
	}
	return sum / float64(len(records))
}
