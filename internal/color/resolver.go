// Package color maps records and tree nodes to stable visual category keys.
package color

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/sells-group/media-explorer/internal/dataset"
	"github.com/sells-group/media-explorer/internal/model"
	"github.com/sells-group/media-explorer/internal/stats"
)

// Tableau10 is the categorical palette assigned to palette genres in rank order.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// NeutralHex is used for items whose genre has no palette entry.
const NeutralHex = "#cccccc"

// Lightness tiers by title type.
const (
	LightnessMovie    = 0.5
	LightnessTVSeries = 0.75
)

// Saturation settings.
const (
	DefaultSaturation = 0.8
	MinSaturation     = 0.3
	MaxSaturation     = 1.0
)

// Tier is the lightness tier of a key.
type Tier string

const (
	TierDark  Tier = "dark"
	TierLight Tier = "light"
)

// Key is the resolved visual category of an item.
type Key struct {
	// Hue is the palette genre, or empty for the neutral colour.
	Hue        string  `json:"hue"`
	Tier       Tier    `json:"tier"`
	Saturation float64 `json:"saturation"`
	Hex        string  `json:"hex"`
}

// Neutral reports whether the key fell back to the neutral colour.
func (k Key) Neutral() bool { return k.Hue == "" }

func (k Key) String() string {
	if k.Neutral() {
		return "neutral"
	}
	return fmt.Sprintf("%s/%s/%.2f", k.Hue, k.Tier, k.Saturation)
}

// Subject is what the resolver needs to know about a record or node.
type Subject struct {
	// Genre is the item's own genre, or the genre bucket it sits under.
	Genre         string
	DominantGenre string
	Type          model.TitleType
	// Values holds numeric attributes of individual titles. Aggregates
	// leave it empty.
	Values map[model.Attribute]float64
}

// RecordSubject describes a flat record.
func RecordSubject(r model.FlatRecord) Subject {
	return Subject{
		Genre: r.Genre,
		Type:  r.Type,
		Values: map[model.Attribute]float64{
			model.AttrYear:    float64(r.Year),
			model.AttrRuntime: float64(r.Runtime),
			model.AttrRating:  r.Rating,
		},
	}
}

// NodeSubject describes a tree node given its ancestors, root first.
func NodeSubject(n *model.HierarchyNode, ancestors []*model.HierarchyNode) Subject {
	if n.Record != nil {
		return RecordSubject(*n.Record)
	}
	s := Subject{DominantGenre: n.DominantGenre, Type: n.DominantType}
	for _, a := range append(ancestors[:len(ancestors):len(ancestors)], n) {
		switch a.Attribute {
		case model.AttrGenre:
			if !model.IsSentinel(a.Name) {
				s.Genre = a.Name
			}
		case model.AttrType:
			s.Type = model.TitleType(a.Name)
		}
	}
	return s
}

type scale struct {
	lo, hi float64
}

func (s scale) at(v float64) float64 {
	if s.hi <= s.lo {
		return MaxSaturation
	}
	t := (v - s.lo) / (s.hi - s.lo)
	t = max(0, min(1, t))
	return MinSaturation + t*(MaxSaturation-MinSaturation)
}

// Resolver is a pure function of the dataset it was built from.
type Resolver struct {
	palette        []string
	base           map[string]colorful.Color
	dominantByType map[model.TitleType]string
	scales         map[model.Attribute]scale
}

// NewResolver builds a resolver whose palette is the given genres, at most
// len(Tableau10) of them.
func NewResolver(ds *dataset.Dataset, paletteGenres []string) *Resolver {
	if len(paletteGenres) > len(Tableau10) {
		paletteGenres = paletteGenres[:len(Tableau10)]
	}
	r := &Resolver{
		palette:        append([]string(nil), paletteGenres...),
		base:           make(map[string]colorful.Color, len(paletteGenres)),
		dominantByType: make(map[model.TitleType]string),
		scales: map[model.Attribute]scale{
			model.AttrRating: {lo: 1, hi: 10},
		},
	}
	for i, g := range r.palette {
		c, _ := colorful.Hex(Tableau10[i])
		r.base[g] = c
	}
	for _, a := range []model.Attribute{model.AttrYear, model.AttrRuntime} {
		if ext, ok := ds.Extent(a); ok {
			r.scales[a] = scale{lo: ext.Min, hi: ext.Max}
		}
	}

	byType := make(map[model.TitleType][]model.FlatRecord)
	for _, rec := range ds.Records() {
		byType[rec.Type] = append(byType[rec.Type], rec)
	}
	for t, recs := range byType {
		if g, ok := stats.DominantAmong(recs, r.palette); ok {
			r.dominantByType[t] = g
		} else if len(r.palette) > 0 {
			r.dominantByType[t] = r.palette[0]
		}
	}
	return r
}

// Palette returns the palette genres in rank order.
func (r *Resolver) Palette() []string {
	return append([]string(nil), r.palette...)
}

// DominantGenreForType returns the most common palette genre of a type.
func (r *Resolver) DominantGenreForType(t model.TitleType) (string, bool) {
	g, ok := r.dominantByType[t]
	return g, ok
}

// Resolve returns the key for s. saturation names the attribute that drives
// saturation; an empty attribute, or a subject without that value, uses
// DefaultSaturation.
func (r *Resolver) Resolve(s Subject, saturation model.Attribute) Key {
	hue := r.hue(s)
	if hue == "" {
		return Key{Tier: tier(s.Type), Hex: NeutralHex}
	}

	sat := DefaultSaturation
	if saturation != "" {
		if v, ok := s.Values[saturation]; ok && v != 0 {
			if sc, ok := r.scales[saturation]; ok {
				sat = sc.at(v)
			}
		}
	}

	light := LightnessMovie
	if s.Type == model.TitleTypeTVSeries {
		light = LightnessTVSeries
	}
	h, _, _ := r.base[hue].Hsl()
	return Key{
		Hue:        hue,
		Tier:       tier(s.Type),
		Saturation: sat,
		Hex:        colorful.Hsl(h, sat, light).Clamped().Hex(),
	}
}

// ResolveRecord is Resolve for a flat record.
func (r *Resolver) ResolveRecord(rec model.FlatRecord, saturation model.Attribute) Key {
	return r.Resolve(RecordSubject(rec), saturation)
}

// ResolveNode is Resolve for a tree node.
func (r *Resolver) ResolveNode(n *model.HierarchyNode, ancestors []*model.HierarchyNode, saturation model.Attribute) Key {
	return r.Resolve(NodeSubject(n, ancestors), saturation)
}

func (r *Resolver) hue(s Subject) string {
	for _, g := range []string{s.Genre, s.DominantGenre} {
		if _, ok := r.base[g]; ok && g != "" {
			return g
		}
	}
	if g, ok := r.dominantByType[s.Type]; ok {
		return g
	}
	return ""
}

func tier(t model.TitleType) Tier {
	if t == model.TitleTypeTVSeries {
		return TierLight
	}
	return TierDark
}
