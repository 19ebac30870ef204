// Package view builds the aggregate consumed by the correlation plot: one
// box-plot summary per bucket of the active attribute, or a scatter with a
// trend line for continuous attributes.
package view

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/media-explorer/internal/binning"
	"github.com/sells-group/media-explorer/internal/color"
	"github.com/sells-group/media-explorer/internal/model"
	"github.com/sells-group/media-explorer/internal/stats"
)

// Mode is how the correlation plot renders the view.
type Mode string

const (
	ModeBox     Mode = "box"
	ModeScatter Mode = "scatter"
)

// YAxisLabel is the measure on the vertical axis.
const YAxisLabel = "IMDB Rating"

// Group is one bucket's statistics plus its display label and fill.
type Group struct {
	model.GroupStats `yaml:",inline"`
	Display string `json:"display" yaml:"display"`
	Fill    string `json:"fill" yaml:"fill"`
}

// Point is one title in a scatter view.
type Point struct {
	X     float64         `json:"x" yaml:"x"`
	Y     float64         `json:"y" yaml:"y"`
	Title string          `json:"title" yaml:"title"`
	Genre string          `json:"genre" yaml:"genre"`
	Type  model.TitleType `json:"type" yaml:"type"`
	Fill  string          `json:"fill" yaml:"fill"`
}

// Crumb is one breadcrumb; selecting it navigates to Path.
type Crumb struct {
	Attribute model.Attribute  `json:"attribute" yaml:"attribute"`
	Value     string           `json:"value" yaml:"value"`
	Label     string           `json:"label" yaml:"label"`
	Path      model.FilterPath `json:"path" yaml:"path"`
}

// View is the correlation-plot aggregate for one path and attribute.
type View struct {
	Attribute   model.Attribute   `json:"attribute" yaml:"attribute"`
	Header      string            `json:"header" yaml:"header"`
	YAxis       string            `json:"yAxis" yaml:"y_axis"`
	Mode        Mode              `json:"mode" yaml:"mode"`
	Path        model.FilterPath  `json:"path" yaml:"path"`
	Breadcrumbs []Crumb           `json:"breadcrumbs" yaml:"breadcrumbs"`
	Count       int               `json:"count" yaml:"count"`
	Groups      []Group           `json:"groups" yaml:"groups"`
	Points      []Point           `json:"points,omitempty" yaml:"points,omitempty"`
	Trend       *model.Regression `json:"trend,omitempty" yaml:"trend,omitempty"`
	// Drillable is set by the coordinator when every group key names a
	// child bucket of Path in the drill-down tree.
	Drillable bool `json:"drillable" yaml:"drillable"`
}

// Builder assembles views.
type Builder struct {
	table  binning.Table
	levels []model.Attribute
	colors *color.Resolver
}

// NewBuilder creates a Builder. colors may be nil, in which case fills are
// left empty.
func NewBuilder(table binning.Table, levels []model.Attribute, colors *color.Resolver) *Builder {
	if len(levels) == 0 {
		levels = model.HierarchyLevels
	}
	return &Builder{table: table, levels: levels, colors: colors}
}

// Build summarizes records along attr. Year, type, and genre always render
// as box plots; runtime and rating render as a scatter with a trend when
// more than one record is present. Groups are computed in every mode.
func (b *Builder) Build(records []model.FlatRecord, attr model.Attribute, path model.FilterPath) View {
	v := View{
		Attribute:   attr,
		Header:      Header(attr),
		YAxis:       YAxisLabel,
		Mode:        ModeBox,
		Path:        path.Clone(),
		Breadcrumbs: b.Breadcrumbs(path),
		Count:       len(records),
		Groups:      b.Groups(records, attr),
	}
	if attr.Continuous() && len(records) > 1 {
		v.Mode = ModeScatter
		v.Points = b.points(records, attr)
		v.Trend = stats.RegressRecords(records, attr)
	}
	return v
}

// Groups computes one GroupStats per bucket of attr, in bucket order.
func (b *Builder) Groups(records []model.FlatRecord, attr model.Attribute) []Group {
	buckets := b.table.Group(attr, records)
	out := make([]Group, 0, len(buckets))
	for _, bucket := range buckets {
		gs, ok := stats.Compute(bucket.Label, bucket.Records, stats.Rating)
		if !ok {
			continue
		}
		g := Group{GroupStats: gs, Display: DisplayValue(attr, bucket.Label)}
		if b.colors != nil {
			g.Fill = b.colors.Resolve(color.Subject{DominantGenre: gs.DominantGenre}, "").Hex
		}
		out = append(out, g)
	}
	return out
}

// Breadcrumbs returns one crumb per path segment.
func (b *Builder) Breadcrumbs(path model.FilterPath) []Crumb {
	out := make([]Crumb, 0, len(path))
	for i, seg := range path {
		attr, ok := levelAt(b.levels, i)
		header := string(attr)
		if ok {
			header = Header(attr)
		}
		out = append(out, Crumb{
			Attribute: attr,
			Value:     seg,
			Label:     header + ": " + DisplayValue(attr, seg),
			Path:      path[:i+1].Clone(),
		})
	}
	return out
}

func (b *Builder) points(records []model.FlatRecord, attr model.Attribute) []Point {
	out := make([]Point, 0, len(records))
	for _, r := range records {
		x, _ := r.Numeric(attr)
		p := Point{X: x, Y: r.Rating, Title: r.Title, Genre: r.Genre, Type: r.Type}
		if b.colors != nil {
			p.Fill = b.colors.ResolveRecord(r, "").Hex
		}
		out = append(out, p)
	}
	return out
}

func levelAt(levels []model.Attribute, i int) (model.Attribute, bool) {
	if i < 0 || i >= len(levels) {
		return "", false
	}
	return levels[i], true
}

// Header returns the display header of an attribute, e.g. "Runtime".
// Casers are stateful, so one is made per call.
func Header(attr model.Attribute) string {
	return cases.Title(language.English).String(string(attr))
}

// DisplayValue returns the display form of a bucket label.
func DisplayValue(attr model.Attribute, label string) string {
	if attr != model.AttrType {
		return label
	}
	switch model.TitleType(label) {
	case model.TitleTypeMovie:
		return "Movies"
	case model.TitleTypeTVSeries:
		return "TV Shows"
	default:
		return label
	}
}
