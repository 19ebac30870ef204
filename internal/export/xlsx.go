package export

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/media-explorer/internal/model"
	"github.com/sells-group/media-explorer/internal/view"
)

// Sheet names of an exported workbook.
const (
	SheetSummary = "Summary"
	SheetGroups  = "Groups"
	SheetPoints  = "Points"
)

// GroupHeader is the header row of the groups sheet.
var GroupHeader = []string{
	"Key", "Display", "Count", "Min", "Q1", "Median", "Q3", "Max",
	"Mean", "Std Dev", "Dominant Genre", "Movies", "TV Series", "Fill",
}

func writeXLSX(w io.Writer, v view.View) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SheetSummary)
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	addStrings(summary, "Attribute", v.Header)
	addStrings(summary, "Path", strings.Join(v.Path, " / "))
	addStrings(summary, "Mode", string(v.Mode))
	row := summary.AddRow()
	row.AddCell().SetString("Records")
	row.AddCell().SetInt(v.Count)
	if v.Trend != nil {
		addFloats(summary, "Slope", v.Trend.Slope)
		addFloats(summary, "Intercept", v.Trend.Intercept)
		addFloats(summary, "R²", v.Trend.R2)
	}

	groups, err := f.AddSheet(SheetGroups)
	if err != nil {
		return eris.Wrap(err, "export: add groups sheet")
	}
	addStrings(groups, GroupHeader...)
	for _, g := range v.Groups {
		row := groups.AddRow()
		row.AddCell().SetString(g.Key)
		row.AddCell().SetString(g.Display)
		row.AddCell().SetInt(g.Count)
		for _, x := range []float64{g.Min, g.Q1, g.Median, g.Q3, g.Max, g.Mean} {
			row.AddCell().SetFloat(x)
		}
		if g.StdDev != nil {
			row.AddCell().SetFloat(*g.StdDev)
		} else {
			row.AddCell().SetString("N/A")
		}
		row.AddCell().SetString(g.DominantGenre)
		row.AddCell().SetInt(typeCount(g.TypeDistribution, model.TitleTypeMovie))
		row.AddCell().SetInt(typeCount(g.TypeDistribution, model.TitleTypeTVSeries))
		row.AddCell().SetString(g.Fill)
	}

	if len(v.Points) > 0 {
		points, err := f.AddSheet(SheetPoints)
		if err != nil {
			return eris.Wrap(err, "export: add points sheet")
		}
		addStrings(points, "Title", "Type", "Genre", v.Header, v.YAxis)
		for _, p := range v.Points {
			row := points.AddRow()
			row.AddCell().SetString(p.Title)
			row.AddCell().SetString(string(p.Type))
			row.AddCell().SetString(p.Genre)
			row.AddCell().SetFloat(p.X)
			row.AddCell().SetFloat(p.Y)
		}
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}

func addStrings(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, s := range values {
		row.AddCell().SetString(s)
	}
}

func addFloats(sheet *xlsx.Sheet, label string, values ...float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	for _, x := range values {
		row.AddCell().SetFloat(x)
	}
}

func typeCount(dist []model.TypeCount, t model.TitleType) int {
	for _, tc := range dist {
		if tc.Type == t {
			return tc.Count
		}
	}
	return 0
}
