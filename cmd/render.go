package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/media-explorer/internal/color"
	"github.com/sells-group/media-explorer/internal/model"
	"github.com/sells-group/media-explorer/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTree writes n and its descendants down to depth levels, each label
// coloured by its resolved category.
func renderTree(w io.Writer, n *model.HierarchyNode, ancestors []*model.HierarchyNode, colors *color.Resolver, saturation model.Attribute, depth int) {
	indent := strings.Repeat("  ", len(ancestors))
	label := n.Name
	if colors != nil {
		key := colors.ResolveNode(n, ancestors, saturation)
		label = lipgloss.NewStyle().Foreground(lipgloss.Color(key.Hex)).Render(n.Name)
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, label,
		dimStyle.Render(fmt.Sprintf("(%d, avg %.2f)", n.Value, n.AvgRating)))

	if depth == 0 {
		return
	}
	next := append(ancestors[:len(ancestors):len(ancestors)], n)
	for _, c := range n.Children {
		renderTree(w, c, next, colors, saturation, depth-1)
	}
}

// renderView writes v as a table of group statistics.
func renderView(w io.Writer, v view.View) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s vs %s", v.YAxis, v.Header)))
	if len(v.Breadcrumbs) > 0 {
		crumbs := make([]string, len(v.Breadcrumbs))
		for i, c := range v.Breadcrumbs {
			crumbs[i] = c.Label
		}
		fmt.Fprintln(w, dimStyle.Render(strings.Join(crumbs, " › ")))
	}
	fmt.Fprintf(w, "%d records, %s view\n\n", v.Count, v.Mode)

	fmt.Fprintf(w, "%-28s %6s %6s %6s %6s %6s %6s %6s %7s  %s\n",
		"Group", "Count", "Min", "Q1", "Median", "Q3", "Max", "Mean", "StdDev", "Dominant")
	for _, g := range v.Groups {
		label := g.Display
		if g.Fill != "" {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(g.Fill)).Render(fmt.Sprintf("%-28s", g.Display))
		} else {
			label = fmt.Sprintf("%-28s", label)
		}
		fmt.Fprintf(w, "%s %6d %6.2f %6.2f %6.2f %6.2f %6.2f %6.2f %7s  %s\n",
			label, g.Count, g.Min, g.Q1, g.Median, g.Q3, g.Max, g.Mean, stdDev(g.StdDev), g.DominantGenre)
	}

	if v.Trend != nil {
		fmt.Fprintf(w, "\ntrend: rating = %.4f × %s + %.4f (R² %.3f, n=%d)\n",
			v.Trend.Slope, v.Attribute, v.Trend.Intercept, v.Trend.R2, v.Trend.N)
	} else if v.Mode == view.ModeScatter {
		fmt.Fprintln(w, "\ntrend: N/A")
	}
}

func stdDev(sd *float64) string {
	if sd == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *sd)
}
