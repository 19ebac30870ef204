package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/media-explorer/internal/model"
	"github.com/sells-group/media-explorer/internal/view"
)

func sampleView() view.View {
	sd := 0.35
	return view.View{
		Attribute: model.AttrRuntime,
		Header:    "Runtime",
		YAxis:     view.YAxisLabel,
		Mode:      view.ModeScatter,
		Path:      model.FilterPath{"movie", "Action"},
		Count:     3,
		Groups: []view.Group{
			{
				GroupStats: model.GroupStats{
					Key: "90 - 120", Min: 7.5, Q1: 7.6, Median: 7.75, Q3: 7.9, Max: 8,
					Mean: 7.75, StdDev: &sd, Count: 2, DominantGenre: "Action",
					TypeDistribution: []model.TypeCount{{Type: model.TitleTypeMovie, Count: 2}},
				},
				Display: "90 - 120",
				Fill:    "#4e79a7",
			},
			{
				GroupStats: model.GroupStats{
					Key: "120 - 150", Min: 6, Q1: 6, Median: 6, Q3: 6, Max: 6, Mean: 6,
					Count: 1, DominantGenre: "Action",
				},
				Display: "120 - 150",
			},
		},
		Points: []view.Point{
			{X: 90, Y: 8, Title: "Alpha", Genre: "Action", Type: model.TitleTypeMovie},
			{X: 120, Y: 7.5, Title: "Beta", Genre: "Action", Type: model.TitleTypeMovie},
			{X: 150, Y: 6, Title: "Gamma", Genre: "Action", Type: model.TitleTypeMovie},
		},
		Trend: &model.Regression{Slope: -0.03, Intercept: 10.8, R2: 0.9, N: 3},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name, path string
		want       Format
		wantErr    bool
	}{
		{"json", "", FormatJSON, false},
		{"YAML", "", FormatYAML, false},
		{"", "out/view.yml", FormatYAML, false},
		{"", "view.xlsx", FormatXLSX, false},
		{"", "view", FormatJSON, false},
		{"csv", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name+tt.path, func(t *testing.T) {
			got, err := ParseFormat(tt.name, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleView(), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "runtime", decoded["attribute"])
	assert.Equal(t, "scatter", decoded["mode"])

	groups := decoded["groups"].([]any)
	require.Len(t, groups, 2)
	first := groups[0].(map[string]any)
	assert.Equal(t, "90 - 120", first["key"], "group stats are flattened into the group")
	assert.InDelta(t, 7.75, first["median"], 1e-9)
	assert.Nil(t, groups[1].(map[string]any)["stdDev"])
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleView(), FormatYAML))

	var decoded struct {
		Header string `yaml:"header"`
		Groups []struct {
			Key    string   `yaml:"key"`
			Count  int      `yaml:"count"`
			StdDev *float64 `yaml:"std_dev"`
		} `yaml:"groups"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Runtime", decoded.Header)
	require.Len(t, decoded.Groups, 2)
	assert.Equal(t, "90 - 120", decoded.Groups[0].Key)
	assert.Equal(t, 2, decoded.Groups[0].Count)
	assert.Nil(t, decoded.Groups[1].StdDev)
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleView(), FormatXLSX))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	groups, ok := f.Sheet[SheetGroups]
	require.True(t, ok)
	require.Len(t, groups.Rows, 3)
	assert.Equal(t, "Key", groups.Rows[0].Cells[0].String())
	assert.Equal(t, "90 - 120", groups.Rows[1].Cells[1].String())
	assert.Equal(t, "N/A", groups.Rows[2].Cells[9].String())
	assert.Equal(t, "Action", groups.Rows[2].Cells[10].String())

	points, ok := f.Sheet[SheetPoints]
	require.True(t, ok)
	assert.Len(t, points.Rows, 4)
	assert.Equal(t, "Gamma", points.Rows[3].Cells[0].String())

	_, ok = f.Sheet[SheetSummary]
	assert.True(t, ok)
}

func TestWrite_XLSXBoxViewHasNoPoints(t *testing.T) {
	v := sampleView()
	v.Mode = view.ModeBox
	v.Points = nil
	v.Trend = nil

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v, FormatXLSX))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	_, ok := f.Sheet[SheetPoints]
	assert.False(t, ok)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.json")
	require.NoError(t, WriteFile(path, sampleView(), FormatJSON))

	err := WriteFile(filepath.Join(t.TempDir(), "missing", "view.json"), sampleView(), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: create")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleView(), Format("csv"))
	assert.Error(t, err)
}
