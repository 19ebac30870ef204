package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func collectRows(t *testing.T, rowCh <-chan []string, errCh <-chan error) ([][]string, error) {
	t.Helper()
	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	return rows, <-errCh
}

func TestStreamRows_CSV(t *testing.T) {
	input := "titleType,genres,startYear\nmovie,\"Action,Drama\",2010\n tvSeries , Drama ,2015\n"

	rowCh, errCh := StreamRows(context.Background(), strings.NewReader(input), TableOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"titleType", "genres", "startYear"}, rows[0])
	assert.Equal(t, []string{"movie", "Action,Drama", "2010"}, rows[1])
	assert.Equal(t, []string{"tvSeries", "Drama", "2015"}, rows[2])
}

func TestStreamRows_TSVWithBareQuotes(t *testing.T) {
	input := "originalTitle\truntimeMinutes\nThe \"Weird\" Title\t\\N\n# skipped\nPlain\t90\n"

	rowCh, errCh := StreamRows(context.Background(), strings.NewReader(input), TableOptions{
		Delimiter:  '\t',
		Comment:    '#',
		LazyQuotes: true,
	})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{`The "Weird" Title`, `\N`}, rows[1])
	assert.Equal(t, []string{"Plain", "90"}, rows[2])
}

func TestStreamRows_MalformedInput(t *testing.T) {
	rowCh, errCh := StreamRows(context.Background(), strings.NewReader("a,\"b\n"), TableOptions{})
	_, err := collectRows(t, rowCh, errCh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table: read row")
}

func TestStreamRows_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowCh, errCh := StreamRows(ctx, strings.NewReader("a\nb\n"), TableOptions{})
	_, err := collectRows(t, rowCh, errCh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}

func workbook(t *testing.T, sheets map[string][][]string) []byte {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, data := range rows {
			row := sheet.AddRow()
			for _, v := range data {
				row.AddCell().SetString(v)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestReadXLSXRows(t *testing.T) {
	data := workbook(t, map[string][][]string{
		"Titles": {{"titleType", "genres"}, {"movie", " Drama "}},
	})

	rows, err := ReadXLSXRows(data, "")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"titleType", "genres"}, {"movie", "Drama"}}, rows)

	rows, err = ReadXLSXRows(data, "Titles")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = ReadXLSXRows(data, "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Missing" not found`)
}

func TestReadXLSXRows_NotAWorkbook(t *testing.T) {
	_, err := ReadXLSXRows([]byte("plain text"), "")
	require.Error(t, err)
}

func archive(t *testing.T, files map[string]string, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenZIPMember(t *testing.T) {
	data := archive(t, map[string]string{
		"docs/":            "",
		"README.txt":       "ignore me",
		"data/titles.json": `{"titles":[]}`,
	}, "docs/", "README.txt", "data/titles.json")

	name, rc, err := OpenZIPMember(data, func(n string) bool { return strings.HasSuffix(n, ".json") })
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	assert.Equal(t, "data/titles.json", name)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"titles":[]}`, string(body))
}

func TestOpenZIPMember_NoMatch(t *testing.T) {
	data := archive(t, map[string]string{"a.txt": "x"}, "a.txt")

	_, _, err := OpenZIPMember(data, func(string) bool { return false })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching file")

	_, _, err = OpenZIPMember([]byte("not a zip"), func(string) bool { return true })
	require.Error(t, err)
}
