package dataset

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/media-explorer/internal/fetcher"
	"github.com/sells-group/media-explorer/internal/model"
)

// Format is the encoding of a titles document.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
	// FormatZIP is an archive holding one document in any other format.
	FormatZIP Format = "zip"
)

// Tabular column names. A tabular document carries a header row naming
// these columns in any order; genres is a comma-separated list.
const (
	ColumnTitleType      = "titleType"
	ColumnGenres         = "genres"
	ColumnRuntimeMinutes = "runtimeMinutes"
	ColumnAverageRating  = "averageRating"
	ColumnStartYear      = "startYear"
	ColumnOriginalTitle  = "originalTitle"
	ColumnPrimaryTitle   = "primaryTitle"
)

// nullMarker is the missing-value marker of tab-separated title dumps.
const nullMarker = `\N`

var requiredColumns = []string{ColumnTitleType, ColumnGenres, ColumnRuntimeMinutes, ColumnAverageRating, ColumnStartYear}

// ParseDocumentFormat resolves a format name for importing title dumps. An
// empty name is inferred from the extension of location, ignoring any URL
// query, and defaults to JSON.
func ParseDocumentFormat(name, location string) (Format, error) {
	if name == "" {
		p := location
		if u, err := url.Parse(location); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
			p = u.Path
		}
		name = strings.TrimPrefix(path.Ext(p), ".")
	}
	switch strings.ToLower(name) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "zip":
		return FormatZIP, nil
	default:
		return "", eris.Errorf("dataset: unsupported document format %q", name)
	}
}

// DecodeTitles reads a titles document in format f.
func DecodeTitles(ctx context.Context, r io.Reader, f Format) ([]model.RawTitle, error) {
	switch f {
	case FormatJSON:
		doc, err := fetcher.DecodeJSONObject[model.TitleDocument](r)
		if err != nil {
			return nil, err
		}
		return doc.Titles, nil
	case FormatCSV:
		return decodeDelimited(ctx, r, fetcher.TableOptions{})
	case FormatTSV:
		return decodeDelimited(ctx, r, fetcher.TableOptions{Delimiter: '\t', LazyQuotes: true})
	case FormatXLSX:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read workbook")
		}
		rows, err := fetcher.ReadXLSXRows(data, "")
		if err != nil {
			return nil, err
		}
		return titlesFromRows(rows)
	case FormatZIP:
		return decodeArchive(ctx, r)
	default:
		return nil, eris.Errorf("dataset: unsupported document format %q", f)
	}
}

func decodeDelimited(ctx context.Context, r io.Reader, opts fetcher.TableOptions) ([]model.RawTitle, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rowCh, errCh := fetcher.StreamRows(ctx, r, opts)
	var cols columnIndex
	var titles []model.RawTitle
	header := true
	for row := range rowCh {
		if header {
			var err error
			if cols, err = indexColumns(row); err != nil {
				return nil, err
			}
			header = false
			continue
		}
		if t, ok := cols.title(row); ok {
			titles = append(titles, t)
		}
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	if header {
		return nil, eris.New("dataset: document has no header row")
	}
	return titles, nil
}

func decodeArchive(ctx context.Context, r io.Reader) ([]model.RawTitle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read archive")
	}
	var inner Format
	name, rc, err := fetcher.OpenZIPMember(data, func(name string) bool {
		f, err := ParseDocumentFormat("", name)
		if err != nil || f == FormatZIP || path.Ext(name) == "" {
			return false
		}
		inner = f
		return true
	})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open archive")
	}
	defer rc.Close() //nolint:errcheck

	titles, err := DecodeTitles(ctx, rc, inner)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: decode %s", name)
	}
	return titles, nil
}

func titlesFromRows(rows [][]string) ([]model.RawTitle, error) {
	if len(rows) == 0 {
		return nil, eris.New("dataset: document has no header row")
	}
	cols, err := indexColumns(rows[0])
	if err != nil {
		return nil, err
	}
	titles := make([]model.RawTitle, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if t, ok := cols.title(row); ok {
			titles = append(titles, t)
		}
	}
	return titles, nil
}

// columnIndex maps column names to positions in a row.
type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		cols[strings.TrimPrefix(name, "\ufeff")] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("dataset: missing columns %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columnIndex) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) || row[i] == nullMarker {
		return ""
	}
	return row[i]
}

// title converts one row. Blank rows are skipped.
func (c columnIndex) title(row []string) (model.RawTitle, bool) {
	if strings.Join(row, "") == "" {
		return model.RawTitle{}, false
	}
	t := model.RawTitle{
		TitleType:      c.get(row, ColumnTitleType),
		RuntimeMinutes: model.ParseNumber(c.get(row, ColumnRuntimeMinutes)),
		AverageRating:  model.ParseNumber(c.get(row, ColumnAverageRating)),
		StartYear:      model.ParseNumber(c.get(row, ColumnStartYear)),
		OriginalTitle:  c.get(row, ColumnOriginalTitle),
	}
	if t.OriginalTitle == "" {
		t.OriginalTitle = c.get(row, ColumnPrimaryTitle)
	}
	if g := c.get(row, ColumnGenres); g != "" {
		t.Genres = strings.Split(g, ",")
	}
	return t, true
}
