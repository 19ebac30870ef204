package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// TableOptions configures the delimited-text row reader.
type TableOptions struct {
	Delimiter rune // default ','
	Comment   rune // comment character (0 = none)
	// LazyQuotes tolerates bare quotes inside fields, as found in
	// tab-separated title dumps.
	LazyQuotes bool
}

// StreamRows reads delimited text and sends every row, header included, to
// the row channel. Fields are trimmed. Both channels are closed when
// processing completes; at most one error is sent.
func StreamRows(ctx context.Context, r io.Reader, opts TableOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "table: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "table: read row")
				return
			}
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "table: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// ReadXLSXRows returns every row of one sheet of an in-memory workbook.
// An empty sheet name selects the first sheet.
func ReadXLSXRows(data []byte, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}

	sheet, err := pickSheet(f, sheetName)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

// OpenZIPMember opens the first file of an in-memory archive accepted by
// match, in archive order. Directories are skipped.
func OpenZIPMember(data []byte, match func(name string) bool) (string, io.ReadCloser, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, eris.Wrap(err, "zip: open archive")
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !match(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", nil, eris.Wrapf(err, "zip: open %s", f.Name)
		}
		return f.Name, rc, nil
	}
	return "", nil, eris.New("zip: no matching file in archive")
}
