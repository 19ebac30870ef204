package dataset

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/media-explorer/internal/fetcher"
	"github.com/sells-group/media-explorer/internal/model"
)

// TitleSource supplies the raw titles of one dataset load.
type TitleSource interface {
	LoadTitles(ctx context.Context) ([]model.RawTitle, error)
}

// DocumentSource reads the titles document from a path or URL.
type DocumentSource struct {
	Location string
	// Format selects a tabular or archived encoding. The zero value is the
	// JSON titles document.
	Format  Format
	Options fetcher.Options
}

// LoadTitles opens and decodes the document.
func (s DocumentSource) LoadTitles(ctx context.Context) ([]model.RawTitle, error) {
	format := s.Format
	if format == "" {
		format = FormatJSON
	}

	rc, err := fetcher.Open(ctx, s.Location, s.Options)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open document")
	}
	defer rc.Close() //nolint:errcheck

	titles, err := DecodeTitles(ctx, rc, format)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: decode %s", s.Location)
	}
	return titles, nil
}

// Load fetches raw titles from src and normalizes them. Any failure is
// returned as a single error and no partial dataset is produced.
func Load(ctx context.Context, src TitleSource, yearCutoff int) (*Dataset, error) {
	titles, err := src.LoadTitles(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: load")
	}
	d := FromTitles(titles, yearCutoff)

	zap.L().Info("dataset: loaded",
		zap.Int("titles", d.report.Titles),
		zap.Int("kept", d.report.Kept),
		zap.Int("records", d.Len()),
		zap.Int("genres", len(d.genres)),
	)
	return d, nil
}
