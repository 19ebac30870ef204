// Package store persists raw title documents so a dataset can be loaded
// from a database instead of a file.
package store

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/media-explorer/internal/model"
)

// TitleStore holds the raw titles of exactly one dataset.
type TitleStore interface {
	// SaveTitles replaces every stored title with titles, in order.
	SaveTitles(ctx context.Context, titles []model.RawTitle) (int, error)
	// LoadTitles returns the stored titles in insertion order.
	LoadTitles(ctx context.Context) ([]model.RawTitle, error)
	// Count returns the number of stored titles.
	Count(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// titleColumns is the column order shared by both backends.
var titleColumns = []string{
	"id", "position", "title_type", "genres",
	"runtime_minutes", "average_rating", "start_year", "original_title",
}

func encodeGenres(genres []string) (string, error) {
	if genres == nil {
		genres = []string{}
	}
	b, err := json.Marshal(genres)
	if err != nil {
		return "", eris.Wrap(err, "store: marshal genres")
	}
	return string(b), nil
}

func decodeGenres(s string) ([]string, error) {
	var genres []string
	if s == "" {
		return genres, nil
	}
	if err := json.Unmarshal([]byte(s), &genres); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal genres")
	}
	return genres, nil
}

// nullable maps an undefined number to SQL NULL.
func nullable(n model.Number) any {
	if !n.Valid {
		return nil
	}
	return n.Value
}
