package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/media-explorer/internal/model"
)

// SQLiteStore implements TitleStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS titles (
	id              TEXT PRIMARY KEY,
	position        INTEGER NOT NULL,
	title_type      TEXT NOT NULL DEFAULT '',
	genres          TEXT NOT NULL DEFAULT '[]',
	runtime_minutes REAL,
	average_rating  REAL,
	start_year      REAL,
	original_title  TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_titles_position ON titles(position);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveTitles(ctx context.Context, titles []model.RawTitle) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM titles`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear titles")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO titles (id, position, title_type, genres, runtime_minutes, average_rating, start_year, original_title)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, t := range titles {
		genres, err := encodeGenres(t.Genres)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), i, t.TitleType, genres,
			nullable(t.RuntimeMinutes), nullable(t.AverageRating), nullable(t.StartYear),
			t.OriginalTitle,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert title %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return len(titles), nil
}

func (s *SQLiteStore) LoadTitles(ctx context.Context) ([]model.RawTitle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title_type, genres, runtime_minutes, average_rating, start_year, original_title FROM titles ORDER BY position`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load titles")
	}
	defer rows.Close() //nolint:errcheck

	var titles []model.RawTitle
	for rows.Next() {
		var (
			t                     model.RawTitle
			genres                string
			runtime, rating, year sql.NullFloat64
		)
		if err := rows.Scan(&t.TitleType, &genres, &runtime, &rating, &year, &t.OriginalTitle); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan title")
		}
		if t.Genres, err = decodeGenres(genres); err != nil {
			return nil, err
		}
		t.RuntimeMinutes = model.Number{Value: runtime.Float64, Valid: runtime.Valid}
		t.AverageRating = model.Number{Value: rating.Float64, Valid: rating.Valid}
		t.StartYear = model.Number{Value: year.Float64, Valid: year.Valid}
		titles = append(titles, t)
	}
	return titles, eris.Wrap(rows.Err(), "sqlite: load titles iterate")
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM titles`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count titles")
}
