package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/media-explorer/internal/db"
	"github.com/sells-group/media-explorer/internal/model"
)

// PostgresStore implements TitleStore using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS titles (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	position        INTEGER NOT NULL,
	title_type      TEXT NOT NULL DEFAULT '',
	genres          TEXT NOT NULL DEFAULT '[]',
	runtime_minutes DOUBLE PRECISION,
	average_rating  DOUBLE PRECISION,
	start_year      DOUBLE PRECISION,
	original_title  TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_titles_position ON titles(position);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveTitles clears the table and COPYs titles in one transaction.
func (s *PostgresStore) SaveTitles(ctx context.Context, titles []model.RawTitle) (int, error) {
	rows := make([][]any, 0, len(titles))
	for i, t := range titles {
		genres, err := encodeGenres(t.Genres)
		if err != nil {
			return 0, err
		}
		rows = append(rows, []any{
			uuid.New().String(), i, t.TitleType, genres,
			nullable(t.RuntimeMinutes), nullable(t.AverageRating), nullable(t.StartYear),
			t.OriginalTitle,
		})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM titles`); err != nil {
		return 0, eris.Wrap(err, "postgres: clear titles")
	}
	n, err := db.CopyFrom(ctx, tx, "titles", titleColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: save titles")
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit")
	}
	return int(n), nil
}

func (s *PostgresStore) LoadTitles(ctx context.Context) ([]model.RawTitle, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT title_type, genres, runtime_minutes, average_rating, start_year, original_title FROM titles ORDER BY position`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load titles")
	}
	defer rows.Close()

	var titles []model.RawTitle
	for rows.Next() {
		var (
			t                     model.RawTitle
			genres                string
			runtime, rating, year pgtype.Float8
		)
		if err := rows.Scan(&t.TitleType, &genres, &runtime, &rating, &year, &t.OriginalTitle); err != nil {
			return nil, eris.Wrap(err, "postgres: scan title")
		}
		if t.Genres, err = decodeGenres(genres); err != nil {
			return nil, err
		}
		t.RuntimeMinutes = model.Number{Value: runtime.Float64, Valid: runtime.Valid}
		t.AverageRating = model.Number{Value: rating.Float64, Valid: rating.Valid}
		t.StartYear = model.Number{Value: year.Float64, Valid: year.Valid}
		titles = append(titles, t)
	}
	return titles, eris.Wrap(rows.Err(), "postgres: load titles iterate")
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM titles`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count titles")
}
