package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/media-explorer/internal/binning"
	"github.com/sells-group/media-explorer/internal/config"
	"github.com/sells-group/media-explorer/internal/dataset"
	"github.com/sells-group/media-explorer/internal/events"
	"github.com/sells-group/media-explorer/internal/explorer"
	"github.com/sells-group/media-explorer/internal/fetcher"
	"github.com/sells-group/media-explorer/internal/hierarchy"
	"github.com/sells-group/media-explorer/internal/model"
	"github.com/sells-group/media-explorer/internal/store"
)

// initStore opens the configured title store.
func initStore(ctx context.Context) (store.TitleStore, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "media-explorer.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func fetchOptions() fetcher.Options {
	return fetcher.Options{
		HTTP: fetcher.HTTPOptions{Timeout: time.Duration(cfg.Dataset.HTTPTimeoutSecs) * time.Second},
	}
}

// loadDataset loads the configured source. A failure is logged once and
// nothing is built from a partial load.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	var src dataset.TitleSource
	if cfg.Dataset.Source == config.SourceStore {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		defer st.Close() //nolint:errcheck
		src = st
	} else {
		src = dataset.DocumentSource{Location: cfg.Dataset.Source, Options: fetchOptions()}
	}

	ds, err := dataset.Load(ctx, src, cfg.Dataset.YearCutoff)
	if err != nil {
		zap.L().Error("dataset load failed",
			zap.String("source", cfg.Dataset.Source),
			zap.Error(err),
		)
		return nil, err
	}
	return ds, nil
}

func explorerOptions() explorer.Options {
	h := cfg.Hierarchy
	return explorer.Options{
		Binning:   binning.Mode(h.Binning),
		TopGenres: h.TopGenres,
		Hierarchy: hierarchy.Options{
			MaxDepth:      h.MaxDepth,
			MinBucketSize: h.MinBucketSize,
			LeafLimit:     h.LeafLimit,
			LeafOrder:     hierarchy.LeafOrder(h.LeafOrder),
		},
	}
}

// initExplorer loads the dataset and builds the explorer around a new bus.
func initExplorer(ctx context.Context) (*explorer.Explorer, error) {
	ds, err := loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return explorer.New(ctx, ds, events.NewBus(), explorerOptions())
}

// parseAttribute resolves an optional --attribute flag.
func parseAttribute(s string) (model.Attribute, error) {
	if s == "" {
		return "", nil
	}
	attr, ok := model.ParseAttribute(s)
	if !ok {
		return "", eris.Errorf("unknown attribute %q (want one of %v)", s, model.HierarchyLevels)
	}
	return attr, nil
}
