package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "movies.json", cfg.Dataset.Source)
	assert.Equal(t, 2024, cfg.Dataset.YearCutoff)
	assert.Equal(t, 30, cfg.Dataset.HTTPTimeoutSecs)
	assert.Equal(t, "quantile", cfg.Hierarchy.Binning)
	assert.Equal(t, 10, cfg.Hierarchy.TopGenres)
	assert.Equal(t, 20, cfg.Hierarchy.MinBucketSize)
	assert.Equal(t, 10, cfg.Hierarchy.LeafLimit)
	assert.Equal(t, "desc", cfg.Hierarchy.LeafOrder)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "media-explorer.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
dataset:
  source: https://example.com/movies.json
  year_cutoff: 2020
hierarchy:
  binning: semantic
  leaf_order: asc
store:
  driver: postgres
  database_url: postgres://localhost/media
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/movies.json", cfg.Dataset.Source)
	assert.Equal(t, 2020, cfg.Dataset.YearCutoff)
	assert.Equal(t, "semantic", cfg.Hierarchy.Binning)
	assert.Equal(t, "asc", cfg.Hierarchy.LeafOrder)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 10, cfg.Hierarchy.TopGenres)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
hierarchy:
  binning: semantic
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("EXPLORER_HIERARCHY_BINNING", "quantile")
	t.Setenv("EXPLORER_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "quantile", cfg.Hierarchy.Binning)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("EXPLORER_SERVER_PORT", "3000")
	t.Setenv("EXPLORER_DATASET_SOURCE", "store")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, SourceStore, cfg.Dataset.Source)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	return &Config{
		Dataset: DatasetConfig{Source: "movies.json", YearCutoff: 2024, HTTPTimeoutSecs: 30},
		Hierarchy: HierarchyConfig{
			Binning:       "quantile",
			TopGenres:     10,
			MinBucketSize: 20,
			LeafLimit:     10,
			LeafOrder:     "desc",
		},
		Store:  StoreConfig{Driver: "sqlite", DatabaseURL: "media-explorer.db"},
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate_Modes(t *testing.T) {
	cfg := validDefaults()
	for _, mode := range []string{"serve", "explore", "view", "export", "import"} {
		assert.NoError(t, cfg.Validate(mode), mode)
	}
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	assert.NoError(t, cfg.Validate("view"), "port only matters when serving")
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"binning", func(c *Config) { c.Hierarchy.Binning = "equal-width" }, "hierarchy.binning must be one of [quantile semantic]"},
		{"leaf order", func(c *Config) { c.Hierarchy.LeafOrder = "random" }, "hierarchy.leaf_order must be one of"},
		{"top genres", func(c *Config) { c.Hierarchy.TopGenres = 0 }, "hierarchy.top_genres must be >= 1"},
		{"max depth", func(c *Config) { c.Hierarchy.MaxDepth = 9 }, "hierarchy.max_depth must be <= 5"},
		{"driver", func(c *Config) { c.Store.Driver = "mysql" }, "store.driver must be one of"},
		{"source", func(c *Config) { c.Dataset.Source = "" }, "dataset.source is required"},
		{"year cutoff", func(c *Config) { c.Dataset.YearCutoff = 0 }, "dataset.year_cutoff must be > 0"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("view")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_StoreSourceNeedsURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Dataset.Source = SourceStore
	cfg.Store.DatabaseURL = ""

	err := cfg.Validate("view")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Dataset.Source = "movies.json"
	assert.NoError(t, cfg.Validate("view"))

	err = cfg.Validate("import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
}
