package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SourceStore selects the configured title store as the dataset source.
const SourceStore = "store"

// Config holds the full application configuration.
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset" mapstructure:"dataset"`
	Hierarchy HierarchyConfig `yaml:"hierarchy" mapstructure:"hierarchy"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the titles document.
type DatasetConfig struct {
	// Source is a file path, an http(s):// or ftp:// URL, or "store".
	Source          string `yaml:"source" mapstructure:"source" validate:"required"`
	YearCutoff      int    `yaml:"year_cutoff" mapstructure:"year_cutoff" validate:"gt=0"`
	HTTPTimeoutSecs int    `yaml:"http_timeout_secs" mapstructure:"http_timeout_secs" validate:"gte=0"`
}

// HierarchyConfig fixes the binning and leaf policies of the drill-down tree.
type HierarchyConfig struct {
	Binning       string `yaml:"binning" mapstructure:"binning" validate:"oneof=quantile semantic"`
	TopGenres     int    `yaml:"top_genres" mapstructure:"top_genres" validate:"min=1,max=50"`
	MaxDepth      int    `yaml:"max_depth" mapstructure:"max_depth" validate:"min=0,max=5"`
	MinBucketSize int    `yaml:"min_bucket_size" mapstructure:"min_bucket_size" validate:"min=1"`
	LeafLimit     int    `yaml:"leaf_limit" mapstructure:"leaf_limit" validate:"min=1"`
	LeafOrder     string `yaml:"leaf_order" mapstructure:"leaf_order" validate:"oneof=desc asc"`
}

// StoreConfig configures the title store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver" validate:"oneof=sqlite postgres"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns" validate:"gte=0"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns" validate:"gte=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EXPLORER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.source", "movies.json")
	v.SetDefault("dataset.year_cutoff", 2024)
	v.SetDefault("dataset.http_timeout_secs", 30)
	v.SetDefault("hierarchy.binning", "quantile")
	v.SetDefault("hierarchy.top_genres", 10)
	v.SetDefault("hierarchy.max_depth", 0)
	v.SetDefault("hierarchy.min_bucket_size", 20)
	v.SetDefault("hierarchy.leaf_limit", 10)
	v.SetDefault("hierarchy.leaf_order", "desc")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "media-explorer.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their config keys.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the configuration for the given command mode: "serve",
// "explore", "view", "export", or "import".
func (c *Config) Validate(mode string) error {
	var msgs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return eris.Wrap(err, "config: validate")
		}
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
	}

	usesStore := c.Dataset.Source == SourceStore
	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			msgs = append(msgs, "server.port must be > 0")
		}
	case "explore", "view", "export":
	case "import":
		usesStore = true
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if usesStore && c.Store.DatabaseURL == "" {
		msgs = append(msgs, "store.database_url is required")
	}

	if len(msgs) > 0 {
		return eris.Errorf("config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", key, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be >= %s", key, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be <= %s", key, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", key, fe.Tag())
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
