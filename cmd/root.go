package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/media-explorer/internal/config"
)

var cfg *config.Config

// validateAnnotation marks commands whose config is validated before running.
const validateAnnotation = "validate"

var validated = map[string]string{validateAnnotation: "true"}

var rootCmd = &cobra.Command{
	Use:   "media-explorer",
	Short: "Hierarchical drill-down explorer for movie and TV ratings",
	Long:  "Builds a type → genre → year → runtime → rating hierarchy from a titles dataset and serves box-plot and scatter views of ratings along the active attribute.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if _, ok := cmd.Annotations[validateAnnotation]; ok {
			if err := cfg.Validate(cmd.Name()); err != nil {
				return fmt.Errorf("validate config: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
