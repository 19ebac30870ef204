package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/media-explorer/internal/config"
	"github.com/sells-group/media-explorer/internal/dataset"
)

var (
	importFile   string
	importFormat string
)

var importCmd = &cobra.Command{
	Use:         "import",
	Short:       "Load a titles document into the title store",
	Annotations: validated,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		location := importFile
		if location == "" {
			location = cfg.Dataset.Source
		}
		if location == "" || location == config.SourceStore {
			return eris.New("import needs a document path or URL (--file)")
		}
		format, err := dataset.ParseDocumentFormat(importFormat, location)
		if err != nil {
			return err
		}

		titles, err := dataset.DocumentSource{Location: location, Format: format, Options: fetchOptions()}.LoadTitles(ctx)
		if err != nil {
			return eris.Wrap(err, "import")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return err
		}
		n, err := st.SaveTitles(ctx, titles)
		if err != nil {
			return eris.Wrap(err, "import")
		}

		_, report := dataset.Normalize(titles, cfg.Dataset.YearCutoff)
		zap.L().Info("import complete",
			zap.String("source", location),
			zap.String("format", string(format)),
			zap.String("driver", cfg.Store.Driver),
			zap.Int("titles", n),
			zap.Int("usable", report.Kept),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "titles document path or URL (default dataset.source)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "json, csv, tsv, xlsx, or zip (default from the file extension)")
	rootCmd.AddCommand(importCmd)
}
