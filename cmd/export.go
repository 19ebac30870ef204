package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/media-explorer/internal/export"
)

var (
	exportPath      []string
	exportAttribute string
	exportFormat    string
	exportOut       string
)

var exportCmd = &cobra.Command{
	Use:         "export",
	Short:       "Write the correlation view of a path as xlsx, yaml, or json",
	Annotations: validated,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := export.ParseFormat(exportFormat, exportOut)
		if err != nil {
			return err
		}
		attr, err := parseAttribute(exportAttribute)
		if err != nil {
			return err
		}

		exp, err := initExplorer(cmd.Context())
		if err != nil {
			return err
		}

		v := exp.View(exportPath, attr)
		if err := export.WriteFile(exportOut, v, format); err != nil {
			return eris.Wrap(err, "export")
		}

		zap.L().Info("export complete",
			zap.String("out", exportOut),
			zap.String("format", string(format)),
			zap.String("attribute", string(v.Attribute)),
			zap.Int("groups", len(v.Groups)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringArrayVar(&exportPath, "path", nil, "bucket label for the next hierarchy level (repeatable)")
	exportCmd.Flags().StringVar(&exportAttribute, "attribute", "", "attribute to group by (default: active attribute of the path)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "xlsx, yaml, or json (default from --out extension)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
