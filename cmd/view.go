package main

import (
	"github.com/spf13/cobra"
)

var (
	viewPath      []string
	viewAttribute string
)

var viewCmd = &cobra.Command{
	Use:         "view",
	Short:       "Print rating statistics along the active attribute of a path",
	Annotations: validated,
	RunE: func(cmd *cobra.Command, _ []string) error {
		attr, err := parseAttribute(viewAttribute)
		if err != nil {
			return err
		}

		exp, err := initExplorer(cmd.Context())
		if err != nil {
			return err
		}

		renderView(cmd.OutOrStdout(), exp.View(viewPath, attr))
		return nil
	},
}

func init() {
	viewCmd.Flags().StringArrayVar(&viewPath, "path", nil, "bucket label for the next hierarchy level (repeatable)")
	viewCmd.Flags().StringVar(&viewAttribute, "attribute", "", "attribute to group by (default: active attribute of the path)")
	rootCmd.AddCommand(viewCmd)
}
