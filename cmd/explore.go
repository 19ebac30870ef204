package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/media-explorer/internal/hierarchy"
)

var (
	explorePath       []string
	exploreDepth      int
	exploreSaturation string
)

var exploreCmd = &cobra.Command{
	Use:         "explore",
	Short:       "Print the drill-down hierarchy",
	Annotations: validated,
	RunE: func(cmd *cobra.Command, _ []string) error {
		saturation, err := parseAttribute(exploreSaturation)
		if err != nil {
			return err
		}

		exp, err := initExplorer(cmd.Context())
		if err != nil {
			return err
		}

		root := exp.Tree()
		node, valid := hierarchy.Resolve(root, explorePath)
		renderTree(cmd.OutOrStdout(), node, hierarchy.Ancestors(root, valid), exp.Colors(), saturation, exploreDepth)
		return nil
	},
}

func init() {
	exploreCmd.Flags().StringArrayVar(&explorePath, "path", nil, "bucket label to descend into (repeatable)")
	exploreCmd.Flags().IntVar(&exploreDepth, "depth", 2, "levels to print below the starting node (-1 for all)")
	exploreCmd.Flags().StringVar(&exploreSaturation, "saturation", "", "attribute driving colour saturation")
	rootCmd.AddCommand(exploreCmd)
}
