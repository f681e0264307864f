package main

import (
	"fmt"

	"github.com/wgdzlh/tifoverlay"

	"github.com/spf13/cobra"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the distinct values of a boundary attribute",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		attr, _ := cmd.Flags().GetString("attribute")
		if attr == "" {
			attr = cfg.Clip.Attribute
		}
		if attr == "" {
			return fmt.Errorf("%w: no attribute given", tifoverlay.ErrInvalidConfig)
		}
		labels, err := tifoverlay.ListLabels(cfg.Boundary, attr, cfg.BoundaryEncoding)
		if err != nil {
			return err
		}
		for _, l := range labels {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}

func init() {
	labelsCmd.Flags().StringP("attribute", "a", "", "Attribute name (defaults to clip.attribute)")
	rootCmd.AddCommand(labelsCmd)
}
