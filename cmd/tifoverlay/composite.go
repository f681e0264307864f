package main

import (
	"github.com/wgdzlh/tifoverlay"
	"github.com/wgdzlh/tifoverlay/grid"

	"github.com/spf13/cobra"
)

var compositeCmd = &cobra.Command{
	Use:   "composite",
	Short: "Clip the raster, burn in the overlay and write the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("output") {
			cfg.Output, _ = flags.GetString("output")
		}
		if flags.Changed("rule") {
			s, _ := flags.GetString("rule")
			if cfg.Rule, err = grid.ParseRule(s); err != nil {
				return err
			}
		}
		if flags.Changed("bbox") {
			cfg.Clip = tifoverlay.ClipConfig{}
			cfg.Clip.BBox, _ = flags.GetFloat64Slice("bbox")
		}
		return tifoverlay.Run(cfg)
	},
}

func init() {
	compositeCmd.Flags().StringP("output", "o", "", "Output raster path")
	compositeCmd.Flags().String("rule", "", "Composite rule: overlay-wins or replace-by-mask")
	compositeCmd.Flags().Float64Slice("bbox", nil, "Clip rectangle minx,miny,maxx,maxy (replaces boundary selection)")
	rootCmd.AddCommand(compositeCmd)
}
