package main

import (
	"github.com/wgdzlh/tifoverlay"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a raster with the boundary outlines to PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		p := cfg.Preview
		flags := cmd.Flags()
		if flags.Changed("raster") {
			p.Raster, _ = flags.GetString("raster")
		}
		if flags.Changed("output") {
			p.Output, _ = flags.GetString("output")
		}
		if flags.Changed("scale") {
			p.Scale, _ = flags.GetInt("scale")
		}
		return tifoverlay.RunPreview(p)
	},
}

func init() {
	previewCmd.Flags().String("raster", "", "Raster to preview")
	previewCmd.Flags().StringP("output", "o", "", "Output PNG path")
	previewCmd.Flags().Int("scale", tifoverlay.DEFAULT_PREVIEW_SCALE, "Pixel upscale factor")
	rootCmd.AddCommand(previewCmd)
}
