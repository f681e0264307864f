package main

import (
	"fmt"
	"os"

	"github.com/wgdzlh/tifoverlay"
	"github.com/wgdzlh/tifoverlay/log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "tifoverlay",
	Short:         "Burn a grayscale overlay mask into a clipped raster",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		dev, _ := cmd.Flags().GetBool("dev")
		return log.Init(level, dev)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// 出错时cobra不执行PersistentPostRun，故在此统一刷新日志
func execute() error {
	defer log.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file (defaults reproduce the Malawi run)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("dev", false, "Human readable console logs")
}

func loadConfig(cmd *cobra.Command) (cfg tifoverlay.Config, err error) {
	path, _ := cmd.Flags().GetString("config")
	return tifoverlay.LoadConfig(path)
}
