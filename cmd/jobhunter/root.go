package main

import (
	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagConfig  string
	flagDebug   bool
	flagJSONLog bool
)

var rootCmd = &cobra.Command{
	Use:           "jobhunter",
	Short:         "jobhunter scrapes job boards, filters and stores postings, and scores them against your resume",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default $JOBHUNTER_DATA_DIR or the current directory)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default <data-dir>/config.yml, created on first run)")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&flagJSONLog, "json", "j", false, "json format for logging")
}
