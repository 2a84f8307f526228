package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "imagepick",
	Short: "Pick the most relevant preview image for content records",
	Long: `Imagepick collects content records from feeds and JSON imports, scores
their candidate images against the record's title and keywords, and stores
the chosen preview image for each record.

Pipeline: fetch → select → query`,
}

var debugMode bool

func init() {
	rootCmd.Version = "0.1.0"
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Log candidate rankings and selection decisions")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
