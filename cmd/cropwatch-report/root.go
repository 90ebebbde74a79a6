// cropwatch-report runs the CropWatch analytics offline: point it at a
// crop-production CSV and it prints decline alerts or aggregate series
// without needing the API server or Mongo.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "cropwatch-report",
	Short: "Offline crop yield-decline and trend reports",
	Long: "cropwatch-report loads a regional crop-production CSV (state,\n" +
		"district, crop, season, year, area, production) and prints yield\n" +
		"decline alerts or per-year trend aggregates.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(declinesCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
