// Package commands implements the chart-extractor CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/spherical/chart-extractor/cmd/chart-extractor/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "chart-extractor",
	Short: "Extract chart data from PDFs, slide decks and images",
	Long: `chart-extractor renders every page of a document, asks a vision model for
the charts on each page, and writes the data points as XLSX, CSV or JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.InitUI(noColor, verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
