package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "rollstat",
	Short:   "Rolling-window statistics toolkit",
	Version: version,
	Long: `Rollstat maintains aggregates over sliding time windows: latency
histograms backed by chunked rolling accumulators and lock-free hit
ratio counters. The bench subcommand drives synthetic load through
them and reports what the rolling window sees.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(benchCmd)
}
