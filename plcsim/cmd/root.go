// Package cmd provides the command-line interface for plcsim.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plcsim",
	Short: "plcsim simulates the PLC_PRG control program cycle by cycle.",
	Long: `plcsim simulates the PLC_PRG control program cycle by cycle. ` +
		`It plays stimulus scripts against the controller, checks the ` +
		`outputs, and can record every cycle into a SQLite file.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
