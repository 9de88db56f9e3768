package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/plcsim/stimulus"
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List the built-in stimulus scripts.",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range stimulus.BuiltinNames() {
			s, err := stimulus.Builtin(name)
			if err != nil {
				log.Fatalf("Error loading script %s: %v", name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %3d steps %5d cycles\n",
				name, len(s.Steps), s.TotalCycles())
		}
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
}
