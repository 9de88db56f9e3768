package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/sarchlab/plcsim/plc"
)

func addDiagnosticFlags(cmd *cobra.Command) {
	cmd.Flags().String("profile", "",
		"Write a CPU profile into this directory")
	cmd.Flags().String("statsview", "",
		"Serve runtime charts on this address, e.g. localhost:12600")
	cmd.Flags().String("state-graph", "",
		"Write the final registers as a Graphviz file")
}

// startDiagnostics starts the profilers selected on the command line. The
// returned function stops them.
func startDiagnostics(cmd *cobra.Command) func() {
	stops := []func(){}

	if dir, _ := cmd.Flags().GetString("profile"); dir != "" {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath(dir),
			profile.Quiet)
		stops = append(stops, p.Stop)
	}

	if addr, _ := cmd.Flags().GetString("statsview"); addr != "" {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()

		go func() {
			if err := mgr.Start(); err != nil {
				log.Printf("statsview stopped: %v", err)
			}
		}()

		fmt.Fprintf(os.Stderr, "Runtime charts at http://%s/debug/statsview\n",
			addr)
		stops = append(stops, mgr.Stop)
	}

	return func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}
}

func writeStateGraph(w io.Writer, state plc.ControlState) {
	memviz.Map(w, &state)
}

func saveStateGraph(cmd *cobra.Command, state plc.ControlState) error {
	path, _ := cmd.Flags().GetString("state-graph")
	if path == "" {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("state graph: %w", err)
	}
	defer f.Close()

	writeStateGraph(f, state)

	return nil
}
