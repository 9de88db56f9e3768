package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sarchlab/plcsim/config"
	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/sim/timing"
	"github.com/sarchlab/plcsim/simulation"
	"github.com/sarchlab/plcsim/stimulus"
	"github.com/sarchlab/plcsim/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a stimulus script against the controller.",
	Long: "`run --builtin acceptance` plays a built-in script. " +
		"`run --script file.yaml` plays a script from disk. " +
		"Settings are read from .env and PLCSIM_* variables; flags win.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}

		stop := startDiagnostics(cmd)
		defer stop()

		b, err := builderFromFlags(cmd, cfg)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		s, err := b.Build()
		if err != nil {
			log.Fatalf("Error building simulation: %v", err)
		}

		if s.GetMonitor() != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Monitoring at %s\n", s.MonitorURL())
		}

		runErr := s.Run()

		printSummary(cmd.OutOrStdout(), s)

		if err := saveStateGraph(cmd, s.Controller().State()); err != nil {
			log.Printf("Error: %v", err)
		}

		if errors.Is(runErr, simulation.ErrExpectationFailed) {
			for _, m := range s.Checker().Mismatches() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
		}

		if s.GetMonitor() != nil {
			fmt.Fprintf(cmd.OutOrStdout(),
				"Monitor still serving at %s, press Ctrl-C to exit\n",
				s.MonitorURL())

			ctx, cancel := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM)
			s.Serve(ctx)
			cancel()
		}

		if err := s.Terminate(); err != nil {
			log.Printf("Error terminating simulation: %v", err)
		}

		if runErr != nil {
			stop()
			log.Fatalf("Error: %v", runErr)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("script", "", "Path to a YAML stimulus script")
	runCmd.Flags().String("builtin", "", "Name of a built-in script")
	runCmd.Flags().Uint32("ton-preset", 0, "Timer preset in cycles")
	runCmd.Flags().Uint32("ctu-preset", 0, "Counter preset")
	runCmd.Flags().Float64("freq-mhz", 0, "Controller clock in MHz")
	runCmd.Flags().String("record", "",
		"Record every cycle into <path>.sqlite3")
	runCmd.Flags().Uint64("trace-from", 0,
		"First cycle to record")
	runCmd.Flags().Uint64("trace-to", 0,
		"Stop recording before this cycle (0 records to the end)")
	runCmd.Flags().Int("monitor", 0,
		"Serve the monitoring API on this port (0 picks one)")
	runCmd.Flags().Bool("open-browser", false,
		"Open the monitor in a browser")
	runCmd.Flags().Bool("log-events", false,
		"Print every engine event to stderr")
	addDiagnosticFlags(runCmd)
}

func builderFromFlags(
	cmd *cobra.Command,
	cfg config.Config,
) (simulation.Builder, error) {
	flags := cmd.Flags()

	scriptPath, _ := flags.GetString("script")
	builtin, _ := flags.GetString("builtin")

	script, err := loadScript(scriptPath, builtin)
	if err != nil {
		return simulation.Builder{}, err
	}

	b := simulation.MakeBuilder().
		WithScript(script).
		WithDefaultPresets(cfg.Presets).
		WithFreq(cfg.Freq).
		WithCheckLogger(log.New(cmd.OutOrStdout(), "", 0))

	if flags.Changed("ton-preset") {
		v, _ := flags.GetUint32("ton-preset")
		b = b.WithTONPreset(v)
	}

	if flags.Changed("ctu-preset") {
		v, _ := flags.GetUint32("ctu-preset")
		b = b.WithCTUPreset(v)
	}

	if flags.Changed("freq-mhz") {
		mhz, _ := flags.GetFloat64("freq-mhz")

		freq := timing.Freq(mhz) * timing.MHz
		if err := freq.Validate(); err != nil {
			return simulation.Builder{}, err
		}

		b = b.WithFreq(freq)
	}

	record := cfg.RecordPath
	if flags.Changed("record") {
		record, _ = flags.GetString("record")
	}

	if record != "" {
		b = b.WithRecording(record)
	}

	from, _ := flags.GetUint64("trace-from")
	to, _ := flags.GetUint64("trace-to")

	switch {
	case from == 0 && to == 0:
	case record == "":
		return simulation.Builder{}, errors.New(
			"--trace-from and --trace-to need a recording")
	case to != 0 && to <= from:
		return simulation.Builder{}, fmt.Errorf(
			"--trace-to (%d) must be greater than --trace-from (%d)", to, from)
	default:
		b = b.WithTraceWindow(from, to)
	}

	switch {
	case flags.Changed("monitor"):
		port, _ := flags.GetInt("monitor")
		b = b.WithMonitor(port)
	case cfg.MonitorPort > 0:
		b = b.WithMonitor(cfg.MonitorPort)
	}

	if open, _ := flags.GetBool("open-browser"); open {
		b = b.WithBrowser()
	}

	if logEvents, _ := flags.GetBool("log-events"); logEvents {
		b = b.WithEventLogger(log.New(os.Stderr, "", 0))
	}

	return b, nil
}

func loadScript(path, builtin string) (*stimulus.Script, error) {
	switch {
	case path != "" && builtin != "":
		return nil, errors.New("--script and --builtin cannot be used together")
	case path != "":
		return stimulus.LoadFile(path)
	case builtin != "":
		return stimulus.Builtin(builtin)
	default:
		return stimulus.Builtin("smoke")
	}
}

func printSummary(w io.Writer, s *simulation.Simulation) {
	c := s.Controller()
	p := c.Presets()
	edges := s.Edges()

	fmt.Fprintf(w, "Simulation %s\n", s.ID())
	fmt.Fprintf(w, "  presets:   TON=%d CTU=%d\n", p.TON, p.CTU)
	fmt.Fprintf(w, "  cycles:    %d\n", c.NumTicks())
	fmt.Fprintf(w, "  checked:   %d, mismatches: %d\n",
		s.Checker().NumChecked(), len(s.Checker().Mismatches()))
	fmt.Fprintf(w, "  control:   %d rising edges, high for %d cycles\n",
		edges.RisingEdges(tracing.SignalControl),
		edges.HighCycles(tracing.SignalControl))
	fmt.Fprintf(w, "  timer:     %d done edges\n",
		edges.RisingEdges(tracing.SignalTimerDone))

	if cycle, ok := edges.FirstHigh(tracing.SignalQ); ok {
		fmt.Fprintf(w, "  counter:   Q first high at cycle %d\n", cycle)
	} else {
		fmt.Fprintln(w, "  counter:   Q never high")
	}

	for _, m := range []plc.Mode{plc.ModeIdle, plc.ModeManual, plc.ModeAuto} {
		fmt.Fprintf(w, "  %-9s  %d cycles\n", m.String()+":", edges.ModeCycles(m))
	}
}
