package cmd

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarchlab/plcsim/config"
	"github.com/sarchlab/plcsim/datarecording"
	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/simulation"
	"github.com/sarchlab/plcsim/stimulus"
	"github.com/sarchlab/plcsim/tracing"
)

// resetCommands clears the flags and contexts left by an earlier execution.
func resetCommands(c *cobra.Command) {
	c.SetContext(context.Background())
	c.Flags().VisitAll(func(f *pflag.Flag) {
		Expect(f.Value.Set(f.DefValue)).To(Succeed())
		f.Changed = false
	})

	for _, sub := range c.Commands() {
		resetCommands(sub)
	}
}

func execute(args ...string) string {
	resetCommands(rootCmd)

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	DeferCleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	Expect(rootCmd.Execute()).To(Succeed())

	return out.String()
}

var _ = Describe("Commands", func() {
	It("should list the built-in scripts", func() {
		out := execute("scripts")

		Expect(out).To(ContainSubstring("acceptance"))
		Expect(out).To(ContainSubstring("smoke"))
	})

	It("should encode inputs", func() {
		Expect(execute("encode", "--manual", "--start")).
			To(Equal("ui_in = 0x44 (0b01000100)\n"))
	})

	It("should decode outputs", func() {
		Expect(execute("decode", "0b10")).To(Equal("Control=0 Q=1\n"))
	})

	It("should decode inputs", func() {
		Expect(execute("decode", "--input", "0x28")).
			To(Equal("MAN=0 AUTO=1 START=0 STOP=1\n"))
	})

	It("should run a script and print the summary", func() {
		out := execute("run", "--builtin", "acceptance")

		Expect(out).To(ContainSubstring("presets:   TON=5 CTU=5"))
		Expect(out).To(ContainSubstring("mismatches: 0"))
		Expect(out).To(ContainSubstring("[Check] step cycle-5-done"))
		Expect(out).NotTo(ContainSubstring("Monitoring at"))
	})

	It("should record a window of cycles", func() {
		path := filepath.Join(GinkgoT().TempDir(), "window")

		execute("run", "--builtin", "acceptance", "--record", path,
			"--trace-from", "3", "--trace-to", "10")

		dr, err := datarecording.NewReader(path + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())

		reader := tracing.NewTraceReader(dr)
		DeferCleanup(reader.Close)

		sessions, err := reader.Sessions(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions).To(HaveLen(1))

		ticks, _, err := reader.Ticks(context.Background(),
			tracing.TickQuery{Session: sessions[0].ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(HaveLen(7))
		Expect(ticks[0].Cycle).To(Equal(uint64(3)))
	})

	It("should keep the monitor up after the run until interrupted", func() {
		resetCommands(rootCmd)

		ctx, cancel := context.WithCancel(context.Background())
		DeferCleanup(cancel)
		runCmd.SetContext(ctx)

		out := gbytes.NewBuffer()
		rootCmd.SetOut(out)
		rootCmd.SetArgs([]string{"run", "--builtin", "acceptance", "--monitor", "0"})
		DeferCleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetArgs(nil)
		})

		done := make(chan error, 1)
		go func() { done <- rootCmd.ExecuteContext(ctx) }()

		Eventually(out, "10s").Should(gbytes.Say(`Monitor still serving at `))

		url := regexp.MustCompile(`Monitoring at (\S+)`).
			FindStringSubmatch(string(out.Contents()))
		Expect(url).To(HaveLen(2))

		rsp, err := http.Get(url[1] + "/api/now")
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
		Consistently(done).ShouldNot(Receive())

		cancel()
		Eventually(done, "10s").Should(Receive(BeNil()))

		_, err = http.Get(url[1] + "/api/now")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Helpers", func() {
	DescribeTable("parseByte",
		func(s string, want uint8) {
			v, err := parseByte(s)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(want))
		},
		Entry("decimal", "3", uint8(3)),
		Entry("hex", "0xff", uint8(255)),
		Entry("binary", "0b100", uint8(4)),
	)

	It("should refuse a trace window without a recording", func() {
		resetCommands(rootCmd)
		Expect(runCmd.ParseFlags([]string{"--trace-from", "3"})).To(Succeed())

		_, err := builderFromFlags(runCmd, config.Config{})
		Expect(err).To(MatchError(ContainSubstring("need a recording")))
	})

	It("should refuse an empty trace window", func() {
		resetCommands(rootCmd)
		Expect(runCmd.ParseFlags([]string{
			"--record", "x", "--trace-from", "5", "--trace-to", "5",
		})).To(Succeed())

		_, err := builderFromFlags(runCmd, config.Config{})
		Expect(err).To(MatchError(ContainSubstring("--trace-to")))
	})

	It("should reject values above a byte", func() {
		_, err := parseByte("256")
		Expect(err).To(HaveOccurred())
	})

	It("should default to the smoke script", func() {
		s, err := loadScript("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Name).To(Equal("smoke"))
	})

	It("should refuse both a file and a builtin", func() {
		_, err := loadScript("x.yaml", "smoke")
		Expect(err).To(HaveOccurred())
	})

	It("should load a script from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "s.yaml")
		Expect(os.WriteFile(path,
			[]byte("name: disk\nsteps:\n  - {name: idle, cycles: 2}\n"),
			0o644)).To(Succeed())

		s, err := loadScript(path, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.TotalCycles()).To(Equal(2))
	})
})

var _ = Describe("Report", func() {
	It("should print a recorded run", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		s, err := simulation.MakeBuilder().
			WithScript(mustLoad("acceptance")).
			WithRecording(path).
			Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Run()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())

		dr, err := datarecording.NewReader(path + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())

		reader := tracing.NewTraceReader(dr)
		DeferCleanup(reader.Close)

		out := new(bytes.Buffer)
		err = printReport(context.Background(), out, reader,
			tracing.TickQuery{StartCycle: 2, EndCycle: 4})

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring(
			"Session " + s.ID() + ": acceptance on PLC, TON=5 CTU=5, 2 cycles"))
		Expect(out.String()).To(ContainSubstring("       2   0x44 manual"))
	})
})

func mustLoad(name string) *stimulus.Script {
	s, err := loadScript("", name)
	Expect(err).NotTo(HaveOccurred())

	return s
}

var _ = Describe("State graph", func() {
	It("should draw the registers", func() {
		out := new(bytes.Buffer)

		writeStateGraph(out, plc.ControlState{
			Control: true,
			Counter: plc.CounterState{Count: 3},
		})

		Expect(out.String()).To(ContainSubstring("digraph"))
	})
})
