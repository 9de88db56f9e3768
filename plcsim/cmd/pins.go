package cmd

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/plc/pins"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the ui_in byte for a set of inputs.",
	Long: "`encode --manual --start` prints the ui_in value that drives " +
		"the given inputs.",
	Run: func(cmd *cobra.Command, args []string) {
		in := plc.Inputs{Enable: true}
		in.Manual, _ = cmd.Flags().GetBool("manual")
		in.Auto, _ = cmd.Flags().GetBool("auto")
		in.Start, _ = cmd.Flags().GetBool("start")
		in.Stop, _ = cmd.Flags().GetBool("stop")

		p := pins.Encode(in)
		fmt.Fprintf(cmd.OutOrStdout(), "ui_in = 0x%02x (0b%08b)\n", p.UIIn, p.UIIn)
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <byte>",
	Short: "Explain a uo_out or ui_in byte.",
	Long: "`decode 0x03` explains a uo_out value. With --input the byte " +
		"is read as ui_in. Values accept 0x, 0b and 0o prefixes.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		v, err := parseByte(args[0])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		asInput, _ := cmd.Flags().GetBool("input")
		if asInput {
			printInputs(cmd.OutOrStdout(), v)
			return
		}

		out := pins.DecodeOutputs(v)
		fmt.Fprintf(cmd.OutOrStdout(), "Control=%d Q=%d\n",
			b2i(out.Control), b2i(out.Q))
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().Bool("manual", false, "Select manual mode")
	encodeCmd.Flags().Bool("auto", false, "Select auto mode")
	encodeCmd.Flags().Bool("start", false, "Press start")
	encodeCmd.Flags().Bool("stop", false, "Press stop")

	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Bool("input", false, "Decode the byte as ui_in")
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q: %w", s, err)
	}

	return uint8(v), nil
}

func printInputs(w io.Writer, uiIn uint8) {
	in := pins.Decode(pins.Pins{UIIn: uiIn, RstN: true, Ena: true})
	fmt.Fprintf(w, "MAN=%d AUTO=%d START=%d STOP=%d\n",
		b2i(in.Manual), b2i(in.Auto), b2i(in.Start), b2i(in.Stop))
}

func b2i(b bool) int {
	if b {
		return 1
	}

	return 0
}
