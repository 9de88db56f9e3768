// Package pins maps the program's logical signals onto the device's 8-bit
// input and output buses.
package pins

import "github.com/sarchlab/plcsim/plc"

// Bit positions on ui_in.
const (
	BitStart  = 2
	BitStop   = 3
	BitAuto   = 5
	BitManual = 6
)

// Bit positions on uo_out.
const (
	BitControl = 0
	BitQ       = 1
)

// Pins is the raw pin state sampled at a clock edge. RstN is active low.
type Pins struct {
	UIIn uint8
	RstN bool
	Ena  bool
}

func bit(v uint8, pos uint) bool {
	return v&(1<<pos) != 0
}

func set(v *uint8, pos uint, on bool) {
	if on {
		*v |= 1 << pos
	}
}

// Decode extracts the logical inputs. Unused ui_in bits are ignored.
func Decode(p Pins) plc.Inputs {
	return plc.Inputs{
		Manual: bit(p.UIIn, BitManual),
		Auto:   bit(p.UIIn, BitAuto),
		Start:  bit(p.UIIn, BitStart),
		Stop:   bit(p.UIIn, BitStop),
		Enable: p.Ena,
		Reset:  !p.RstN,
	}
}

// Encode is the inverse of Decode.
func Encode(in plc.Inputs) Pins {
	p := Pins{RstN: !in.Reset, Ena: in.Enable}

	set(&p.UIIn, BitManual, in.Manual)
	set(&p.UIIn, BitAuto, in.Auto)
	set(&p.UIIn, BitStart, in.Start)
	set(&p.UIIn, BitStop, in.Stop)

	return p
}

// EncodeOutputs drives uo_out. Bits other than Control and Q read as 0.
func EncodeOutputs(out plc.Outputs) uint8 {
	var v uint8

	set(&v, BitControl, out.Control)
	set(&v, BitQ, out.Q)

	return v
}

// DecodeOutputs reads the logical outputs back from uo_out.
func DecodeOutputs(uoOut uint8) plc.Outputs {
	return plc.Outputs{
		Control: bit(uoOut, BitControl),
		Q:       bit(uoOut, BitQ),
	}
}
