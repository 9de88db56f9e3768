package plc

// Mode is the operating mode selected for a tick.
type Mode int

// Modes returned by SelectMode. Manual wins over Auto when both are selected.
const (
	ModeIdle Mode = iota
	ModeAuto
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeAuto:
		return "auto"
	case ModeManual:
		return "manual"
	default:
		return "unknown"
	}
}

// SelectMode resolves the two mode-select inputs into a single mode.
func SelectMode(manual, auto bool) Mode {
	switch {
	case manual:
		return ModeManual
	case auto:
		return ModeAuto
	default:
		return ModeIdle
	}
}

// Decision is the result of mode arbitration for one tick.
type Decision struct {
	Mode     Mode
	TONArmed bool
}

// Arbitrate selects the mode and decides whether the timer is armed.
func Arbitrate(in Inputs) Decision {
	d := Decision{Mode: SelectMode(in.Manual, in.Auto)}

	if d.Mode == ModeAuto {
		d.TONArmed = in.Start
	}

	return d
}

// Control returns the next value of the control latch given the timer output
// of the same tick.
func (d Decision) Control(in Inputs, tonDone bool) bool {
	switch d.Mode {
	case ModeManual:
		return in.Start
	case ModeAuto:
		if in.Stop {
			return false
		}

		return tonDone
	default:
		return false
	}
}
