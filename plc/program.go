// Package plc implements the PLC_PRG control program: a mode-arbitrated
// control latch, an on-delay timer and an up counter evaluated once per tick.
package plc

// Inputs are the signals sampled at the start of a tick.
type Inputs struct {
	Manual bool
	Auto   bool
	Start  bool
	Stop   bool
	Enable bool
	Reset  bool
}

// Outputs are the registered outputs of the program.
type Outputs struct {
	Control bool
	Q       bool
}

// Presets configures the timer and counter.
type Presets struct {
	TON uint32
	CTU uint32
}

// ControlState is the full register set of the program. The zero value is the
// reset state.
type ControlState struct {
	Control       bool
	Timer         TimerState
	Counter       CounterState
	PrevTimerDone bool
}

// Outputs returns the outputs currently held in the registers.
func (s *ControlState) Outputs() Outputs {
	return Outputs{Control: s.Control, Q: s.Counter.Q}
}

// Step evaluates one tick of the program.
//
// Reset clears every register and wins over all other inputs, including
// Enable. A tick with Enable low evaluates nothing and returns the outputs of
// the previous tick. Otherwise the mode arbiter arms the timer, the timer
// advances, the counter sees the timer's done edge from this same tick, and
// finally the control latch is committed.
func Step(s *ControlState, in Inputs, p Presets) Outputs {
	if in.Reset {
		*s = ControlState{}
		return Outputs{}
	}

	if !in.Enable {
		return s.Outputs()
	}

	d := Arbitrate(in)
	done := s.Timer.Step(d.TONArmed, p.TON)

	s.Counter.Step(done, s.PrevTimerDone, p.CTU)
	s.PrevTimerDone = done

	s.Control = d.Control(in, done)

	return s.Outputs()
}

// Program binds a register set to its presets.
type Program struct {
	state   ControlState
	presets Presets
}

// NewProgram creates a program in the reset state.
func NewProgram(p Presets) *Program {
	return &Program{presets: p}
}

// Scan runs one tick.
func (p *Program) Scan(in Inputs) Outputs {
	return Step(&p.state, in, p.presets)
}

// State returns a copy of the registers.
func (p *Program) State() ControlState {
	return p.state
}

// Outputs returns the outputs held after the last tick.
func (p *Program) Outputs() Outputs {
	return p.state.Outputs()
}

// Presets returns the configured presets.
func (p *Program) Presets() Presets {
	return p.presets
}
