// Package controller wraps the PLC program into a ticking simulation
// component that samples its pins once per clock cycle.
package controller

import (
	"fmt"
	"sync"

	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/plc/pins"
	"github.com/sarchlab/plcsim/sim/hooking"
	"github.com/sarchlab/plcsim/sim/timing"
)

// HookPosTick fires after every evaluated clock cycle. The hook item is a
// TickRecord.
var HookPosTick = &hooking.HookPos{Name: "PLCTick"}

// InputSource provides the pin values at each cycle. It returns false once
// there is nothing left to drive, which stops the component from ticking.
type InputSource interface {
	Sample(cycle timing.VTimeInCycle) (pins.Pins, bool)
}

// TickRecord describes one clock cycle of the controller.
type TickRecord struct {
	Cycle   timing.VTimeInCycle
	Time    timing.VTimeInSec
	Pins    pins.Pins
	Inputs  plc.Inputs
	Mode    plc.Mode
	Outputs plc.Outputs
	UOOut   uint8
	State   plc.ControlState
}

// Comp is the PLC controller component.
type Comp struct {
	*hooking.HookableBase
	*timing.TickScheduler

	name   string
	freq   timing.Freq
	source InputSource

	// mu guards the registers against readers outside the engine goroutine.
	mu         sync.RWMutex
	program    *plc.Program
	numTicks   uint64
	lastRecord TickRecord
}

// Details is a copy of the component state for inspection.
type Details struct {
	Name       string
	Presets    plc.Presets
	NumTicks   uint64
	LastRecord TickRecord
}

// Name returns the name of the component.
func (c *Comp) Name() string {
	return c.name
}

// Start schedules the first tick at the current cycle.
func (c *Comp) Start() {
	c.TickNow()
}

// Handle processes tick events.
func (c *Comp) Handle(event any) error {
	switch event.(type) {
	case *timing.TickEvent:
		if c.Tick() {
			c.TickLater()
		}

		return nil
	default:
		return fmt.Errorf("controller: %s cannot handle event %T",
			c.name, event)
	}
}

// Tick samples the pins, evaluates one cycle of the program and publishes a
// TickRecord. It returns false when the input source is exhausted.
func (c *Comp) Tick() bool {
	cycle := c.Engine.CurrentTime()

	p, ok := c.source.Sample(cycle)
	if !ok {
		return false
	}

	in := pins.Decode(p)

	c.mu.Lock()
	out := c.program.Scan(in)
	rec := TickRecord{
		Cycle:   cycle,
		Time:    c.freq.CyclesToSec(cycle),
		Pins:    p,
		Inputs:  in,
		Mode:    plc.SelectMode(in.Manual, in.Auto),
		Outputs: out,
		UOOut:   pins.EncodeOutputs(out),
		State:   c.program.State(),
	}
	c.numTicks++
	c.lastRecord = rec
	c.mu.Unlock()

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosTick,
		Item:   rec,
	})

	return true
}

// Outputs returns the outputs after the most recent tick.
func (c *Comp) Outputs() plc.Outputs {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.program.Outputs()
}

// UOOut returns the output bus value after the most recent tick.
func (c *Comp) UOOut() uint8 {
	return pins.EncodeOutputs(c.Outputs())
}

// State returns a copy of the program registers.
func (c *Comp) State() plc.ControlState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.program.State()
}

// Presets returns the timer and counter presets.
func (c *Comp) Presets() plc.Presets {
	return c.program.Presets()
}

// NumTicks returns how many cycles have been evaluated.
func (c *Comp) NumTicks() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.numTicks
}

// LastRecord returns the record of the most recent tick.
func (c *Comp) LastRecord() TickRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastRecord
}

// Details returns a copy of the state that is safe to read while the engine
// runs.
func (c *Comp) Details() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Details{
		Name:       c.name,
		Presets:    c.program.Presets(),
		NumTicks:   c.numTicks,
		LastRecord: c.lastRecord,
	}
}
