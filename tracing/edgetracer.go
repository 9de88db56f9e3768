package tracing

import (
	"github.com/sarchlab/plcsim/controller"
	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/sim/hooking"
)

// Signals tracked by EdgeTracer.
const (
	SignalControl   = "Control"
	SignalQ         = "Q"
	SignalTimerDone = "TimerDone"
)

// EdgeTracer counts rising edges and high cycles of the program's signals.
type EdgeTracer struct {
	prev      map[string]bool
	edges     map[string]uint64
	high      map[string]uint64
	firstHigh map[string]uint64
	ticks     uint64
	modes     map[plc.Mode]uint64
}

// NewEdgeTracer creates an EdgeTracer with every counter at zero.
func NewEdgeTracer() *EdgeTracer {
	return &EdgeTracer{
		prev:      make(map[string]bool),
		edges:     make(map[string]uint64),
		high:      make(map[string]uint64),
		firstHigh: make(map[string]uint64),
		modes:     make(map[plc.Mode]uint64),
	}
}

// Func updates the counters from a tick record.
func (t *EdgeTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != controller.HookPosTick {
		return
	}

	rec, ok := ctx.Item.(controller.TickRecord)
	if !ok {
		return
	}

	t.ticks++
	t.modes[rec.Mode]++

	t.observe(SignalControl, rec.Outputs.Control, uint64(rec.Cycle))
	t.observe(SignalQ, rec.Outputs.Q, uint64(rec.Cycle))
	t.observe(SignalTimerDone, rec.State.Timer.Done, uint64(rec.Cycle))
}

func (t *EdgeTracer) observe(signal string, v bool, cycle uint64) {
	if v && !t.prev[signal] {
		if _, seen := t.firstHigh[signal]; !seen {
			t.firstHigh[signal] = cycle
		}

		t.edges[signal]++
	}

	if v {
		t.high[signal]++
	}

	t.prev[signal] = v
}

// RisingEdges returns how many times a signal went from low to high.
func (t *EdgeTracer) RisingEdges(signal string) uint64 {
	return t.edges[signal]
}

// HighCycles returns how many ticks a signal was high.
func (t *EdgeTracer) HighCycles(signal string) uint64 {
	return t.high[signal]
}

// FirstHigh returns the first cycle a signal was high.
func (t *EdgeTracer) FirstHigh(signal string) (uint64, bool) {
	c, ok := t.firstHigh[signal]
	return c, ok
}

// Ticks returns the number of ticks observed.
func (t *EdgeTracer) Ticks() uint64 {
	return t.ticks
}

// ModeCycles returns how many ticks were spent in a mode.
func (t *EdgeTracer) ModeCycles(m plc.Mode) uint64 {
	return t.modes[m]
}
