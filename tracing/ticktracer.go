// Package tracing turns controller tick records into persistent traces and
// summaries.
package tracing

import (
	"sync"

	"github.com/sarchlab/plcsim/controller"
	"github.com/sarchlab/plcsim/datarecording"
	"github.com/sarchlab/plcsim/sim/hooking"
	"github.com/sarchlab/plcsim/sim/id"
)

// Table names written by TickTracer.
const (
	TickTableName    = "plc_ticks"
	SessionTableName = "plc_sessions"
)

// TickRow is one clock cycle as stored in the tick table.
type TickRow struct {
	Session   string
	Component string
	Cycle     uint64
	Time      float64
	UIIn      uint8
	RstN      bool
	Ena       bool
	Mode      string
	Control   bool
	Q         bool
	UOOut     uint8
	Elapsed   uint32
	TimerDone bool
	Count     uint32
}

// SessionRow describes one traced run.
type SessionRow struct {
	ID        string
	Component string
	Script    string
	TONPreset uint32
	CTUPreset uint32
	FreqHz    float64
}

// TickTracer records every controller tick into a DataRecorder.
type TickTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder
	session string

	startCycle, endCycle uint64
	hasWindow            bool
}

// NewTickTracer creates the tables and writes the session row.
func NewTickTracer(
	backend datarecording.DataRecorder,
	session SessionRow,
) *TickTracer {
	if session.ID == "" {
		session.ID = id.NewGlobalIDGenerator().Generate()
	}

	backend.CreateTable(SessionTableName, SessionRow{})
	backend.CreateTable(TickTableName, TickRow{})
	backend.InsertData(SessionTableName, session)

	return &TickTracer{
		backend: backend,
		session: session.ID,
	}
}

// SetWindow restricts tracing to cycles in [start, end).
func (t *TickTracer) SetWindow(start, end uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startCycle = start
	t.endCycle = end
	t.hasWindow = true
}

// Session returns the session ID written with every row.
func (t *TickTracer) Session() string {
	return t.session
}

// Func records the tick record carried by the hook context.
func (t *TickTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != controller.HookPosTick {
		return
	}

	rec, ok := ctx.Item.(controller.TickRecord)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cycle := uint64(rec.Cycle)
	if t.hasWindow && (cycle < t.startCycle || cycle >= t.endCycle) {
		return
	}

	compName := ""
	if n, ok := ctx.Domain.(interface{ Name() string }); ok {
		compName = n.Name()
	}

	t.backend.InsertData(TickTableName, TickRow{
		Session:   t.session,
		Component: compName,
		Cycle:     cycle,
		Time:      float64(rec.Time),
		UIIn:      rec.Pins.UIIn,
		RstN:      rec.Pins.RstN,
		Ena:       rec.Pins.Ena,
		Mode:      rec.Mode.String(),
		Control:   rec.Outputs.Control,
		Q:         rec.Outputs.Q,
		UOOut:     rec.UOOut,
		Elapsed:   rec.State.Timer.Elapsed,
		TimerDone: rec.State.Timer.Done,
		Count:     rec.State.Counter.Count,
	})
}

// Flush forces buffered rows into the backend.
func (t *TickTracer) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.Flush()
}
