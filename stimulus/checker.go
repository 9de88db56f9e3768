package stimulus

import (
	"fmt"
	"log"

	"github.com/sarchlab/plcsim/controller"
	"github.com/sarchlab/plcsim/sim/hooking"
)

// Mismatch is an output that differed from the script's expectation.
type Mismatch struct {
	Step   string
	Cycle  uint64
	Signal string
	Want   bool
	Got    bool
}

func (m Mismatch) String() string {
	return fmt.Sprintf("step %q @ cycle %d: %s = %d, want %d",
		m.Step, m.Cycle, m.Signal, b2i(m.Got), b2i(m.Want))
}

func b2i(b bool) int {
	if b {
		return 1
	}

	return 0
}

// Checker is a hook on the controller that compares outputs against the
// expectations of the script being played.
type Checker struct {
	player     *Player
	logger     *log.Logger
	mismatches []Mismatch
	checked    int
}

// NewChecker creates a checker for the script played by p.
func NewChecker(p *Player) *Checker {
	return &Checker{player: p}
}

// WithLogger makes the checker report the outputs at the end of every step.
func (c *Checker) WithLogger(l *log.Logger) *Checker {
	c.logger = l
	return c
}

// Func checks the tick record carried by the hook context.
func (c *Checker) Func(ctx hooking.HookCtx) {
	if ctx.Pos != controller.HookPosTick {
		return
	}

	rec, ok := ctx.Item.(controller.TickRecord)
	if !ok {
		return
	}

	i, ok := c.player.StepAt(rec.Cycle)
	if !ok || !c.player.IsLastCycleOf(i, rec.Cycle) {
		return
	}

	step := c.player.Script().Steps[i]
	name := step.Name
	if name == "" {
		name = fmt.Sprintf("#%d", i)
	}

	if c.logger != nil {
		c.logger.Printf("[Check] step %s @ cycle %d: Control=%d Q=%d",
			name, rec.Cycle, b2i(rec.Outputs.Control), b2i(rec.Outputs.Q))
	}

	if step.Expect == nil {
		return
	}

	c.checked++
	c.compare(name, uint64(rec.Cycle), "Control",
		step.Expect.Control, rec.Outputs.Control)
	c.compare(name, uint64(rec.Cycle), "Q", step.Expect.Q, rec.Outputs.Q)
}

func (c *Checker) compare(step string, cycle uint64, signal string,
	want *bool, got bool,
) {
	if want == nil || *want == got {
		return
	}

	m := Mismatch{Step: step, Cycle: cycle, Signal: signal, Want: *want, Got: got}
	c.mismatches = append(c.mismatches, m)

	if c.logger != nil {
		c.logger.Printf("[Mismatch] %s", m)
	}
}

// Mismatches returns every failed expectation seen so far.
func (c *Checker) Mismatches() []Mismatch {
	return c.mismatches
}

// NumChecked returns how many steps with expectations have been verified.
func (c *Checker) NumChecked() int {
	return c.checked
}
