package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/plcsim/controller"
	"github.com/sarchlab/plcsim/sim/hooking"
)

// A ProgressBar tracks how many cycles of a run have been evaluated.
type ProgressBar struct {
	sync.Mutex
	ID        string
	Name      string
	StartTime time.Time
	Total     uint64
	Finished  uint64
}

// ProgressReport is a point-in-time copy of a ProgressBar.
type ProgressReport struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
}

// IncrementFinished adds a certain amount to finished cycles.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// Snapshot returns a copy safe to encode while the run continues.
func (b *ProgressBar) Snapshot() ProgressReport {
	b.Lock()
	defer b.Unlock()

	return ProgressReport{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Finished:  b.Finished,
	}
}

// Func advances the bar by one for every controller tick.
func (b *ProgressBar) Func(ctx hooking.HookCtx) {
	if ctx.Pos != controller.HookPosTick {
		return
	}

	b.IncrementFinished(1)
}
