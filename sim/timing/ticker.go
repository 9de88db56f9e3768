package timing

import "sync"

// TickEvent asks a component to update its state for one cycle.
type TickEvent struct {
	Cycle VTimeInCycle
}

// A Ticker is an object that updates states with ticks. Tick reports whether
// the ticker wants to be ticked again in the next cycle.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events for a handler, at most one per cycle.
type TickScheduler struct {
	lock    sync.Mutex
	handler Handler
	Engine  EventScheduler

	scheduled    bool
	nextTickTime VTimeInCycle
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(handler Handler, engine EventScheduler) *TickScheduler {
	return &TickScheduler{
		handler: handler,
		Engine:  engine,
	}
}

// TickNow schedules a tick at the current cycle.
func (t *TickScheduler) TickNow() {
	t.scheduleAt(t.Engine.CurrentTime())
}

// TickLater schedules a tick at the cycle after the current one.
func (t *TickScheduler) TickLater() {
	t.scheduleAt(t.Engine.CurrentTime() + 1)
}

func (t *TickScheduler) scheduleAt(cycle VTimeInCycle) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.scheduled && t.nextTickTime >= cycle {
		return
	}

	t.scheduled = true
	t.nextTickTime = cycle

	t.Engine.Schedule(ScheduledEvent{
		Event:   &TickEvent{Cycle: cycle},
		Time:    cycle,
		Handler: t.handler,
	})
}
