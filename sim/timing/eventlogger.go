package timing

import (
	"log"
	"reflect"

	"github.com/sarchlab/plcsim/sim/hooking"
)

// EventLogger is a hook that prints every dispatched event.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger returns an EventLogger that writes into logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)

	h.logger = logger

	return h
}

type named interface {
	Name() string
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(*ScheduledEvent)
	if !ok {
		return
	}

	if comp, ok := evt.Handler.(named); ok {
		h.logger.Printf("%d, %s -> %s",
			evt.Time, reflect.TypeOf(evt.Event), comp.Name())
		return
	}

	h.logger.Printf("%d, %s", evt.Time, reflect.TypeOf(evt.Event))
}
