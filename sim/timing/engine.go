package timing

import "github.com/sarchlab/plcsim/sim/hooking"

// An Engine keeps the discrete event simulation running.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run processes all the events until the simulation finishes.
	Run() error

	// Pause stops the engine from dispatching events until Continue is called.
	Pause()

	// Continue resumes a paused engine.
	Continue()
}
