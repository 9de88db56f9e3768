package controller

import (
	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/sim/hooking"
	"github.com/sarchlab/plcsim/sim/timing"
)

// Builder can build PLC controller components.
type Builder struct {
	engine  timing.EventScheduler
	freq    timing.Freq
	presets plc.Presets
	source  InputSource
}

// MakeBuilder returns a Builder with a 50 MHz clock, a 20-cycle timer and a
// 5-count counter.
func MakeBuilder() Builder {
	return Builder{
		freq:    50 * timing.MHz,
		presets: plc.Presets{TON: 20, CTU: 5},
	}
}

// WithEngine sets the engine that drives the controller.
func (b Builder) WithEngine(engine timing.EventScheduler) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency.
func (b Builder) WithFreq(freq timing.Freq) Builder {
	b.freq = freq
	return b
}

// WithPresets sets the timer and counter presets.
func (b Builder) WithPresets(presets plc.Presets) Builder {
	b.presets = presets
	return b
}

// WithInputSource sets where the pin values come from.
func (b Builder) WithInputSource(source InputSource) Builder {
	b.source = source
	return b
}

// Build creates a controller in the reset state.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		panic("controller: engine is not set")
	}

	if b.source == nil {
		panic("controller: input source is not set")
	}

	if err := b.freq.Validate(); err != nil {
		panic(err)
	}

	c := &Comp{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
		freq:         b.freq,
		program:      plc.NewProgram(b.presets),
		source:       b.source,
	}
	c.TickScheduler = timing.NewTickScheduler(c, b.engine)

	return c
}
