package stimulus

import (
	"sort"

	"github.com/sarchlab/plcsim/plc/pins"
	"github.com/sarchlab/plcsim/sim/timing"
)

// Player replays a script one cycle at a time.
type Player struct {
	script *Script

	// ends[i] is the first cycle after step i.
	ends []timing.VTimeInCycle
}

// NewPlayer prepares a script for replay. The script must be valid.
func NewPlayer(s *Script) *Player {
	p := &Player{script: s}

	var end timing.VTimeInCycle
	for _, step := range s.Steps {
		end += timing.VTimeInCycle(step.Cycles)
		p.ends = append(p.ends, end)
	}

	return p
}

// StepAt returns the index of the step active at cycle, or false after the
// end of the script.
func (p *Player) StepAt(cycle timing.VTimeInCycle) (int, bool) {
	i := sort.Search(len(p.ends), func(i int) bool {
		return p.ends[i] > cycle
	})

	return i, i < len(p.ends)
}

// IsLastCycleOf reports whether cycle is the final cycle of step i.
func (p *Player) IsLastCycleOf(i int, cycle timing.VTimeInCycle) bool {
	return p.ends[i] == cycle+1
}

// Sample returns the pins for a cycle.
func (p *Player) Sample(cycle timing.VTimeInCycle) (pins.Pins, bool) {
	i, ok := p.StepAt(cycle)
	if !ok {
		return pins.Pins{}, false
	}

	return p.script.Steps[i].Pins(), true
}

// Script returns the script being played.
func (p *Player) Script() *Script {
	return p.script
}
