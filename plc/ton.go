package plc

// TimerState holds the registers of the on-delay timer.
type TimerState struct {
	Elapsed uint32
	Done    bool
}

// Step advances the timer by one tick and returns its done signal.
//
// When the timer is not armed it drops all progress. When armed, the elapsed
// count saturates at preset, so done stays asserted for as long as the timer
// stays armed past the preset. A preset of 0 asserts done on the first armed
// tick.
func (t *TimerState) Step(armed bool, preset uint32) bool {
	if !armed {
		t.Elapsed = 0
		t.Done = false

		return false
	}

	if t.Elapsed < preset {
		t.Elapsed++
	}

	t.Done = t.Elapsed >= preset

	return t.Done
}
