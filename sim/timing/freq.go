package timing

import (
	"errors"
	"fmt"
)

// VTimeInCycle is simulated time counted in clock cycles of the global clock.
type VTimeInCycle uint64

// VTimeInSec is simulated time in seconds.
type VTimeInSec float64

// Freq is a clock frequency in Hz.
type Freq float64

// Units of frequency.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// ErrZeroFrequency is returned when a clock is configured with 0 Hz.
var ErrZeroFrequency = errors.New("timing: frequency must be positive")

// Validate reports whether the frequency can drive a clock.
func (f Freq) Validate() error {
	if f <= 0 {
		return fmt.Errorf("%w: got %g Hz", ErrZeroFrequency, float64(f))
	}

	return nil
}

// Period returns the time between two consecutive ticks.
func (f Freq) Period() VTimeInSec {
	if f <= 0 {
		panic("timing: frequency cannot be 0")
	}

	return VTimeInSec(1.0 / f)
}

// CyclesToSec converts a cycle count to wall-clock simulated time.
func (f Freq) CyclesToSec(cycles VTimeInCycle) VTimeInSec {
	return VTimeInSec(float64(cycles) * float64(f.Period()))
}
