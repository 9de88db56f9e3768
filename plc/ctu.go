package plc

// CounterState holds the registers of the up counter.
type CounterState struct {
	Count uint32
	Q     bool
}

// Step counts one rising edge of the count input and returns Q.
//
// The count never goes past preset. Edges that arrive while the counter is
// already at preset are absorbed. Only a full state reset clears the count.
func (c *CounterState) Step(in, prevIn bool, preset uint32) bool {
	edge := in && !prevIn
	if edge && c.Count < preset {
		c.Count++
	}

	c.Q = c.Count >= preset

	return c.Q
}
