package tangible

// MeanCalculator keeps a running arithmetic mean.
type MeanCalculator struct {
	sum   float64
	count int
}

// Add records a value and returns the updated mean.
func (c *MeanCalculator) Add(value float64) float64 {
	c.count++
	c.sum += value
	return c.Mean()
}

// Mean returns the current mean, zero before the first value.
func (c *MeanCalculator) Mean() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}

// Count returns how many values were added.
func (c *MeanCalculator) Count() int {
	return c.count
}
