package tangible

// Combinations is a precomputed, restartable sequence of groups that each
// contain a seed followed by size-1 distinct pool members.
type Combinations[T any] struct {
	groups  [][]T
	current int
}

// NewCombinations enumerates every group of size containing seed, drawing
// the remaining members from pool in pool order. The seed must not be part
// of pool. A size below 2 yields no groups.
func NewCombinations[T any](seed T, pool []T, size int) *Combinations[T] {
	c := &Combinations[T]{}
	if size < 2 {
		return c
	}

	need := size - 1
	picked := make([]T, 0, need)

	var walk func(start int)
	walk = func(start int) {
		if len(picked) == need {
			group := make([]T, 0, size)
			group = append(group, seed)
			group = append(group, picked...)
			c.groups = append(c.groups, group)
			return
		}
		// not enough members left to fill the group
		for i := start; i <= len(pool)-(need-len(picked)); i++ {
			picked = append(picked, pool[i])
			walk(i + 1)
			picked = picked[:len(picked)-1]
		}
	}
	walk(0)
	return c
}

// Next returns the next group, or false when the sequence is exhausted.
func (c *Combinations[T]) Next() ([]T, bool) {
	if c.current >= len(c.groups) {
		return nil, false
	}
	g := c.groups[c.current]
	c.current++
	return g, true
}

// Reset rewinds the sequence.
func (c *Combinations[T]) Reset() {
	c.current = 0
}

// Len returns the number of groups.
func (c *Combinations[T]) Len() int {
	return len(c.groups)
}

// All returns every group in iteration order.
func (c *Combinations[T]) All() [][]T {
	return c.groups
}
