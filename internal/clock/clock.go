// File: clock.go
// Brief: Fixed-width vector clock over thread ids

package clock

// Clock is a fixed-width, nonnegative-integer vector clock. Index i holds
// the index of the most recent transition known to have been executed by
// thread i, or 0 if no such transition is known. All operations are O(n)
// in the width of the clock.
type Clock struct {
	entries []int
}

// New creates a zero-initialized clock of the given width
func New(n int) *Clock {
	if n < 0 {
		n = 0
	}
	return &Clock{entries: make([]int, n)}
}

// CopyExtend copies the first min(n, len(other)) entries of other into a
// new width-n clock, zero-filling any remaining entries
func CopyExtend(other *Clock, n int) *Clock {
	c := New(n)
	limit := n
	if other.Len() < limit {
		limit = other.Len()
	}
	copy(c.entries, other.entries[:limit])
	return c
}

// Copy returns an independent copy of the clock
func (c *Clock) Copy() *Clock {
	cp := New(c.Len())
	copy(cp.entries, c.entries)
	return cp
}

// Len returns the width of the clock
func (c *Clock) Len() int {
	return len(c.entries)
}

// Get returns the value at index i, or 0 if i is out of range
func (c *Clock) Get(i int) int {
	if i < 0 || i >= len(c.entries) {
		return 0
	}
	return c.entries[i]
}

// Set sets the value at index i. Out-of-range indices are ignored
func (c *Clock) Set(i, v int) {
	if i < 0 || i >= len(c.entries) {
		return
	}
	c.entries[i] = v
}

// PointwiseMax sets self[i] <- max(self[i], other[i]) for every i.
// Precondition: len(self) == len(other).
func (c *Clock) PointwiseMax(other *Clock) {
	for i := range c.entries {
		if other.entries[i] > c.entries[i] {
			c.entries[i] = other.entries[i]
		}
	}
}

// FilterGreaterThan sets self[i] <- 0 wherever self[i] <= other[i].
// Precondition: len(self) == len(other).
func (c *Clock) FilterGreaterThan(other *Clock) {
	for i := range c.entries {
		if c.entries[i] <= other.entries[i] {
			c.entries[i] = 0
		}
	}
}

// MinElement returns the minimum entry of the clock, or 0 for a width-0 clock
func (c *Clock) MinElement() int {
	if len(c.entries) == 0 {
		return 0
	}
	m := c.entries[0]
	for _, v := range c.entries[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// MaxElement returns the maximum entry of the clock, or 0 for a width-0 clock
func (c *Clock) MaxElement() int {
	m := 0
	for _, v := range c.entries {
		if v > m {
			m = v
		}
	}
	return m
}

// ArgMax returns the index of the (first, lowest-index) maximal entry and
// its value. Returns (-1, 0) for a width-0 clock.
func (c *Clock) ArgMax() (int, int) {
	if len(c.entries) == 0 {
		return -1, 0
	}
	argmax, max := 0, c.entries[0]
	for i, v := range c.entries {
		if v > max {
			argmax, max = i, v
		}
	}
	return argmax, max
}

// IndicesWhere returns the set of indices i for which pred(self[i]) holds
func (c *Clock) IndicesWhere(pred func(v int) bool) []int {
	var out []int
	for i, v := range c.entries {
		if pred(v) {
			out = append(out, i)
		}
	}
	return out
}

// ValuesWhere returns the set of values v = self[i] for which pred(v) holds
func (c *Clock) ValuesWhere(pred func(v int) bool) []int {
	var out []int
	for _, v := range c.entries {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// Equal reports whether two clocks of equal width hold the same entries
func (c *Clock) Equal(other *Clock) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i, v := range c.entries {
		if other.entries[i] != v {
			return false
		}
	}
	return true
}
