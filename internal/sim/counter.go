package sim

import (
	"runtime"

	"go.uber.org/atomic"
)

// Counter is the shared datum readers observe and writers increment.
type Counter struct {
	value atomic.Int64
}

// Read returns the current value.
func (c *Counter) Read() int64 {
	return c.value.Load()
}

// Increment adds one and returns the value written. The load and the
// store are separate steps with a yield in between, so without exclusion
// concurrent writers lose updates, as a plain `value += 1` would.
func (c *Counter) Increment() int64 {
	v := c.value.Load() + 1
	runtime.Gosched()
	c.value.Store(v)
	return v
}
