package sim

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/thetarby/rwsim/internal/event"
)

// Clock is the simulated time source. One goroutine advances it; any
// number may read it.
type Clock struct {
	ticks    atomic.Int64
	maxTicks int64
	interval time.Duration
	bus      *event.Bus
}

// NewClock creates a clock that advances once per interval until it has
// counted maxTicks ticks. bus may be nil.
func NewClock(maxTicks int, interval time.Duration, bus *event.Bus) *Clock {
	return &Clock{
		maxTicks: int64(maxTicks),
		interval: interval,
		bus:      bus,
	}
}

// Now returns the current tick. It may be one tick stale.
func (c *Clock) Now() int64 {
	return c.ticks.Load()
}

// Interval is the wall-clock length of one tick.
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// Run advances the clock until the budget is spent or ctx is done. It
// returns nil in both cases: stopping the clock is not a failure.
func (c *Clock) Run(ctx context.Context) error {
	t := time.NewTicker(c.interval)
	defer t.Stop()

	for c.ticks.Load() < c.maxTicks {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		now := c.ticks.Inc()
		if c.bus != nil {
			c.bus.Publish(event.NewClockTickEvent(now))
		}
	}
	return nil
}

// Sleep suspends the caller for n ticks of wall-clock time.
func (c *Clock) Sleep(n int) {
	time.Sleep(time.Duration(n) * c.interval)
}

// wait sleeps one tick or until ctx is done, reporting false in the
// latter case.
func (c *Clock) wait(ctx context.Context) bool {
	t := time.NewTimer(c.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
