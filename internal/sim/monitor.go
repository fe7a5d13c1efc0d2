package sim

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/thetarby/rwsim"
)

// Monitor counts the participants inside the critical section and checks
// the active policy's exclusion guarantee every time one enters.
type Monitor struct {
	policy  rwsim.Policy
	enforce bool

	readers atomic.Int32
	writers atomic.Int32

	maxReaders  atomic.Int32
	maxWriters  atomic.Int32
	maxOccupied atomic.Int32
}

// NewMonitor creates a monitor for p. When enforce is false it only
// records occupancy.
func NewMonitor(p rwsim.Policy, enforce bool) *Monitor {
	return &Monitor{policy: p, enforce: enforce}
}

// Entered records that a participant of the given role is now inside the
// section. It panics with *rwsim.InvariantError if the policy's
// guarantee no longer holds.
func (m *Monitor) Entered(role rwsim.Role) {
	var r, w int32
	if role == rwsim.Writer {
		w = m.writers.Inc()
		r = m.readers.Load()
	} else {
		r = m.readers.Inc()
		w = m.writers.Load()
	}
	raise(&m.maxReaders, r)
	raise(&m.maxWriters, w)
	raise(&m.maxOccupied, r+w)

	if m.enforce {
		m.check(r, w)
	}
}

// Exiting records that a participant is about to leave the section.
func (m *Monitor) Exiting(role rwsim.Role) {
	var n int32
	if role == rwsim.Writer {
		n = m.writers.Dec()
	} else {
		n = m.readers.Dec()
	}
	if n < 0 && m.enforce {
		rwsim.Violation(m.policy, "occupancy", fmt.Sprintf("%v exited a section it never entered", role))
	}
}

func (m *Monitor) check(readers, writers int32) {
	switch m.policy.Kind() {
	case rwsim.Exclusive:
		if readers+writers > 1 {
			rwsim.Violation(m.policy, "occupancy",
				fmt.Sprintf("%d participants inside an exclusive section", readers+writers))
		}
	case rwsim.ReaderPriority, rwsim.FairAccess:
		if writers > 1 {
			rwsim.Violation(m.policy, "occupancy", fmt.Sprintf("%d writers inside the section", writers))
		}
		if writers > 0 && readers > 0 {
			rwsim.Violation(m.policy, "occupancy",
				fmt.Sprintf("%d readers inside the section with a writer", readers))
		}
	}
}

// Occupancy is what the monitor has observed so far.
type Occupancy struct {
	Readers, Writers       int32 // inside now
	MaxReaders, MaxWriters int32
	MaxParticipants        int32 // max readers+writers at once
}

// Occupancy returns the current and peak occupancy.
func (m *Monitor) Occupancy() Occupancy {
	return Occupancy{
		Readers:         m.readers.Load(),
		Writers:         m.writers.Load(),
		MaxReaders:      m.maxReaders.Load(),
		MaxWriters:      m.maxWriters.Load(),
		MaxParticipants: m.maxOccupied.Load(),
	}
}

func raise(peak *atomic.Int32, v int32) {
	for {
		cur := peak.Load()
		if v <= cur || peak.CompareAndSwap(cur, v) {
			return
		}
	}
}
