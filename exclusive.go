package rwsim

// exclusive admits one participant of any role at a time. Waiters are
// admitted in whatever order the semaphore wakes them; arrival order is
// not preserved.
//
// The guard carries no owner, so a stray Leave is only caught when the
// guard is free. A Leave issued while another participant is inside
// releases that participant's hold. Entering twice from the same
// goroutine blocks forever.
type exclusive struct {
	mutex *guard
	trace Tracer
}

func newExclusive(tr Tracer) *exclusive {
	return &exclusive{
		mutex: newGuard("mutex"),
		trace: tr,
	}
}

func (p *exclusive) Enter(role Role) {
	if role != Reader && role != Writer {
		badRole(p, "Enter", role)
	}
	p.mutex.acquire()
	p.trace(ResourceAcquired)
}

func (p *exclusive) Leave(role Role) {
	if role != Reader && role != Writer {
		badRole(p, "Leave", role)
	}
	p.trace(ResourceReleased)
	releaseOrDie(p, p.mutex)
}

func (p *exclusive) Kind() Kind { return Exclusive }

func (p *exclusive) Snapshot() State {
	return State{
		Kind:   Exclusive,
		Guards: []GuardState{p.mutex.state()},
	}
}
