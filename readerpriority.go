package rwsim

import (
	"go.uber.org/atomic"

	"github.com/thetarby/rwsim/internal/syncutil"
)

// readerPriority is the first-reader / last-reader protocol. The first
// reader in takes the resource guard on behalf of every reader and the
// last reader out releases it. A writer only ever touches the resource
// guard, so a steady stream of readers starves writers.
//
// A reader is counted only once the resource guard is held for readers,
// so activeReaders > 0 means no writer can be inside.
type readerPriority struct {
	activeReaders atomic.Int32

	counterGuard  syncutil.Mutex // protects activeReaders transitions
	resourceGuard *guard

	trace Tracer
}

func newReaderPriority(tr Tracer) *readerPriority {
	return &readerPriority{
		resourceGuard: newGuard("resource"),
		trace:         tr,
	}
}

func (p *readerPriority) Enter(role Role) {
	switch role {
	case Reader:
		p.enterReader()
	case Writer:
		p.resourceGuard.acquire()
		p.trace(ResourceAcquired)
	default:
		badRole(p, "Enter", role)
	}
}

func (p *readerPriority) enterReader() {
	p.counterGuard.Lock()
	defer p.counterGuard.Unlock()

	if p.activeReaders.Load() == 0 {
		p.resourceGuard.acquire()
		p.trace(ResourceAcquired)
	}
	p.activeReaders.Inc()
	p.trace(ReaderAdmitted)
}

func (p *readerPriority) Leave(role Role) {
	switch role {
	case Reader:
		p.leaveReader()
	case Writer:
		p.leaveWriter()
	default:
		badRole(p, "Leave", role)
	}
}

// leaveWriter never changes reader bookkeeping, but readers inside mean
// the resource guard belongs to them.
func (p *readerPriority) leaveWriter() {
	if p.activeReaders.Load() > 0 {
		violate(p, "activeReaders", "writer left while readers hold the resource")
	}
	p.trace(ResourceReleased)
	releaseOrDie(p, p.resourceGuard)
}

func (p *readerPriority) leaveReader() {
	p.counterGuard.Lock()
	defer p.counterGuard.Unlock()

	n := p.activeReaders.Dec()
	if n < 0 {
		violate(p, "activeReaders", "reader left without entering")
	}
	p.trace(ReaderDeparted)
	if n == 0 {
		p.trace(ResourceReleased)
		releaseOrDie(p, p.resourceGuard)
	}
}

func (p *readerPriority) Kind() Kind { return ReaderPriority }

func (p *readerPriority) Snapshot() State {
	return State{
		Kind:          ReaderPriority,
		ActiveReaders: p.activeReaders.Load(),
		Guards:        []GuardState{p.resourceGuard.state()},
	}
}
