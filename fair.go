package rwsim

import (
	"go.uber.org/atomic"

	"github.com/thetarby/rwsim/internal/syncutil"
)

// fairAccess is the writer-priority protocol. The first waiting writer
// closes readerEntry, so readers that arrive after it queue behind every
// writer; the last writer out reopens it. Readers already inside finish
// normally, which bounds how long a writer waits.
//
// Guard order is fixed: readerEntry before readerCount before resource
// for readers, writerCount before readerEntry and then resource for
// writers. Any other order can deadlock.
type fairAccess struct {
	activeReaders  atomic.Int32
	waitingWriters atomic.Int32 // waiting or active

	readerEntry *guard // closed while any writer is waiting
	readerCount syncutil.Mutex
	writerCount syncutil.Mutex
	resource    *guard

	trace Tracer
}

func newFairAccess(tr Tracer) *fairAccess {
	return &fairAccess{
		readerEntry: newGuard("readerEntry"),
		resource:    newGuard("resource"),
		trace:       tr,
	}
}

func (p *fairAccess) Enter(role Role) {
	switch role {
	case Reader:
		p.enterReader()
	case Writer:
		p.enterWriter()
	default:
		badRole(p, "Enter", role)
	}
}

func (p *fairAccess) Leave(role Role) {
	switch role {
	case Reader:
		p.leaveReader()
	case Writer:
		p.leaveWriter()
	default:
		badRole(p, "Leave", role)
	}
}

func (p *fairAccess) enterReader() {
	p.readerEntry.acquire()
	func() {
		p.readerCount.Lock()
		defer p.readerCount.Unlock()

		if p.activeReaders.Inc() == 1 {
			p.resource.acquire()
			p.trace(ResourceAcquired)
		}
		p.trace(ReaderAdmitted)
	}()
	releaseOrDie(p, p.readerEntry)
}

func (p *fairAccess) leaveReader() {
	p.readerCount.Lock()
	defer p.readerCount.Unlock()

	n := p.activeReaders.Dec()
	if n < 0 {
		violate(p, "activeReaders", "reader left without entering")
	}
	p.trace(ReaderDeparted)
	if n == 0 {
		p.trace(ResourceReleased)
		releaseOrDie(p, p.resource)
	}
}

func (p *fairAccess) enterWriter() {
	func() {
		p.writerCount.Lock()
		defer p.writerCount.Unlock()

		if p.waitingWriters.Inc() == 1 {
			p.readerEntry.acquire()
			p.trace(GateClosed)
		}
	}()
	p.resource.acquire()
	p.trace(ResourceAcquired)
}

func (p *fairAccess) leaveWriter() {
	if p.waitingWriters.Load() <= 0 {
		violate(p, "waitingWriters", "writer left without entering")
	}
	if p.activeReaders.Load() > 0 {
		violate(p, "activeReaders", "writer left while readers hold the resource")
	}
	p.trace(ResourceReleased)
	releaseOrDie(p, p.resource)

	p.writerCount.Lock()
	defer p.writerCount.Unlock()

	if p.waitingWriters.Dec() == 0 {
		p.trace(GateOpened)
		releaseOrDie(p, p.readerEntry)
	}
}

func (p *fairAccess) Kind() Kind { return FairAccess }

func (p *fairAccess) Snapshot() State {
	return State{
		Kind:           FairAccess,
		ActiveReaders:  p.activeReaders.Load(),
		WaitingWriters: p.waitingWriters.Load(),
		Guards: []GuardState{
			p.readerEntry.state(),
			p.resource.state(),
		},
	}
}
