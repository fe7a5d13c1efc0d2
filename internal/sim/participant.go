package sim

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/thetarby/rwsim"
	"github.com/thetarby/rwsim/internal/event"
	"github.com/thetarby/rwsim/internal/manifest"
)

// State is a participant's position in its lifecycle.
type State int32

const (
	Created State = iota
	Entering
	InSection
	Exiting
	Terminated
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Entering:
		return "entering"
	case InSection:
		return "in-section"
	case Exiting:
		return "exiting"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Participant is one reader or writer. It enters the critical section
// once, holds it for its duration and terminates.
type Participant struct {
	ID    int
	Entry manifest.Entry

	state atomic.Int32
}

func newParticipant(id int, e manifest.Entry) *Participant {
	return &Participant{ID: id, Entry: e}
}

// State returns the participant's current lifecycle state.
func (p *Participant) State() State {
	return State(p.state.Load())
}

func (p *Participant) setState(s State) {
	p.state.Store(int32(s))
}

func (p *Participant) run(s *Simulation) {
	role := p.Entry.Role
	log := s.log.WithParticipant(p.ID, role)

	s.publish(event.StepCreated, p, 0)
	log.Debug("participant created", "tick", s.clock.Now(), "duration", p.Entry.Duration)

	p.setState(Entering)
	s.publish(event.StepWaiting, p, 0)

	s.critical(role, func() {
		p.setState(InSection)

		var v int64
		if role == rwsim.Writer {
			v = s.counter.Increment()
		} else {
			v = s.counter.Read()
		}
		s.publish(event.StepEntered, p, v)
		log.Debug("entered critical section", "tick", s.clock.Now(), "counter", v)

		s.clock.Sleep(p.Entry.Duration)

		p.setState(Exiting)
		v = s.counter.Read()
		s.publish(event.StepExited, p, v)
		log.Debug("exiting critical section", "tick", s.clock.Now(), "counter", v)
	})

	p.setState(Terminated)
}
