package event

import (
	"time"

	"github.com/thetarby/rwsim"
)

// Event is the interface that all events implement.
type Event interface {
	// EventType returns a "category.action" identifier.
	EventType() string
	// Timestamp returns the wall-clock time the event was created.
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// Event type identifiers.
const (
	TypeParticipantCreated  = "participant.created"
	TypeParticipantWaiting  = "participant.waiting"
	TypeParticipantEntered  = "participant.entered"
	TypeParticipantExited   = "participant.exited"
	TypeClockTick           = "clock.tick"
	TypeSimulationStarted   = "simulation.started"
	TypeSimulationCompleted = "simulation.completed"
)

// -----------------------------------------------------------------------------
// Participant Events
// -----------------------------------------------------------------------------

// Step is the lifecycle step a ParticipantEvent reports.
type Step string

const (
	StepCreated Step = "created"
	StepWaiting Step = "waiting"
	StepEntered Step = "entered"
	StepExited  Step = "exited"
)

// ParticipantEvent reports one lifecycle step of a reader or writer.
type ParticipantEvent struct {
	baseEvent
	ID       int
	Role     rwsim.Role
	Step     Step
	Tick     int64 // simulated time
	Duration int   // hold time in ticks
	// Counter is the shared counter value: what a reader read or a writer
	// wrote on entry, the current value on exit. Zero for created/waiting.
	Counter int64
}

// NewParticipantEvent creates a ParticipantEvent for the given step.
func NewParticipantEvent(step Step, id int, role rwsim.Role, tick int64, duration int, counter int64) ParticipantEvent {
	return ParticipantEvent{
		baseEvent: newBaseEvent("participant." + string(step)),
		ID:        id,
		Role:      role,
		Step:      step,
		Tick:      tick,
		Duration:  duration,
		Counter:   counter,
	}
}

// -----------------------------------------------------------------------------
// Clock Events
// -----------------------------------------------------------------------------

// ClockTickEvent is emitted each time the simulated clock advances.
type ClockTickEvent struct {
	baseEvent
	Tick int64
}

// NewClockTickEvent creates a ClockTickEvent.
func NewClockTickEvent(tick int64) ClockTickEvent {
	return ClockTickEvent{
		baseEvent: newBaseEvent(TypeClockTick),
		Tick:      tick,
	}
}

// -----------------------------------------------------------------------------
// Simulation Events
// -----------------------------------------------------------------------------

// SimulationStartedEvent is emitted before the first participant is spawned.
type SimulationStartedEvent struct {
	baseEvent
	Policy       rwsim.Kind
	Participants int
}

// NewSimulationStartedEvent creates a SimulationStartedEvent.
func NewSimulationStartedEvent(policy rwsim.Kind, participants int) SimulationStartedEvent {
	return SimulationStartedEvent{
		baseEvent:    newBaseEvent(TypeSimulationStarted),
		Policy:       policy,
		Participants: participants,
	}
}

// SimulationCompletedEvent is emitted once every participant and the clock
// have terminated.
type SimulationCompletedEvent struct {
	baseEvent
	Policy       rwsim.Kind
	Participants int
	Counter      int64
	Tick         int64
}

// NewSimulationCompletedEvent creates a SimulationCompletedEvent.
func NewSimulationCompletedEvent(policy rwsim.Kind, participants int, counter, tick int64) SimulationCompletedEvent {
	return SimulationCompletedEvent{
		baseEvent:    newBaseEvent(TypeSimulationCompleted),
		Policy:       policy,
		Participants: participants,
		Counter:      counter,
		Tick:         tick,
	}
}
