package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thetarby/rwsim"
	"github.com/thetarby/rwsim/internal/event"
	"github.com/thetarby/rwsim/internal/manifest"
)

func TestPrinter_ParticipantLines(t *testing.T) {
	var buf bytes.Buffer
	bus := event.NewBus()
	p := NewPrinter(&buf, Options{Color: true})
	p.Attach(bus)

	bus.Publish(event.NewParticipantEvent(event.StepCreated, 0, rwsim.Reader, 0, 3, 0))
	bus.Publish(event.NewParticipantEvent(event.StepWaiting, 0, rwsim.Reader, 0, 3, 0))
	bus.Publish(event.NewParticipantEvent(event.StepEntered, 0, rwsim.Reader, 0, 3, 0))
	bus.Publish(event.NewParticipantEvent(event.StepEntered, 2, rwsim.Writer, 5, 3, 1))
	bus.Publish(event.NewParticipantEvent(event.StepExited, 2, rwsim.Writer, 8, 3, 1))

	want := strings.Join([]string{
		"** Reader 0 is created, time=0",
		"-> Reader 0 enters critical section, duration=3, time=0",
		"-> Writer 2 enters critical section, duration=3, time=5",
		"     <- Writer 2 exits critical section, critical = 1, time=8",
		"",
	}, "\n")
	// A buffer is not a terminal, so no escape sequences are written.
	assert.Equal(t, want, buf.String())
}

func TestPrinter_VerboseShowsWaiting(t *testing.T) {
	var buf bytes.Buffer
	bus := event.NewBus()
	NewPrinter(&buf, Options{Verbose: true}).Attach(bus)

	bus.Publish(event.NewParticipantEvent(event.StepWaiting, 4, rwsim.Writer, 4, 4, 0))

	assert.Equal(t, ".. Writer 4 waits for the critical section, time=4\n", buf.String())
}

func TestPrinter_SimulationLines(t *testing.T) {
	var buf bytes.Buffer
	bus := event.NewBus()
	p := NewPrinter(&buf, Options{})
	p.Attach(bus)

	bus.Publish(event.NewSimulationStartedEvent(rwsim.FairAccess, 5))
	bus.Publish(event.NewSimulationCompletedEvent(rwsim.FairAccess, 5, 2, 12))

	out := buf.String()
	assert.Contains(t, out, "Policy: fair")
	assert.Contains(t, out, "Players are created")
	assert.Contains(t, out, "Simulation complete: policy=fair players=5 critical=2 time=12")
}

func TestPrinter_PrintManifest(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, Options{})

	p.PrintManifest(manifest.Manifest{{Role: rwsim.Reader, Duration: 3}, {Role: rwsim.Writer, Duration: 4}})

	assert.Equal(t, "\nData that was loaded\nNumber of players = 2\nPlayer 0: type=R duration=3\nPlayer 1: type=W duration=4\n", buf.String())
}

func TestPrinter_Detach(t *testing.T) {
	var buf bytes.Buffer
	bus := event.NewBus()
	p := NewPrinter(&buf, Options{})
	p.Attach(bus)
	p.Detach()
	p.Detach()

	bus.Publish(event.NewParticipantEvent(event.StepCreated, 0, rwsim.Reader, 0, 1, 0))
	assert.Empty(t, buf.String())
	assert.Zero(t, bus.SubscriptionCount())
}
