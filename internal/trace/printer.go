// Package trace prints a human-readable account of a simulation run, one
// line per participant step, in the classic readers and writers format.
package trace

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/thetarby/rwsim"
	"github.com/thetarby/rwsim/internal/event"
	"github.com/thetarby/rwsim/internal/manifest"
)

var (
	readerColor = lipgloss.Color("#60A5FA") // Blue
	writerColor = lipgloss.Color("#F59E0B") // Amber
	mutedColor  = lipgloss.Color("#9CA3AF") // Gray
	doneColor   = lipgloss.Color("#10B981") // Green
)

// Options controls what the printer writes.
type Options struct {
	// Verbose also prints the waiting step.
	Verbose bool
	// Color styles lines when w is a terminal. Output to anything else is
	// always plain.
	Color bool
}

// Printer writes trace lines for events published on a bus. It is safe
// for concurrent use; lines from different participants never interleave.
type Printer struct {
	mu   sync.Mutex
	w    io.Writer
	opts Options

	reader, writer, muted, done lipgloss.Style

	subs []string
	bus  *event.Bus
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, opts Options) *Printer {
	r := lipgloss.NewRenderer(w)
	p := &Printer{
		w:      w,
		opts:   opts,
		reader: r.NewStyle(),
		writer: r.NewStyle(),
		muted:  r.NewStyle(),
		done:   r.NewStyle(),
	}
	if opts.Color {
		p.reader = p.reader.Foreground(readerColor)
		p.writer = p.writer.Foreground(writerColor)
		p.muted = p.muted.Foreground(mutedColor)
		p.done = p.done.Foreground(doneColor).Bold(true)
	}
	return p
}

// Attach subscribes the printer to participant and simulation events.
func (p *Printer) Attach(bus *event.Bus) {
	p.bus = bus
	for _, typ := range []string{
		event.TypeParticipantCreated,
		event.TypeParticipantWaiting,
		event.TypeParticipantEntered,
		event.TypeParticipantExited,
		event.TypeSimulationStarted,
		event.TypeSimulationCompleted,
	} {
		p.subs = append(p.subs, bus.Subscribe(typ, p.handle))
	}
}

// Detach removes the printer's subscriptions.
func (p *Printer) Detach() {
	if p.bus == nil {
		return
	}
	for _, id := range p.subs {
		p.bus.Unsubscribe(id)
	}
	p.subs = nil
	p.bus = nil
}

// PrintManifest echoes a loaded manifest before the clock starts.
func (p *Printer) PrintManifest(m manifest.Manifest) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, "Data that was loaded")
	fmt.Fprintf(p.w, "Number of players = %d\n", len(m))
	for i, e := range m {
		fmt.Fprintf(p.w, "Player %d: type=%s duration=%d\n", i, e.Role.Tag(), e.Duration)
	}
}

func (p *Printer) handle(e event.Event) {
	switch ev := e.(type) {
	case event.ParticipantEvent:
		p.participant(ev)
	case event.SimulationStartedEvent:
		p.println(p.muted.Render(fmt.Sprintf("Policy: %s (%s)", ev.Policy, ev.Policy.Description())))
		p.println("\nPlayers are created")
	case event.SimulationCompletedEvent:
		p.println("")
		p.println(p.done.Render(fmt.Sprintf("Simulation complete: policy=%s players=%d critical=%d time=%d",
			ev.Policy, ev.Participants, ev.Counter, ev.Tick)))
	}
}

func (p *Printer) participant(ev event.ParticipantEvent) {
	style := p.reader
	if ev.Role == rwsim.Writer {
		style = p.writer
	}

	var line string
	switch ev.Step {
	case event.StepCreated:
		line = style.Render(fmt.Sprintf("** %s %d is created, time=%d", ev.Role, ev.ID, ev.Tick))
	case event.StepWaiting:
		if !p.opts.Verbose {
			return
		}
		line = p.muted.Render(fmt.Sprintf(".. %s %d waits for the critical section, time=%d", ev.Role, ev.ID, ev.Tick))
	case event.StepEntered:
		line = style.Render(fmt.Sprintf("-> %s %d enters critical section, duration=%d, time=%d", ev.Role, ev.ID, ev.Duration, ev.Tick))
	case event.StepExited:
		line = "     " + style.Render(fmt.Sprintf("<- %s %d exits critical section, critical = %d, time=%d", ev.Role, ev.ID, ev.Counter, ev.Tick))
	default:
		return
	}
	p.println(line)
}

func (p *Printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}
