package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/thetarby/rwsim"
	"github.com/thetarby/rwsim/internal/config"
	"github.com/thetarby/rwsim/internal/event"
	"github.com/thetarby/rwsim/internal/logging"
	"github.com/thetarby/rwsim/internal/manifest"
)

var (
	// ErrInvalidOptions is returned by New for unusable options.
	ErrInvalidOptions = errors.New("invalid simulation options")
	// ErrInvalidManifest is returned by Run before any task starts.
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrAlreadyRun is returned when Run is called a second time.
	ErrAlreadyRun = errors.New("simulation already run")
)

// Options configures a Simulation.
type Options struct {
	Policy          rwsim.Policy
	MaxTicks        int
	TickInterval    time.Duration
	CheckInvariants bool

	Bus    *event.Bus      // optional
	Logger *logging.Logger // optional
}

// Simulation is the shared context of one run: the policy, the shared
// counter, the clock and the occupancy monitor. Every participant holds a
// pointer to it.
type Simulation struct {
	policy  rwsim.Policy
	counter Counter
	clock   *Clock
	monitor *Monitor
	bus     *event.Bus
	log     *logging.Logger

	started      atomic.Bool
	participants []*Participant
}

// New creates a Simulation.
func New(opts Options) (*Simulation, error) {
	if opts.Policy == nil {
		return nil, fmt.Errorf("%w: policy is required", ErrInvalidOptions)
	}
	if opts.TickInterval <= 0 {
		return nil, fmt.Errorf("%w: tick interval must be positive (got %v)", ErrInvalidOptions, opts.TickInterval)
	}
	if opts.MaxTicks < 0 {
		return nil, fmt.Errorf("%w: max ticks must not be negative (got %d)", ErrInvalidOptions, opts.MaxTicks)
	}

	log := opts.Logger
	if log == nil {
		log = logging.NopLogger()
	}
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
		bus.SetLogger(log)
	}

	return &Simulation{
		policy:  opts.Policy,
		clock:   NewClock(opts.MaxTicks, opts.TickInterval, bus),
		monitor: NewMonitor(opts.Policy, opts.CheckInvariants),
		bus:     bus,
		log:     log.WithPolicy(opts.Policy.Kind()),
	}, nil
}

// FromConfig builds a Simulation from the simulation section of cfg.
func FromConfig(cfg *config.Config, bus *event.Bus, log *logging.Logger, policyOpts ...rwsim.Option) (*Simulation, error) {
	kind, err := cfg.Simulation.PolicyKind()
	if err != nil {
		return nil, err
	}
	p, err := rwsim.New(kind, policyOpts...)
	if err != nil {
		return nil, err
	}
	return New(Options{
		Policy:          p,
		MaxTicks:        cfg.Simulation.MaxTicks,
		TickInterval:    cfg.Simulation.TickInterval,
		CheckInvariants: cfg.Simulation.CheckInvariants,
		Bus:             bus,
		Logger:          log,
	})
}

// Policy returns the active access policy.
func (s *Simulation) Policy() rwsim.Policy { return s.policy }

// Counter returns the shared counter.
func (s *Simulation) Counter() *Counter { return &s.counter }

// Clock returns the simulated clock.
func (s *Simulation) Clock() *Clock { return s.clock }

// Monitor returns the occupancy monitor.
func (s *Simulation) Monitor() *Monitor { return s.monitor }

// Bus returns the event bus events are published on.
func (s *Simulation) Bus() *event.Bus { return s.bus }

// Participants returns the spawned participants in id order. Only valid
// after Run has returned.
func (s *Simulation) Participants() []*Participant { return s.participants }

// Run starts the clock, spawns one participant per manifest entry one
// tick apart and waits for every participant and the clock to finish.
//
// The manifest is validated before anything starts. If ctx is cancelled
// no further participants are spawned and the clock stops; participants
// already running finish their critical section and Run returns
// ctx.Err().
func (s *Simulation) Run(ctx context.Context, m manifest.Manifest) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	kind := s.policy.Kind()
	s.log.Info("simulation started", "participants", len(m), "tick_interval", s.clock.Interval().String())
	s.bus.Publish(event.NewSimulationStartedEvent(kind, len(m)))

	tickSub := s.bus.Subscribe(event.TypeClockTick, func(e event.Event) {
		if ev, ok := e.(event.ClockTickEvent); ok {
			s.log.Debug("clock tick", "tick", ev.Tick)
		}
	})
	defer s.bus.Unsubscribe(tickSub)

	clockCtx, stopClock := context.WithCancel(ctx)
	defer stopClock()

	var clock errgroup.Group
	clock.Go(func() error { return s.clock.Run(clockCtx) })

	var players errgroup.Group
	s.participants = make([]*Participant, 0, len(m))
	for i, e := range m {
		if i > 0 && !s.clock.wait(ctx) {
			s.log.Warn("spawning interrupted", "spawned", i, "remaining", len(m)-i)
			break
		}
		p := newParticipant(i, e)
		s.participants = append(s.participants, p)
		players.Go(func() error {
			p.run(s)
			return nil
		})
	}

	if err := players.Wait(); err != nil {
		return err
	}
	stopClock()
	if err := clock.Wait(); err != nil {
		return err
	}

	counter, now := s.counter.Read(), s.clock.Now()
	s.log.Info("simulation completed", "participants", len(s.participants), "counter", counter, "tick", now)
	s.bus.Publish(event.NewSimulationCompletedEvent(kind, len(s.participants), counter, now))

	return ctx.Err()
}

// critical runs fn inside the policy's critical section. Leave runs on
// every path out of fn.
func (s *Simulation) critical(role rwsim.Role, fn func()) {
	s.policy.Enter(role)
	defer s.policy.Leave(role)

	s.monitor.Entered(role)
	defer s.monitor.Exiting(role)

	fn()
}

func (s *Simulation) publish(step event.Step, p *Participant, counter int64) {
	s.bus.Publish(event.NewParticipantEvent(step, p.ID, p.Entry.Role, s.clock.Now(), p.Entry.Duration, counter))
}
