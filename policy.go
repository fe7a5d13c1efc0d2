package rwsim

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the kind of access a participant asks for.
type Role int

const (
	Reader Role = iota
	Writer
)

func (r Role) String() string {
	switch r {
	case Reader:
		return "Reader"
	case Writer:
		return "Writer"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Tag returns the single letter used for the role in manifest files.
func (r Role) Tag() string {
	switch r {
	case Reader:
		return "R"
	case Writer:
		return "W"
	default:
		return "?"
	}
}

// ErrUnknownRole is returned by ParseRole for unrecognized role tags.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts "R", "W", "reader" or "writer" in any case.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "reader":
		return Reader, nil
	case "w", "writer":
		return Writer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Kind selects one of the access disciplines.
type Kind int

const (
	// Unrestricted performs no exclusion at all.
	Unrestricted Kind = iota
	// Exclusive admits one participant of any role at a time.
	Exclusive
	// ReaderPriority admits any number of readers; writers wait for the
	// readers to drain and may starve.
	ReaderPriority
	// FairAccess stops admitting new readers as soon as a writer is waiting.
	FairAccess
)

// Kinds returns every policy kind in declaration order.
func Kinds() []Kind {
	return []Kind{Unrestricted, Exclusive, ReaderPriority, FairAccess}
}

func (k Kind) String() string {
	switch k {
	case Unrestricted:
		return "unrestricted"
	case Exclusive:
		return "exclusive"
	case ReaderPriority:
		return "reader-priority"
	case FairAccess:
		return "fair"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Description is a one line summary of the discipline.
func (k Kind) Description() string {
	switch k {
	case Unrestricted:
		return "no exclusion; readers and writers overlap freely"
	case Exclusive:
		return "one participant of any role at a time, not FIFO"
	case ReaderPriority:
		return "concurrent readers, writers wait for readers to drain and may starve"
	case FairAccess:
		return "concurrent readers, no new reader is admitted while a writer waits"
	default:
		return ""
	}
}

// ErrUnknownPolicy is returned when a policy name or kind is not recognized.
var ErrUnknownPolicy = errors.New("unknown access policy")

// ParseKind maps a configuration name to a Kind. Besides the canonical
// names it accepts a few common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unrestricted", "none":
		return Unrestricted, nil
	case "exclusive", "mutex", "semaphore":
		return Exclusive, nil
	case "reader-priority", "reader", "readers":
		return ReaderPriority, nil
	case "fair", "writer-priority", "writer", "writers":
		return FairAccess, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Policy is the entry/exit protocol run by every participant around its
// critical section. Enter may block. Leave must be called exactly once
// for every Enter, with the same role; anything else panics with an
// *InvariantError.
type Policy interface {
	Enter(role Role)
	Leave(role Role)

	Kind() Kind
	// Snapshot returns the current policy state for diagnostics. It does
	// not take any guard.
	Snapshot() State
}

type options struct {
	tracer Tracer
}

// Option configures a Policy created by New.
type Option func(*options)

// WithTracer installs a hook that receives protocol points.
func WithTracer(t Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// New creates a policy of the given kind with fresh state.
func New(kind Kind, opts ...Option) (Policy, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	tr := o.tracer
	if tr == nil {
		tr = func(Point) {}
	}

	switch kind {
	case Unrestricted:
		return unrestricted{}, nil
	case Exclusive:
		return newExclusive(tr), nil
	case ReaderPriority:
		return newReaderPriority(tr), nil
	case FairAccess:
		return newFairAccess(tr), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownPolicy, kind)
	}
}

func badRole(p Policy, op string, role Role) {
	violate(p, "role", fmt.Sprintf("%s called with %v", op, role))
}
