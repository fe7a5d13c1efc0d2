package rwsim

// Point is a step of an entry or exit protocol.
type Point int

const (
	// ReaderAdmitted: a reader passed the admission check and was counted.
	ReaderAdmitted Point = iota
	// ReaderDeparted: a reader was uncounted.
	ReaderDeparted
	// GateClosed: the first waiting writer closed the gate to new readers.
	GateClosed
	// GateOpened: the last writer reopened the gate.
	GateOpened
	// ResourceAcquired: the resource guard was taken.
	ResourceAcquired
	// ResourceReleased: the resource guard is about to be released.
	ResourceReleased
)

func (p Point) String() string {
	switch p {
	case ReaderAdmitted:
		return "reader-admitted"
	case ReaderDeparted:
		return "reader-departed"
	case GateClosed:
		return "gate-closed"
	case GateOpened:
		return "gate-opened"
	case ResourceAcquired:
		return "resource-acquired"
	case ResourceReleased:
		return "resource-released"
	default:
		return "unknown"
	}
}

// Tracer receives protocol points. Points are reported while the guard
// that orders them is held, so the sequence a Tracer sees is the order in
// which the protocol actually ran. A Tracer must not block or call back
// into the policy.
type Tracer func(Point)
