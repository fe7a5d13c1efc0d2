package rwsim

import (
	"fmt"
	"strings"
)

// GuardState reports whether a named guard is currently held.
type GuardState struct {
	Name string
	Held bool
}

// State is a point in time view of a policy's bookkeeping.
type State struct {
	Kind           Kind
	ActiveReaders  int32
	WaitingWriters int32
	Guards         []GuardState
}

func (s State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "policy=%s readers=%d writers_waiting=%d", s.Kind, s.ActiveReaders, s.WaitingWriters)
	for _, g := range s.Guards {
		fmt.Fprintf(&sb, " %s=%t", g.Name, g.Held)
	}
	return sb.String()
}

// InvariantError is the panic value used when the exclusion guarantee is
// already broken. It is never returned as an error: the guards may be in
// an inconsistent state and the simulation cannot continue.
type InvariantError struct {
	Kind    Kind
	Subject string // guard or counter involved
	Message string
	State   State
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("rwsim: invariant violated in %s policy: %s: %s [%s]", e.Kind, e.Subject, e.Message, e.State)
}

func violate(p Policy, subject, msg string) {
	panic(&InvariantError{
		Kind:    p.Kind(),
		Subject: subject,
		Message: msg,
		State:   p.Snapshot(),
	})
}

// Violation panics with an *InvariantError for a policy-level guarantee
// checked outside the policy itself, such as an occupancy monitor.
func Violation(p Policy, subject, msg string) {
	violate(p, subject, msg)
}
