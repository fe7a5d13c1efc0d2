package rwsim

// unrestricted is the baseline: nothing is excluded, so concurrent
// writers can lose updates.
type unrestricted struct{}

func (unrestricted) Enter(Role) {}
func (unrestricted) Leave(Role) {}

func (unrestricted) Kind() Kind { return Unrestricted }

func (unrestricted) Snapshot() State {
	return State{Kind: Unrestricted}
}
