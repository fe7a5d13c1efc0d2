package rwsim

import (
	"context"
	"fmt"

	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

// guard is a binary semaphore. Unlike sync.Mutex it may be released by a
// different goroutine than the one that acquired it, which the first-in /
// last-out reader protocols need.
type guard struct {
	name string
	sem  *semaphore.Weighted
	held atomic.Bool
}

func newGuard(name string) *guard {
	return &guard{
		name: name,
		sem:  semaphore.NewWeighted(1),
	}
}

func (g *guard) acquire() {
	if err := g.acquireContext(context.Background()); err != nil {
		panic(fmt.Sprintf("rwsim: acquire of %s guard failed: %v", g.name, err))
	}
}

// acquireContext blocks until the guard is taken or ctx is done. The
// guard is only marked held on success.
func (g *guard) acquireContext(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.held.Store(true)
	return nil
}

// release reports false, leaving the semaphore untouched, if the guard
// was not held.
func (g *guard) release() bool {
	if !g.held.CompareAndSwap(true, false) {
		return false
	}
	g.sem.Release(1)
	return true
}

func (g *guard) state() GuardState {
	return GuardState{Name: g.name, Held: g.held.Load()}
}

// releaseOrDie releases g on behalf of p and panics if it was not held.
func releaseOrDie(p Policy, g *guard) {
	if !g.release() {
		violate(p, g.name, "release of a guard that is not held")
	}
}
