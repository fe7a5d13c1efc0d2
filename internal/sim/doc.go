// Package sim runs a reader/writer simulation against an access policy.
//
// A Simulation owns the shared counter, the simulated clock, the policy
// and an occupancy monitor. Run spawns one goroutine per manifest entry,
// one tick apart, and waits for all of them and the clock. Every
// participant step is published on the event bus; nothing in this
// package prints.
//
// Invariant violations (a broken exclusion guarantee, a guard released
// twice) panic with *rwsim.InvariantError from the participant's
// goroutine. They are not recovered: the guards may be in an
// inconsistent state, so the process aborts.
package sim
