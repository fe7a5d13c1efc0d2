package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetarby/rwsim"
)

func mustPolicy(t *testing.T, kind rwsim.Kind) rwsim.Policy {
	t.Helper()
	p, err := rwsim.New(kind)
	require.NoError(t, err)
	return p
}

func invariantPanic(t *testing.T, fn func()) *rwsim.InvariantError {
	t.Helper()
	var ie *rwsim.InvariantError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			var ok bool
			ie, ok = r.(*rwsim.InvariantError)
			require.True(t, ok, "panic value %T", r)
		}()
		fn()
	}()
	return ie
}

func TestMonitor_ExclusiveAllowsOne(t *testing.T) {
	m := NewMonitor(mustPolicy(t, rwsim.Exclusive), true)

	m.Entered(rwsim.Reader)
	ie := invariantPanic(t, func() { m.Entered(rwsim.Reader) })
	assert.Equal(t, "occupancy", ie.Subject)
	assert.Equal(t, rwsim.Exclusive, ie.Kind)
}

func TestMonitor_ReadersShareButNotWithWriter(t *testing.T) {
	for _, kind := range []rwsim.Kind{rwsim.ReaderPriority, rwsim.FairAccess} {
		t.Run(kind.String(), func(t *testing.T) {
			m := NewMonitor(mustPolicy(t, kind), true)

			m.Entered(rwsim.Reader)
			m.Entered(rwsim.Reader)
			m.Entered(rwsim.Reader)
			invariantPanic(t, func() { m.Entered(rwsim.Writer) })

			occ := m.Occupancy()
			assert.Equal(t, int32(3), occ.MaxReaders)
			assert.Equal(t, int32(4), occ.MaxParticipants)
		})
	}
}

func TestMonitor_TwoWriters(t *testing.T) {
	m := NewMonitor(mustPolicy(t, rwsim.FairAccess), true)

	m.Entered(rwsim.Writer)
	ie := invariantPanic(t, func() { m.Entered(rwsim.Writer) })
	assert.Contains(t, ie.Message, "2 writers")
}

func TestMonitor_UnrestrictedOnlyRecords(t *testing.T) {
	m := NewMonitor(mustPolicy(t, rwsim.Unrestricted), true)

	assert.NotPanics(t, func() {
		m.Entered(rwsim.Writer)
		m.Entered(rwsim.Writer)
		m.Entered(rwsim.Reader)
	})
	occ := m.Occupancy()
	assert.Equal(t, int32(2), occ.MaxWriters)
	assert.Equal(t, int32(3), occ.MaxParticipants)

	m.Exiting(rwsim.Writer)
	m.Exiting(rwsim.Writer)
	m.Exiting(rwsim.Reader)
	occ = m.Occupancy()
	assert.Zero(t, occ.Readers)
	assert.Zero(t, occ.Writers)
}

func TestMonitor_ExitWithoutEnter(t *testing.T) {
	m := NewMonitor(mustPolicy(t, rwsim.ReaderPriority), true)
	invariantPanic(t, func() { m.Exiting(rwsim.Reader) })

	lax := NewMonitor(mustPolicy(t, rwsim.ReaderPriority), false)
	assert.NotPanics(t, func() { lax.Exiting(rwsim.Reader) })
}
