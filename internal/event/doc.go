// Package event defines the notifications a simulation emits and a small
// synchronous bus to deliver them.
//
// The simulation publishes one ParticipantEvent for every lifecycle step
// of every participant (created, waiting, entered, exited), a
// ClockTickEvent per tick and a SimulationStartedEvent /
// SimulationCompletedEvent pair around the run. Consumers such as the
// trace printer and the structured logger subscribe to the types they
// care about:
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeParticipantEntered, func(e event.Event) {
//		pe := e.(event.ParticipantEvent)
//		fmt.Println(pe.Role, pe.ID, "entered at", pe.Tick)
//	})
//
// Publish calls handlers on the publishing goroutine, in registration
// order. Handlers are invoked from many participant goroutines at once
// and must be safe for concurrent use.
package event
