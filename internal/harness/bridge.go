package harness

import (
	"github.com/loupe-ui/loupe/internal/entity"
)

// Notifications bridges an entity's notifications into a pollable
// stream. Construction is lazy: no notification is buffered until the
// entity actually notifies, and nothing blocks the producer. The
// stream closes when the entity is released.
func Notifications(cx *Context, h entity.AnyHandle) *Stream[struct{}] {
	s := &Stream[struct{}]{}
	entity.Observe(h, func() {
		s.push(struct{}{})
	})
	entity.ObserveRelease(h, func() {
		s.closeStream()
	})
	return s
}

// Events bridges an entity's typed events into a pollable stream.
// Only events assignable to E are delivered; the stream closes when
// the entity is released.
func Events[E any](cx *Context, h entity.AnyHandle) *Stream[E] {
	s := &Stream[E]{}
	entity.Subscribe[E](h, func(ev E) {
		s.push(ev)
	})
	entity.ObserveRelease(h, func() {
		s.closeStream()
	})
	return s
}

// NextNotification drains pending work and pops the next buffered
// notification from the stream, failing the test if none arrives
// within the condition budget or the stream closed.
func NextNotification(cx *Context, s *Stream[struct{}]) {
	cx.t.Helper()
	_ = nextFromStream(cx, s, "notification")
}

// NextEvent drains pending work and pops the next buffered event from
// the stream, failing the test if none arrives within the condition
// budget or the stream closed.
func NextEvent[E any](cx *Context, s *Stream[E]) E {
	cx.t.Helper()
	return nextFromStream(cx, s, "event")
}

// nextFromStream runs the same deterministic wait loop as the
// condition waiter: drain, poll the stream, fire timers forward. The
// logical clock advances instead of the wall clock, so an eventual
// value arrives without real sleeping and an absent one fails fast.
func nextFromStream[T any](cx *Context, s *Stream[T], what string) T {
	cx.t.Helper()

	budget := cx.conditionTimeout
	timer := cx.dispatcher.Timer(budget)
	defer timer.Cancel()

	for {
		cx.dispatcher.RunUntilParked()
		if v, ok := s.TryNext(); ok {
			return v
		}
		if s.Closed() {
			cx.t.Fatalf("stream closed while waiting for %s: entity was released", what)
		}
		if timer.Fired() {
			cx.t.Fatalf("timed out after %v waiting for %s", budget, what)
		}
		if !cx.dispatcher.AdvanceToNextTimer() {
			cx.t.Fatalf("deadlocked waiting for %s: no pending work or timers", what)
		}
	}
}
