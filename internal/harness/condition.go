package harness

import (
	"time"

	"github.com/loupe-ui/loupe/internal/entity"
)

// Condition blocks the test, cooperatively, until the predicate holds
// for the entity's current state. The wait is a race with three
// distinct outcomes:
//
//   - the predicate holds: the wait resolves and the test continues;
//   - the budget elapses first: fatal, the test aborts with a timeout;
//   - the entity is released first: fatal, waiting on a dead entity is
//     a test bug, never a silent hang.
//
// The predicate is re-polled synchronously after every notification
// from the entity, interleaved with full drains of the scheduler.
// Time is logical: when everything is parked and the predicate still
// fails, the clock jumps to the next timer deadline instead of
// sleeping, so a wait that will resolve resolves immediately and a
// wait that never will fails in microseconds of wall time.
func Condition[T any](cx *Context, h entity.Handle[T], pred func(*T) bool) {
	cx.t.Helper()
	ConditionWithTimeout(cx, h, cx.conditionTimeout, pred)
}

// ConditionWithTimeout is Condition with an explicit per-call budget,
// for waits that are legitimately slower or tighter than the context
// default.
func ConditionWithTimeout[T any](cx *Context, h entity.Handle[T], budget time.Duration, pred func(*T) bool) {
	cx.t.Helper()

	if !h.Exists() {
		cx.t.Fatalf("condition wait aborted: entity %d was released", h.EntityID())
	}
	notifications := Notifications(cx, h)
	timer := cx.dispatcher.Timer(budget)
	defer timer.Cancel()

	poll := func() bool {
		if !h.Exists() {
			return false
		}
		var ok bool
		entity.Read(h, func(v *T) {
			ok = pred(v)
		})
		return ok
	}

	for {
		if notifications.Closed() {
			cx.t.Fatalf("condition wait aborted: entity %d was released", h.EntityID())
		}
		if poll() {
			return
		}
		cx.dispatcher.RunUntilParked()

		// One notification per re-poll keeps the predicate synchronous
		// with the state change that produced it.
		if _, ok := notifications.TryNext(); ok {
			continue
		}
		if notifications.Closed() {
			cx.t.Fatalf("condition wait aborted: entity %d was released", h.EntityID())
		}
		if timer.Fired() {
			cx.t.Fatalf("condition timed out after %v", budget)
		}
		if !cx.dispatcher.AdvanceToNextTimer() {
			cx.t.Fatalf("condition deadlocked: no pending work or timers")
		}
		cx.dispatcher.RunUntilParked()
	}
}
