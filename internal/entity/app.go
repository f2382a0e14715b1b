// Package entity implements the application-state container driven by
// the test harness: typed entity handles, change observation, event
// subscription, and a non-reentrant borrow guard over the shared state.
//
// All access is cooperative and single-goroutine. Every read or write
// path acquires a borrow guard scoped to the operation; acquiring a
// conflicting borrow from within a callback triggered by the same
// borrow is a programmer error and panics rather than deadlocking.
package entity

import "fmt"

// ID identifies an entity within an App. IDs are assigned
// monotonically and never reused.
type ID int64

// App owns all entity state.
//
// INVARIANTS:
//   - At most one exclusive borrow, or any number of shared borrows,
//     is live at a time; violations panic with a diagnostic
//   - Observer and subscriber callbacks never run under a borrow:
//     effects queue while a borrow is held and flush when the
//     outermost operation returns
//   - After Release, no further callback for that entity ever fires
type App struct {
	guard    borrowGuard
	nextID   ID
	slots    map[ID]*slot
	effects  []func()
	flushing bool
}

type slot struct {
	value            any
	observers        []*Subscription
	subscribers      []*Subscription
	releaseObservers []*Subscription
}

// NewApp creates an empty state container.
func NewApp() *App {
	return &App{slots: make(map[ID]*slot)}
}

// EntityCount returns the number of live entities.
func (a *App) EntityCount() int {
	return len(a.slots)
}

func (a *App) mustSlot(id ID) *slot {
	s, ok := a.slots[id]
	if !ok {
		panic(fmt.Sprintf("entity %d accessed after release", id))
	}
	return s
}

// enqueueEffect defers fn until no borrow is held, then drains the
// effect queue to a fixed point. Effects enqueued by effects run in
// the same flush.
func (a *App) enqueueEffect(fn func()) {
	a.effects = append(a.effects, fn)
	a.flushEffects()
}

func (a *App) flushEffects() {
	if a.flushing || a.guard.held() {
		return
	}
	a.flushing = true
	defer func() { a.flushing = false }()

	for len(a.effects) > 0 {
		fn := a.effects[0]
		a.effects[0] = nil
		a.effects = a.effects[1:]
		fn()
	}
}

// borrowGuard is a runtime reentrancy detector for the exclusive-
// borrow-at-a-time discipline. The cooperative model is single-
// goroutine, so plain counters suffice; the guard exists to diagnose
// re-entrant borrows, not to synchronize threads.
type borrowGuard struct {
	readers int
	writer  bool
}

func (g *borrowGuard) held() bool {
	return g.writer || g.readers > 0
}

func (g *borrowGuard) acquireWrite() {
	if g.writer {
		panic("re-entrant exclusive borrow of application state (nested update)")
	}
	if g.readers > 0 {
		panic("exclusive borrow of application state while a read borrow is held")
	}
	g.writer = true
}

func (g *borrowGuard) releaseWrite() {
	g.writer = false
}

func (g *borrowGuard) acquireRead() {
	if g.writer {
		panic("read borrow of application state while an exclusive borrow is held")
	}
	g.readers++
}

func (g *borrowGuard) releaseRead() {
	g.readers--
}
