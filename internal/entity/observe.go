package entity

// Subscription is a live registration associating an observed entity
// with a callback. It is owned by whoever created it; after
// Unsubscribe (or entity release) no further invocation occurs.
type Subscription struct {
	fn     func(any)
	active bool
}

func (s *Subscription) invoke(arg any) {
	if s.active {
		s.fn(arg)
	}
}

func (s *Subscription) deactivate() {
	s.active = false
}

// Unsubscribe drops the registration. Idempotent. Dropping a
// subscription is an intentional cancellation, not an error: any
// queued delivery for it is silently skipped.
func (s *Subscription) Unsubscribe() {
	s.active = false
}

// Active reports whether the subscription can still be invoked.
func (s *Subscription) Active() bool {
	return s.active
}

// Observe registers fn to run after every change notification on the
// entity.
func Observe(h AnyHandle, fn func()) *Subscription {
	app := h.Owner()
	s := app.mustSlot(h.EntityID())
	sub := &Subscription{fn: func(any) { fn() }, active: true}
	s.observers = append(s.observers, sub)
	return sub
}

// ObserveRelease registers fn to run exactly once when the entity is
// released.
func ObserveRelease(h AnyHandle, fn func()) *Subscription {
	app := h.Owner()
	s := app.mustSlot(h.EntityID())
	sub := &Subscription{fn: func(any) { fn() }, active: true}
	s.releaseObservers = append(s.releaseObservers, sub)
	return sub
}

// Subscribe registers fn for every event of type E emitted by the
// entity. Events of other types are not delivered to fn.
func Subscribe[E any](h AnyHandle, fn func(E)) *Subscription {
	app := h.Owner()
	s := app.mustSlot(h.EntityID())
	sub := &Subscription{
		fn: func(ev any) {
			if e, ok := ev.(E); ok {
				fn(e)
			}
		},
		active: true,
	}
	s.subscribers = append(s.subscribers, sub)
	return sub
}

// Notify marks the entity changed. Observers run after the current
// borrow (if any) is released; each delivery is a distinct signal,
// never coalesced with another.
func Notify(h AnyHandle) {
	app := h.Owner()
	s := app.mustSlot(h.EntityID())
	observers := s.observers
	app.enqueueEffect(func() {
		for _, sub := range observers {
			sub.invoke(nil)
		}
	})
}

// Emit delivers event to the entity's subscribers. Delivery happens
// outside any borrow; the value is copied into the queue at emission
// time, so later mutation by the producer is not observed.
func Emit(h AnyHandle, event any) {
	app := h.Owner()
	s := app.mustSlot(h.EntityID())
	subscribers := s.subscribers
	app.enqueueEffect(func() {
		for _, sub := range subscribers {
			sub.invoke(event)
		}
	})
}
