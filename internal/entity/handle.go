package entity

// Handle is a typed reference to an entity owned by an App.
// Handles are small values; copying one does not copy the entity.
type Handle[T any] struct {
	id  ID
	app *App
}

// AnyHandle is the type-erased view of a Handle, used by code that
// registers observers or inspects lifecycle without touching state.
type AnyHandle interface {
	EntityID() ID
	Owner() *App
}

// New inserts state into the container and returns its handle.
func New[T any](app *App, state *T) Handle[T] {
	app.nextID++
	id := app.nextID
	app.slots[id] = &slot{value: state}
	return Handle[T]{id: id, app: app}
}

// EntityID returns the entity's ID.
func (h Handle[T]) EntityID() ID { return h.id }

// Owner returns the App the entity lives in.
func (h Handle[T]) Owner() *App { return h.app }

// Exists reports whether the entity has not been released.
func (h Handle[T]) Exists() bool {
	_, ok := h.app.slots[h.id]
	return ok
}

// Update runs fn with exclusive access to the entity's state.
// Panics if the entity was released or a conflicting borrow is held.
// Effects (notifications, events) queued by fn flush after fn returns.
func Update[T any](h Handle[T], fn func(*T)) {
	s := h.app.mustSlot(h.id)
	h.app.guard.acquireWrite()
	func() {
		defer h.app.guard.releaseWrite()
		fn(s.value.(*T))
	}()
	h.app.flushEffects()
}

// Read runs fn with shared access to the entity's state.
// Panics if the entity was released or an exclusive borrow is held.
func Read[T any](h Handle[T], fn func(*T)) {
	s := h.app.mustSlot(h.id)
	h.app.guard.acquireRead()
	defer h.app.guard.releaseRead()
	fn(s.value.(*T))
}

// Release destroys the entity. Release observers fire once (outside
// any borrow), then every registration for the entity is dropped and
// no further callback may be invoked. Releasing twice panics.
func Release[T any](h Handle[T]) {
	s := h.app.mustSlot(h.id)
	if h.app.guard.held() {
		panic("entity released while a borrow of application state is held")
	}

	releaseObservers := s.releaseObservers
	observers := s.observers
	subscribers := s.subscribers
	delete(h.app.slots, h.id)

	h.app.enqueueEffect(func() {
		for _, sub := range releaseObservers {
			sub.invoke(nil)
		}
		// Deactivate everything after the release observers ran so a
		// release observer cannot be re-entered, and so notification
		// streams observe closure exactly once.
		for _, sub := range releaseObservers {
			sub.deactivate()
		}
		for _, sub := range observers {
			sub.deactivate()
		}
		for _, sub := range subscribers {
			sub.deactivate()
		}
	})
}
