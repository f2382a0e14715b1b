// Package window provides a minimal retained-mode window: a focus
// chain for keyboard dispatch and ordered hit regions for mouse
// dispatch. It is the production input path the test harness feeds
// simulated events through.
package window

import (
	"github.com/loupe-ui/loupe/internal/entity"
	"github.com/loupe-ui/loupe/internal/input"
)

// Size is a window extent in cells.
type Size struct {
	Width  int
	Height int
}

// Rect is an axis-aligned region in window coordinates.
// Max is exclusive.
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Contains reports whether p falls inside the rect.
func (r Rect) Contains(p input.Point) bool {
	return p.X >= r.MinX && p.X < r.MaxX && p.Y >= r.MinY && p.Y < r.MaxY
}

// KeyHandler consumes a keystroke. Returning true stops propagation.
type KeyHandler func(input.Keystroke) bool

// MouseHandler consumes a mouse event. Returning true stops the hit
// test.
type MouseHandler func(input.Event) bool

// region is a mounted interactive area. Regions added later sit above
// earlier ones, matching paint order.
type region struct {
	bounds  Rect
	handler MouseHandler
}

type keyRegistration struct {
	handler KeyHandler
}

// Window is a dispatch target for input events.
//
// Keyboard events walk the focus chain innermost (most recently
// focused) first. Mouse events hit-test regions topmost first. All
// dispatch happens on the cooperative scheduler; handlers mutate
// application state through the usual entity borrows.
type Window struct {
	app       *entity.App
	title     string
	size      Size
	focus     []*keyRegistration
	regions   []*region
	modifiers input.Modifiers
}

// New creates a window over the given state container.
func New(app *entity.App, size Size) *Window {
	return &Window{app: app, size: size}
}

// App returns the state container the window dispatches into.
func (w *Window) App() *entity.App { return w.app }

// Size returns the window extent.
func (w *Window) Size() Size { return w.size }

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) { w.title = title }

// Modifiers returns the currently held modifiers as last reported by a
// modifiers-changed event.
func (w *Window) Modifiers() input.Modifiers { return w.modifiers }

// PushKeyHandler adds a handler to the top of the focus chain and
// returns a function that removes it. Removal is by identity of the
// registration, so interleaved removes are safe.
func (w *Window) PushKeyHandler(h KeyHandler) (remove func()) {
	reg := &keyRegistration{handler: h}
	w.focus = append(w.focus, reg)
	return func() {
		for i, r := range w.focus {
			if r == reg {
				w.focus = append(w.focus[:i], w.focus[i+1:]...)
				return
			}
		}
	}
}

// AddRegion mounts an interactive region above all existing regions
// and returns a function that unmounts it.
func (w *Window) AddRegion(bounds Rect, h MouseHandler) (remove func()) {
	reg := &region{bounds: bounds, handler: h}
	w.regions = append(w.regions, reg)
	return func() {
		for i, r := range w.regions {
			if r == reg {
				w.regions = append(w.regions[:i], w.regions[i+1:]...)
				return
			}
		}
	}
}

// Dispatch routes a primitive input event through the window.
// Returns true if some handler consumed the event.
func (w *Window) Dispatch(ev input.Event) bool {
	switch e := ev.(type) {
	case input.KeyDownEvent:
		return w.dispatchKeystroke(e.Keystroke)
	case input.ModifiersChangedEvent:
		w.modifiers = e.Modifiers
		return true
	case input.MouseMoveEvent:
		return w.dispatchMouse(e.Position, e)
	case input.MouseDownEvent:
		return w.dispatchMouse(e.Position, e)
	case input.MouseUpEvent:
		return w.dispatchMouse(e.Position, e)
	default:
		return false
	}
}

// dispatchKeystroke walks the focus chain innermost first.
func (w *Window) dispatchKeystroke(k input.Keystroke) bool {
	for i := len(w.focus) - 1; i >= 0; i-- {
		if w.focus[i].handler(k) {
			return true
		}
	}
	return false
}

// dispatchMouse hit-tests regions topmost first.
func (w *Window) dispatchMouse(p input.Point, ev input.Event) bool {
	for i := len(w.regions) - 1; i >= 0; i-- {
		r := w.regions[i]
		if !r.bounds.Contains(p) {
			continue
		}
		if r.handler(ev) {
			return true
		}
	}
	return false
}
