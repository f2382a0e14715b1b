package input

// MouseButton identifies which mouse button an event concerns.
type MouseButton int

const (
	// MouseButtonNone marks a mouse move with no button pressed.
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonNone:
		return "none"
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// Point is a position in window coordinates.
type Point struct {
	X int
	Y int
}

// Event is the closed set of primitive input events a platform would
// deliver. Composed test conveniences (clicks, keystroke sequences,
// typed text) decompose into these before dispatch.
type Event interface {
	// Kind returns the stable name used in traces:
	// key_down, mouse_move, mouse_down, mouse_up, modifiers_changed.
	Kind() string

	isInputEvent()
}

// KeyDownEvent is a single key press.
type KeyDownEvent struct {
	Keystroke Keystroke
	IsHeld    bool
}

func (KeyDownEvent) Kind() string  { return "key_down" }
func (KeyDownEvent) isInputEvent() {}

// MouseMoveEvent is a pointer move, optionally with a button held.
type MouseMoveEvent struct {
	Position      Point
	PressedButton MouseButton
	Modifiers     Modifiers
}

func (MouseMoveEvent) Kind() string  { return "mouse_move" }
func (MouseMoveEvent) isInputEvent() {}

// MouseDownEvent is a button press at a position.
type MouseDownEvent struct {
	Position   Point
	Button     MouseButton
	Modifiers  Modifiers
	ClickCount int
}

func (MouseDownEvent) Kind() string  { return "mouse_down" }
func (MouseDownEvent) isInputEvent() {}

// MouseUpEvent is a button release at a position.
type MouseUpEvent struct {
	Position   Point
	Button     MouseButton
	Modifiers  Modifiers
	ClickCount int
}

func (MouseUpEvent) Kind() string  { return "mouse_up" }
func (MouseUpEvent) isInputEvent() {}

// ClickEvent pairs the press and release of one click. It is a
// composed convenience, not a primitive: dispatch decomposes it into
// its Down and Up events in that order.
type ClickEvent struct {
	Down MouseDownEvent
	Up   MouseUpEvent
}

// Click composes a single primary-button click at the given position.
func Click(pos Point, mods Modifiers) ClickEvent {
	return ClickEvent{
		Down: MouseDownEvent{Position: pos, Button: MouseButtonLeft, Modifiers: mods, ClickCount: 1},
		Up:   MouseUpEvent{Position: pos, Button: MouseButtonLeft, Modifiers: mods, ClickCount: 1},
	}
}

// ModifiersChangedEvent reports a change in held modifiers.
type ModifiersChangedEvent struct {
	Modifiers Modifiers
}

func (ModifiersChangedEvent) Kind() string  { return "modifiers_changed" }
func (ModifiersChangedEvent) isInputEvent() {}
