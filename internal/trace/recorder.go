// Package trace records the primitive inputs dispatched during a
// harness run as a seq-stamped, deterministic event log. Traces can be
// compared against golden files or persisted to SQLite for later
// inspection with the CLI.
package trace

import (
	"fmt"
	"sync"

	"github.com/loupe-ui/loupe/internal/executor"
	"github.com/loupe-ui/loupe/internal/input"
)

// Event is one recorded primitive input.
//
// Seq comes from the dispatcher's clock, so recorded inputs interleave
// correctly with executed tasks. Field presence depends on Kind; the
// canonical form (see canonicalMap) is the source of truth for which
// fields a kind carries.
type Event struct {
	Seq        int64  `json:"seq"`
	Kind       string `json:"kind"`
	Keystroke  string `json:"keystroke,omitempty"`
	X          int    `json:"x,omitempty"`
	Y          int    `json:"y,omitempty"`
	Button     string `json:"button,omitempty"`
	ClickCount int    `json:"click_count,omitempty"`
	Modifiers  string `json:"modifiers,omitempty"`
}

// Recorder accumulates trace events stamped by a shared clock.
//
// Thread-safety: Record may be called from any goroutine; in practice
// the cooperative harness calls it from the test goroutine only.
type Recorder struct {
	clock *executor.Clock

	mu     sync.Mutex
	events []Event
}

// NewRecorder creates a recorder stamping events with the given clock.
// Pass the dispatcher's clock so inputs and dispatches share one
// sequence.
func NewRecorder(clock *executor.Clock) *Recorder {
	return &Recorder{clock: clock}
}

// Record appends one primitive input event to the trace.
func (r *Recorder) Record(ev input.Event) {
	e := Event{
		Seq:  r.clock.Next(),
		Kind: ev.Kind(),
	}

	switch typed := ev.(type) {
	case input.KeyDownEvent:
		e.Keystroke = typed.Keystroke.String()
	case input.MouseMoveEvent:
		e.X = typed.Position.X
		e.Y = typed.Position.Y
		if typed.PressedButton != input.MouseButtonNone {
			e.Button = typed.PressedButton.String()
		}
		e.Modifiers = typed.Modifiers.String()
	case input.MouseDownEvent:
		e.X = typed.Position.X
		e.Y = typed.Position.Y
		e.Button = typed.Button.String()
		e.ClickCount = typed.ClickCount
		e.Modifiers = typed.Modifiers.String()
	case input.MouseUpEvent:
		e.X = typed.Position.X
		e.Y = typed.Position.Y
		e.Button = typed.Button.String()
		e.ClickCount = typed.ClickCount
		e.Modifiers = typed.Modifiers.String()
	case input.ModifiersChangedEvent:
		e.Modifiers = typed.Modifiers.String()
	}

	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded trace in dispatch order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// canonicalMap converts an event to the map form fed to
// MarshalCanonical. Only the fields meaningful for the kind appear.
func (e Event) canonicalMap() map[string]any {
	m := map[string]any{
		"seq":  e.Seq,
		"kind": e.Kind,
	}
	switch e.Kind {
	case "key_down":
		m["keystroke"] = e.Keystroke
	case "mouse_move":
		m["x"] = e.X
		m["y"] = e.Y
		if e.Button != "" {
			m["button"] = e.Button
		}
		if e.Modifiers != "" {
			m["modifiers"] = e.Modifiers
		}
	case "mouse_down", "mouse_up":
		m["x"] = e.X
		m["y"] = e.Y
		m["button"] = e.Button
		m["click_count"] = e.ClickCount
		if e.Modifiers != "" {
			m["modifiers"] = e.Modifiers
		}
	case "modifiers_changed":
		m["modifiers"] = e.Modifiers
	}
	return m
}

// MarshalPayload serializes the event to its canonical JSON payload,
// the form persisted by Store.AppendEvent.
func (e Event) MarshalPayload() ([]byte, error) {
	b, err := MarshalCanonical(e.canonicalMap())
	if err != nil {
		return nil, fmt.Errorf("marshal trace event seq %d: %w", e.Seq, err)
	}
	return b, nil
}
