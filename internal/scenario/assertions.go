package scenario

import (
	"fmt"
	"strings"

	"github.com/loupe-ui/loupe/internal/trace"
)

// AssertionError describes one failed trace assertion with enough
// context to debug it without re-running the scenario.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []trace.Event
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nfull trace:\n")
	for _, ev := range e.Trace {
		switch ev.Kind {
		case "key_down":
			fmt.Fprintf(&buf, "  [%d] %s %s\n", ev.Seq, ev.Kind, ev.Keystroke)
		case "mouse_down", "mouse_up":
			fmt.Fprintf(&buf, "  [%d] %s %s (%d,%d)\n", ev.Seq, ev.Kind, ev.Button, ev.X, ev.Y)
		default:
			fmt.Fprintf(&buf, "  [%d] %s\n", ev.Seq, ev.Kind)
		}
	}
	return buf.String()
}

// matches reports whether the event satisfies the assertion's kind and
// optional keystroke refinement.
func matches(ev trace.Event, a Assertion) bool {
	if ev.Kind != a.Kind {
		return false
	}
	if a.Keystroke != "" && ev.Keystroke != a.Keystroke {
		return false
	}
	return true
}

func assertTraceContains(events []trace.Event, a Assertion) error {
	for _, ev := range events {
		if matches(ev, a) {
			return nil
		}
	}

	expected := fmt.Sprintf("event %s", a.Kind)
	if a.Keystroke != "" {
		expected += fmt.Sprintf(" with keystroke %s", a.Keystroke)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    events,
	}
}

// assertTraceOrder checks the keystrokes appear in the given order.
// Intervening events are allowed; positions use each keystroke's first
// occurrence.
func assertTraceOrder(events []trace.Event, a Assertion) error {
	positions := make(map[string]int)
	for i, ev := range events {
		if ev.Kind != "key_down" {
			continue
		}
		for _, want := range a.Keystrokes {
			if ev.Keystroke == want && positions[want] == 0 {
				positions[want] = i + 1
			}
		}
	}

	for _, want := range a.Keystrokes {
		if positions[want] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all keystrokes present: %v", a.Keystrokes),
				Actual:   fmt.Sprintf("missing keystroke: %s", want),
				Trace:    events,
			}
		}
	}

	for i := 1; i < len(a.Keystrokes); i++ {
		prev, curr := a.Keystrokes[i-1], a.Keystrokes[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("keystrokes in order: %v", a.Keystrokes),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: events,
			}
		}
	}
	return nil
}

func assertTraceCount(events []trace.Event, a Assertion) error {
	count := 0
	for _, ev := range events {
		if matches(ev, a) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    events,
		}
	}
	return nil
}

// evaluateAssertions runs every assertion and collects failure
// messages. All assertions evaluate even after a failure, so one run
// reports everything wrong at once.
func evaluateAssertions(events []trace.Event, assertions []Assertion) []string {
	var errors []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(events, a)
		case AssertTraceOrder:
			err = assertTraceOrder(events, a)
		case AssertTraceCount:
			err = assertTraceCount(events, a)
		default:
			err = fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
