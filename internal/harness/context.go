// Package harness is the test-authoring surface for driving a
// retained-mode UI deterministically: simulated input, drain-to-
// quiescence scheduling, predicate condition waits, and pollable
// notification/event streams.
//
// Failure semantics follow a strict taxonomy: test-authoring errors
// (malformed keystroke syntax, waiting on a released entity) and
// condition timeouts are fatal and abort the test immediately;
// subscription and task drops are intentional cancellations. Nothing
// is silently swallowed.
package harness

import (
	"os"
	"testing"
	"time"

	"github.com/loupe-ui/loupe/internal/entity"
	"github.com/loupe-ui/loupe/internal/executor"
	"github.com/loupe-ui/loupe/internal/input"
	"github.com/loupe-ui/loupe/internal/trace"
	"github.com/loupe-ui/loupe/internal/window"
)

// Default condition-wait budgets. Continuous integration machines are
// slower and noisier, so the budget stretches when CI is set. Both
// values are explicit configuration: override with
// WithConditionTimeout or per call with ConditionWithTimeout.
const (
	DefaultConditionTimeout = 1 * time.Second
	CIConditionTimeout      = 5 * time.Second
)

// Context drives an application under test. It owns the dispatcher
// used for draining and the window used as the input dispatch target.
type Context struct {
	t          testing.TB
	app        *entity.App
	dispatcher *executor.Dispatcher
	win        *window.Window
	recorder   *trace.Recorder

	conditionTimeout time.Duration
}

// Option configures a Context.
type Option func(*Context)

// WithConditionTimeout overrides the condition-wait budget for every
// wait issued through this context.
func WithConditionTimeout(d time.Duration) Option {
	return func(cx *Context) { cx.conditionTimeout = d }
}

// WithRecorder attaches a trace recorder; every primitive input
// dispatched through the context is recorded.
func WithRecorder(r *trace.Recorder) Option {
	return func(cx *Context) { cx.recorder = r }
}

// NewContext creates a harness context without a window. Injection
// methods require a window; state-only tests (conditions, streams) do
// not.
func NewContext(t testing.TB, app *entity.App, d *executor.Dispatcher, opts ...Option) *Context {
	cx := &Context{
		t:                t,
		app:              app,
		dispatcher:       d,
		conditionTimeout: conditionTimeoutFromEnv(),
	}
	for _, opt := range opts {
		opt(cx)
	}
	return cx
}

// NewWindowContext creates a harness context targeting a window.
func NewWindowContext(t testing.TB, w *window.Window, d *executor.Dispatcher, opts ...Option) *Context {
	cx := NewContext(t, w.App(), d, opts...)
	cx.win = w
	return cx
}

func conditionTimeoutFromEnv() time.Duration {
	if os.Getenv("CI") != "" {
		return CIConditionTimeout
	}
	return DefaultConditionTimeout
}

// App returns the state container under test.
func (cx *Context) App() *entity.App { return cx.app }

// Dispatcher returns the scheduler under test.
func (cx *Context) Dispatcher() *executor.Dispatcher { return cx.dispatcher }

// Window returns the input target, or nil for window-less contexts.
func (cx *Context) Window() *window.Window { return cx.win }

// RunUntilParked drains all schedulable work to quiescence.
func (cx *Context) RunUntilParked() {
	cx.dispatcher.RunUntilParked()
}

// Spawn enqueues asynchronous work on the foreground scheduler.
func (cx *Context) Spawn(fn func() error) *executor.Task {
	return cx.dispatcher.Spawn(executor.Foreground, fn)
}

// SpawnBackground enqueues background-labelled work. The harness
// drains it all the same; the label mirrors production scheduling.
func (cx *Context) SpawnBackground(fn func() error) *executor.Task {
	return cx.dispatcher.Spawn(executor.Background, fn)
}

// dispatchEvent records the primitive and enqueues its dispatch
// through the window, the same input path a platform event takes.
// The caller drains.
func (cx *Context) dispatchEvent(ev input.Event) {
	cx.t.Helper()
	if cx.win == nil {
		cx.t.Fatalf("cannot simulate input: context has no window")
	}
	if cx.recorder != nil {
		cx.recorder.Record(ev)
	}
	w := cx.win
	cx.dispatcher.Spawn(executor.Foreground, func() error {
		w.Dispatch(ev)
		return nil
	})
}

// SimulateKeystrokes simulates a space-separated sequence of
// keystrokes, e.g.
//
//	cx.SimulateKeystrokes("cmd-p escape")
//
// Primitives dispatch in the same left-to-right order as written; the
// scheduler drains once after the full sequence. A malformed token
// fails the test immediately.
func (cx *Context) SimulateKeystrokes(keystrokes string) {
	cx.t.Helper()

	parsed, err := input.ParseSequence(keystrokes)
	if err != nil {
		cx.t.Fatalf("simulate keystrokes: %v", err)
	}
	for _, k := range parsed {
		cx.dispatchEvent(input.KeyDownEvent{Keystroke: k})
	}
	cx.RunUntilParked()
}

// SimulateInput types literal text character by character, e.g.
//
//	cx.SimulateInput("hello")
//
// The scheduler drains once after the full string.
func (cx *Context) SimulateInput(text string) {
	cx.t.Helper()

	for _, k := range input.ParseText(text) {
		cx.dispatchEvent(input.KeyDownEvent{Keystroke: k})
	}
	cx.RunUntilParked()
}

// SimulateClick simulates a primary-button press and release at the
// given point, then drains once.
func (cx *Context) SimulateClick(pos input.Point, mods input.Modifiers) {
	cx.t.Helper()

	click := input.Click(pos, mods)
	cx.dispatchEvent(click.Down)
	cx.dispatchEvent(click.Up)
	cx.RunUntilParked()
}

// SimulateMouseMove simulates a pointer move, then drains.
func (cx *Context) SimulateMouseMove(pos input.Point, button input.MouseButton, mods input.Modifiers) {
	cx.t.Helper()

	cx.dispatchEvent(input.MouseMoveEvent{
		Position:      pos,
		PressedButton: button,
		Modifiers:     mods,
	})
	cx.RunUntilParked()
}

// SimulateMouseDown simulates a button press, then drains.
func (cx *Context) SimulateMouseDown(pos input.Point, button input.MouseButton, mods input.Modifiers) {
	cx.t.Helper()

	cx.dispatchEvent(input.MouseDownEvent{
		Position:   pos,
		Button:     button,
		Modifiers:  mods,
		ClickCount: 1,
	})
	cx.RunUntilParked()
}

// SimulateMouseUp simulates a button release, then drains.
func (cx *Context) SimulateMouseUp(pos input.Point, button input.MouseButton, mods input.Modifiers) {
	cx.t.Helper()

	cx.dispatchEvent(input.MouseUpEvent{
		Position:   pos,
		Button:     button,
		Modifiers:  mods,
		ClickCount: 1,
	})
	cx.RunUntilParked()
}

// SimulateModifiersChange reports a modifier-state change, then
// drains.
func (cx *Context) SimulateModifiersChange(mods input.Modifiers) {
	cx.t.Helper()

	cx.dispatchEvent(input.ModifiersChangedEvent{Modifiers: mods})
	cx.RunUntilParked()
}

// Advance moves the logical clock forward and drains whatever became
// due.
func (cx *Context) Advance(d time.Duration) {
	cx.dispatcher.Advance(d)
	cx.RunUntilParked()
}
