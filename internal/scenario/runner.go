package scenario

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/loupe-ui/loupe/internal/entity"
	"github.com/loupe-ui/loupe/internal/executor"
	"github.com/loupe-ui/loupe/internal/input"
	"github.com/loupe-ui/loupe/internal/trace"
	"github.com/loupe-ui/loupe/internal/window"
)

// defaultWindowSize is the blank window scenarios dispatch into.
var defaultWindowSize = window.Size{Width: 80, Height: 24}

// Result is the outcome of one scenario run.
type Result struct {
	// Passed is true when every assertion held.
	Passed bool

	// SessionToken identifies the recorded trace.
	SessionToken string

	// Trace is the full recorded input trace, in dispatch order.
	Trace []trace.Event

	// Errors lists assertion failures. Empty when Passed.
	Errors []string
}

// Runner executes scenarios. Each run gets a fresh window, dispatcher,
// and recorder, so scenarios never observe each other's state.
type Runner struct {
	logger *slog.Logger
	tokens trace.TokenGenerator
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger routes step-level debug logging. The default discards.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithTokenGenerator overrides the session token source used when a
// scenario does not pin its own token.
func WithTokenGenerator(g trace.TokenGenerator) RunnerOption {
	return func(r *Runner) { r.tokens = g }
}

// NewRunner creates a runner with deterministic defaults: discarded
// logs and the fixed test token.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tokens: trace.NewFixedTokenGenerator(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a scenario and returns the result. Step execution
// errors (which validation should have caught) abort the run; failed
// assertions do not, they mark the result as not passed.
func (r *Runner) Run(s *Scenario) (*Result, error) {
	d := executor.NewDispatcher()
	app := entity.NewApp()
	w := window.New(app, defaultWindowSize)
	rec := trace.NewRecorder(d.Clock())

	token := s.SessionToken
	if token == "" {
		token = r.tokens.Generate()
	}
	r.logger.Debug("scenario starting", "name", s.Name, "session", token)

	for i, step := range s.Steps {
		if err := r.runStep(d, w, rec, step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	result := &Result{
		SessionToken: token,
		Trace:        rec.Events(),
	}
	result.Errors = evaluateAssertions(result.Trace, s.Assertions)
	result.Passed = len(result.Errors) == 0

	r.logger.Debug("scenario finished",
		"name", s.Name, "events", len(result.Trace), "passed", result.Passed)
	return result, nil
}

func (r *Runner) runStep(d *executor.Dispatcher, w *window.Window, rec *trace.Recorder, step Step) error {
	dispatch := func(ev input.Event) {
		rec.Record(ev)
		d.Spawn(executor.Foreground, func() error {
			w.Dispatch(ev)
			return nil
		})
	}

	switch {
	case step.Keystrokes != "":
		parsed, err := input.ParseSequence(step.Keystrokes)
		if err != nil {
			return err
		}
		for _, k := range parsed {
			dispatch(input.KeyDownEvent{Keystroke: k})
		}

	case step.Text != "":
		for _, k := range input.ParseText(step.Text) {
			dispatch(input.KeyDownEvent{Keystroke: k})
		}

	case step.Click != nil:
		click := input.Click(input.Point{X: step.Click.X, Y: step.Click.Y}, input.Modifiers{})
		dispatch(click.Down)
		dispatch(click.Up)

	case step.Advance != "":
		delta, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		d.Advance(delta)

	default:
		return fmt.Errorf("empty step")
	}

	d.RunUntilParked()
	return nil
}

// Run executes a scenario with default runner settings.
func Run(s *Scenario) (*Result, error) {
	return NewRunner().Run(s)
}
