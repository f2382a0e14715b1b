// Package scenario runs scripted input sequences against a fresh
// window harness and validates the recorded trace. Scenarios are YAML
// files validated against an embedded CUE schema, so malformed files
// fail at load with a precise reason instead of misbehaving at run
// time.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/loupe-ui/loupe/internal/input"
)

// Scenario defines one scripted run: a sequence of input steps against
// a blank window, followed by assertions on the recorded trace.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description,omitempty"`

	// SessionToken is an optional fixed token for deterministic runs.
	// If empty, it defaults to "test-session-default" so golden
	// comparison stays byte-stable.
	SessionToken string `yaml:"session_token,omitempty"`

	// Steps run in order. Each step is exactly one input primitive
	// group or a clock advance.
	Steps []Step `yaml:"steps"`

	// Assertions validate the recorded trace after all steps ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one scripted action. Exactly one field is set.
type Step struct {
	// Keystrokes is a space-separated keystroke sequence ("cmd-p escape").
	Keystrokes string `yaml:"keystrokes,omitempty"`

	// Text is literal text typed character by character.
	Text string `yaml:"text,omitempty"`

	// Click is a primary-button click at a point.
	Click *ClickStep `yaml:"click,omitempty"`

	// Advance moves the logical clock forward, e.g. "100ms".
	Advance string `yaml:"advance,omitempty"`
}

// ClickStep is the target of a click step.
type ClickStep struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Assertion validates the recorded trace.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count.
	Type string `yaml:"type"`

	// Kind is the event kind to match (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Keystroke optionally refines a key_down match.
	Keystroke string `yaml:"keystroke,omitempty"`

	// Keystrokes is the expected key_down order (trace_order).
	// Intervening events are allowed.
	Keystrokes []string `yaml:"keystrokes,omitempty"`

	// Count is the expected number of matches (trace_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// Load reads, parses, and validates a scenario YAML file. Unknown
// fields, schema violations, and unparseable step payloads all fail
// here.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes scenario YAML from memory.
func Parse(data []byte) (*Scenario, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	// Strict field validation catches typos the schema's open maps
	// would otherwise let through.
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks the semantic constraints the shape schema
// cannot: keystroke syntax and duration formats.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(&step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(&a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step *Step) error {
	set := 0
	if step.Keystrokes != "" {
		set++
		if _, err := input.ParseSequence(step.Keystrokes); err != nil {
			return err
		}
	}
	if step.Text != "" {
		set++
	}
	if step.Click != nil {
		set++
	}
	if step.Advance != "" {
		set++
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("advance: duration must be positive, got %s", step.Advance)
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of keystrokes, text, click, advance is required")
	}
	return nil
}

func validateAssertion(a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("kind is required for trace_contains")
		}
	case AssertTraceOrder:
		if len(a.Keystrokes) == 0 {
			return fmt.Errorf("keystrokes list is required for trace_order")
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("kind is required for trace_count")
		}
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for trace_count")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
