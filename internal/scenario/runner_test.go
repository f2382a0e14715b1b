package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loupe-ui/loupe/internal/trace"
)

func TestRun_RecordsStepsInOrder(t *testing.T) {
	s := &Scenario{
		Name: "inline",
		Steps: []Step{
			{Keystrokes: "cmd-p escape"},
			{Click: &ClickStep{X: 4, Y: 2}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	require.Len(t, result.Trace, 4)

	assert.Equal(t, "key_down", result.Trace[0].Kind)
	assert.Equal(t, "cmd-p", result.Trace[0].Keystroke)
	assert.Equal(t, "escape", result.Trace[1].Keystroke)
	assert.Equal(t, "mouse_down", result.Trace[2].Kind)
	assert.Equal(t, "mouse_up", result.Trace[3].Kind)

	for i := 1; i < len(result.Trace); i++ {
		assert.Less(t, result.Trace[i-1].Seq, result.Trace[i].Seq)
	}
}

func TestRun_TextStep(t *testing.T) {
	s := &Scenario{
		Name:  "typing",
		Steps: []Step{{Text: "Hi"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, "shift-h", result.Trace[0].Keystroke)
	assert.Equal(t, "i", result.Trace[1].Keystroke)
}

func TestRun_AdvanceStepMovesClockOnly(t *testing.T) {
	s := &Scenario{
		Name: "waiting",
		Steps: []Step{
			{Keystrokes: "escape"},
			{Advance: "100ms"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.Len(t, result.Trace, 1, "advancing records no input events")
}

func TestRun_DefaultSessionToken(t *testing.T) {
	result, err := Run(&Scenario{Name: "anon", Steps: []Step{{Keystrokes: "a"}}})
	require.NoError(t, err)
	assert.Equal(t, "test-session-default", result.SessionToken)
}

func TestRun_PinnedSessionToken(t *testing.T) {
	result, err := Run(&Scenario{
		Name:         "pinned",
		SessionToken: "session-42",
		Steps:        []Step{{Keystrokes: "a"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "session-42", result.SessionToken)
}

func TestRun_UUIDTokenGenerator(t *testing.T) {
	runner := NewRunner(WithTokenGenerator(trace.UUIDv7Generator{}))

	a, err := runner.Run(&Scenario{Name: "gen", Steps: []Step{{Keystrokes: "a"}}})
	require.NoError(t, err)
	b, err := runner.Run(&Scenario{Name: "gen", Steps: []Step{{Keystrokes: "a"}}})
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionToken, b.SessionToken)
}

func TestRun_PassingAssertions(t *testing.T) {
	result, err := Run(&Scenario{
		Name:  "asserted",
		Steps: []Step{{Keystrokes: "cmd-p escape"}},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Kind: "key_down", Count: 2},
			{Type: AssertTraceContains, Kind: "key_down", Keystroke: "escape"},
			{Type: AssertTraceOrder, Keystrokes: []string{"cmd-p", "escape"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Errors)
}

func TestRun_FailedAssertionsAllReported(t *testing.T) {
	result, err := Run(&Scenario{
		Name:  "failing",
		Steps: []Step{{Keystrokes: "escape"}},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Kind: "key_down", Count: 5},
			{Type: AssertTraceContains, Kind: "mouse_down"},
		},
	})
	require.NoError(t, err, "assertion failures are results, not run errors")
	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 2, "every failed assertion reports")
	assert.Contains(t, result.Errors[0], "5 occurrences")
	assert.Contains(t, result.Errors[1], "not found in trace")
}

func TestRun_TraceOrderViolation(t *testing.T) {
	result, err := Run(&Scenario{
		Name:  "out-of-order",
		Steps: []Step{{Keystrokes: "escape cmd-p"}},
		Assertions: []Assertion{
			{Type: AssertTraceOrder, Keystrokes: []string{"cmd-p", "escape"}},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Errors[0], "should be before")
}

func TestRunWithGolden_LoadedScenario(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "keystroke-smoke.yaml"))
	require.NoError(t, err)

	RunWithGolden(t, s)
}
