package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidScenario(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "keystroke-smoke.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "keystroke-smoke", s.Name)
	assert.Equal(t, "golden-scenario", s.SessionToken)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "cmd-p escape", s.Steps[0].Keystrokes)
	require.NotNil(t, s.Steps[1].Click)
	assert.Equal(t, 4, s.Steps[1].Click.X)
	require.Len(t, s.Assertions, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "does-not-exist.yaml"))
	assert.ErrorContains(t, err, "read scenario file")
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "invalid-unknown-field.yaml"))
	assert.Error(t, err, "a typo like assertion: must not silently parse")
}

func TestLoad_MalformedKeystrokeRejected(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "invalid-bad-keystroke.yaml"))
	assert.ErrorContains(t, err, "unknown modifier")
}

func TestLoad_MissingStepsRejected(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "invalid-missing-steps.yaml"))
	assert.Error(t, err)
}

func TestParse_StepMustBeExactlyOneAction(t *testing.T) {
	_, err := Parse([]byte(`
name: conflicting-step
steps:
  - keystrokes: cmd-p
    text: hello
`))
	assert.Error(t, err)
}

func TestParse_AdvanceMustBePositiveDuration(t *testing.T) {
	_, err := Parse([]byte(`
name: bad-advance
steps:
  - advance: -5ms
`))
	assert.ErrorContains(t, err, "positive")

	_, err = Parse([]byte(`
name: unparseable-advance
steps:
  - advance: soon
`))
	assert.Error(t, err)
}

func TestParse_UnknownAssertionTypeRejected(t *testing.T) {
	_, err := Parse([]byte(`
name: bad-assertion
steps:
  - keystrokes: escape
assertions:
  - type: trace_matches_regex
    kind: key_down
`))
	assert.Error(t, err)
}

func TestParse_NegativeCountRejected(t *testing.T) {
	_, err := Parse([]byte(`
name: negative-count
steps:
  - keystrokes: escape
assertions:
  - type: trace_count
    kind: key_down
    count: -1
`))
	assert.Error(t, err)
}
