package scenario

import (
	"testing"

	"github.com/loupe-ui/loupe/internal/trace"
)

// RunWithGolden executes a scenario and compares its canonical trace
// against testdata/golden/{scenario.Name}.golden. Assertion failures
// fail the test before the golden comparison runs, so a stale golden
// never masks a broken scenario.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		t.Fatalf("scenario %s failed to run: %v", s.Name, err)
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", s.Name, msg)
	}
	if t.Failed() {
		return
	}

	snapshot := &trace.Snapshot{
		SessionToken: result.SessionToken,
		Events:       result.Trace,
	}
	trace.AssertGolden(t, s.Name, snapshot)
}
