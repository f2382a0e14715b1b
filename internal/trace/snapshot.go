package trace

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures a complete recorded trace for golden comparison.
// All serialization is canonical so comparisons are byte-stable.
type Snapshot struct {
	SessionToken string
	Events       []Event
}

// NewSnapshot builds a snapshot from a recorder and session token.
func NewSnapshot(token string, r *Recorder) *Snapshot {
	return &Snapshot{SessionToken: token, Events: r.Events()}
}

func (s *Snapshot) toCanonicalMap() map[string]any {
	events := make([]any, len(s.Events))
	for i, e := range s.Events {
		events[i] = e.canonicalMap()
	}
	return map[string]any{
		"session_token": s.SessionToken,
		"events":        events,
	}
}

// MarshalCanonical serializes the whole snapshot canonically.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return MarshalCanonical(s.toCanonicalMap())
}

// AssertGolden compares the snapshot against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, s *Snapshot) {
	t.Helper()

	data, err := s.MarshalCanonical()
	if err != nil {
		t.Fatalf("failed to serialize trace snapshot: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
