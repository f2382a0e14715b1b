package trace

import "github.com/google/uuid"

// TokenGenerator produces session tokens for recorded input traces.
// Implemented by UUIDv7Generator (production) and FixedTokenGenerator
// (tests and golden scenarios).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, making
// tokens sortable by creation time, which keeps `loupe trace show`
// listings in recording order.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokenGenerator returns the same session token every time.
//
// This enables deterministic golden comparison: the same scenario with
// the same FixedTokenGenerator produces byte-identical traces.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator for the given token.
// An empty token defaults to "test-session-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-session-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed session token.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
