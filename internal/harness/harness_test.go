package harness

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loupe-ui/loupe/internal/entity"
	"github.com/loupe-ui/loupe/internal/executor"
	"github.com/loupe-ui/loupe/internal/window"
)

// fatalRecorder captures Fatalf instead of aborting the goroutine, so
// tests can assert on the distinct fatal outcomes (timeout vs released
// vs malformed input). Fatalf still stops the harness call by
// panicking with a sentinel that the driver recovers.
type fatalRecorder struct {
	testing.TB
	failed  bool
	message string
}

var errFatalStop = errors.New("fatal recorded")

func (f *fatalRecorder) Helper() {}

func (f *fatalRecorder) Fatalf(format string, args ...any) {
	f.failed = true
	f.message = fmt.Sprintf(format, args...)
	panic(errFatalStop)
}

// expectFatal runs fn against a context whose TB records fatals, and
// returns the fatal message. Fails the real test if fn completes
// without a fatal.
func expectFatal(t *testing.T, build func(rec *fatalRecorder) *Context, fn func(cx *Context)) string {
	t.Helper()

	rec := &fatalRecorder{TB: t}
	cx := build(rec)

	func() {
		defer func() {
			if r := recover(); r != nil && r != errFatalStop {
				panic(r)
			}
		}()
		fn(cx)
	}()

	require.True(t, rec.failed, "expected a fatal test error")
	return rec.message
}

func newTestContext(t testing.TB, opts ...Option) *Context {
	return NewContext(t, entity.NewApp(), executor.NewDispatcher(), opts...)
}

func newTestWindowContext(t testing.TB, opts ...Option) *Context {
	app := entity.NewApp()
	w := window.New(app, window.Size{Width: 80, Height: 24})
	return NewWindowContext(t, w, executor.NewDispatcher(), opts...)
}
