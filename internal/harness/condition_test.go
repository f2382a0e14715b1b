package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/loupe-ui/loupe/internal/entity"
	"github.com/loupe-ui/loupe/internal/executor"
)

type counter struct {
	n int
}

func TestCondition_AlreadyTrueResolvesImmediately(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{n: 5})

	Condition(cx, h, func(c *counter) bool { return c.n == 5 })

	assert.Equal(t, time.Duration(0), cx.Dispatcher().Now(), "no clock advance needed")
}

func TestCondition_ResolvesAfterScheduledUpdates(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{})

	for i := 1; i <= 3; i++ {
		delay := time.Duration(i) * 10 * time.Millisecond
		cx.Dispatcher().SpawnAfter(delay, executor.Foreground, func() error {
			entity.Update(h, func(c *counter) { c.n++ })
			entity.Notify(h)
			return nil
		})
	}

	Condition(cx, h, func(c *counter) bool { return c.n == 3 })

	var final int
	entity.Read(h, func(c *counter) { final = c.n })
	assert.Equal(t, 3, final)
	assert.Equal(t, 30*time.Millisecond, cx.Dispatcher().Now(),
		"logical clock jumps timer to timer, no wall sleeping")
}

func TestCondition_RepolledPerNotification(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{})

	// A single drained batch produces two notifications; the waiter
	// consumes them one at a time, re-polling between each.
	cx.Spawn(func() error {
		entity.Update(h, func(c *counter) { c.n = 1 })
		entity.Notify(h)
		entity.Update(h, func(c *counter) { c.n = 2 })
		entity.Notify(h)
		return nil
	})

	polls := 0
	Condition(cx, h, func(c *counter) bool {
		polls++
		return c.n == 2
	})

	assert.GreaterOrEqual(t, polls, 2)
}

func TestCondition_TimesOutWhenNeverTrue(t *testing.T) {
	msg := expectFatal(t,
		func(rec *fatalRecorder) *Context { return newTestContext(rec) },
		func(cx *Context) {
			h := entity.New(cx.App(), &counter{})
			Condition(cx, h, func(c *counter) bool { return c.n > 0 })
		})

	assert.Contains(t, msg, "condition timed out after")
}

func TestCondition_FatalWhenEntityReleased(t *testing.T) {
	msg := expectFatal(t,
		func(rec *fatalRecorder) *Context { return newTestContext(rec) },
		func(cx *Context) {
			h := entity.New(cx.App(), &counter{})
			cx.Dispatcher().SpawnAfter(10*time.Millisecond, executor.Foreground, func() error {
				entity.Release(h)
				return nil
			})
			Condition(cx, h, func(c *counter) bool { return c.n > 0 })
		})

	assert.Contains(t, msg, "released")
	assert.NotContains(t, msg, "timed out", "release and timeout are distinct failures")
}

func TestCondition_FatalWhenEntityAlreadyReleased(t *testing.T) {
	msg := expectFatal(t,
		func(rec *fatalRecorder) *Context { return newTestContext(rec) },
		func(cx *Context) {
			h := entity.New(cx.App(), &counter{})
			entity.Release(h)
			Condition(cx, h, func(c *counter) bool { return true })
		})

	assert.Contains(t, msg, "released")
}

func TestConditionWithTimeout_PerCallBudget(t *testing.T) {
	msg := expectFatal(t,
		func(rec *fatalRecorder) *Context { return newTestContext(rec) },
		func(cx *Context) {
			h := entity.New(cx.App(), &counter{})
			// The update lands after the per-call budget elapses.
			cx.Dispatcher().SpawnAfter(100*time.Millisecond, executor.Foreground, func() error {
				entity.Update(h, func(c *counter) { c.n = 1 })
				entity.Notify(h)
				return nil
			})
			ConditionWithTimeout(cx, h, 50*time.Millisecond, func(c *counter) bool { return c.n == 1 })
		})

	assert.Contains(t, msg, "50ms")
}

func TestConditionTimeout_ContextOption(t *testing.T) {
	cx := newTestContext(t, WithConditionTimeout(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, cx.conditionTimeout)
}

func TestConditionTimeout_StretchesUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, CIConditionTimeout, conditionTimeoutFromEnv())

	t.Setenv("CI", "")
	assert.Equal(t, DefaultConditionTimeout, conditionTimeoutFromEnv())
}
