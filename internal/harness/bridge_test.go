package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loupe-ui/loupe/internal/entity"
	"github.com/loupe-ui/loupe/internal/executor"
)

type itemAdded struct {
	Label string
}

type itemRemoved struct {
	Label string
}

func TestNotifications_LazyUntilNotify(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{})

	s := Notifications(cx, h)
	assert.Equal(t, 0, s.Pending(), "nothing buffers before the entity notifies")

	entity.Update(h, func(c *counter) { c.n++ })
	entity.Notify(h)

	assert.Equal(t, 1, s.Pending())
	_, ok := s.TryNext()
	assert.True(t, ok)
	_, ok = s.TryNext()
	assert.False(t, ok)
}

func TestNotifications_EachSignalBuffersDistinctly(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{})

	s := Notifications(cx, h)
	for i := 0; i < 3; i++ {
		entity.Notify(h)
	}

	assert.Equal(t, 3, s.Pending(), "signals never coalesce")
}

func TestNotifications_ClosesOnRelease(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{})

	s := Notifications(cx, h)
	entity.Notify(h)
	entity.Release(h)

	assert.False(t, s.Closed(), "buffered signals drain before closure is observed")
	_, ok := s.TryNext()
	assert.True(t, ok)
	assert.True(t, s.Closed())
}

func TestNotifications_PushAfterCloseDropped(t *testing.T) {
	s := &Stream[struct{}]{}
	s.closeStream()
	s.push(struct{}{})

	assert.True(t, s.Closed())
	assert.Equal(t, 0, s.Pending())
}

func TestEvents_TypedDeliveryOnly(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{})

	added := Events[itemAdded](cx, h)
	entity.Emit(h, itemAdded{Label: "first"})
	entity.Emit(h, itemRemoved{Label: "noise"})
	entity.Emit(h, itemAdded{Label: "second"})

	require.Equal(t, 2, added.Pending())
	ev, ok := added.TryNext()
	require.True(t, ok)
	assert.Equal(t, "first", ev.Label)
	ev, ok = added.TryNext()
	require.True(t, ok)
	assert.Equal(t, "second", ev.Label)
}

func TestEvents_CloseOnRelease(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{})

	s := Events[itemAdded](cx, h)
	entity.Release(h)

	assert.True(t, s.Closed())
}

func TestNextEvent_DrainsScheduledWork(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{})
	s := Events[itemAdded](cx, h)

	cx.Dispatcher().SpawnAfter(5*time.Millisecond, executor.Background, func() error {
		entity.Emit(h, itemAdded{Label: "deferred"})
		return nil
	})

	ev := NextEvent(cx, s)
	assert.Equal(t, "deferred", ev.Label)
}

func TestNextNotification_TimesOut(t *testing.T) {
	msg := expectFatal(t,
		func(rec *fatalRecorder) *Context { return newTestContext(rec) },
		func(cx *Context) {
			h := entity.New(cx.App(), &counter{})
			s := Notifications(cx, h)
			NextNotification(cx, s)
		})

	assert.Contains(t, msg, "timed out")
	assert.Contains(t, msg, "notification")
}

func TestNextNotification_FatalOnRelease(t *testing.T) {
	msg := expectFatal(t,
		func(rec *fatalRecorder) *Context { return newTestContext(rec) },
		func(cx *Context) {
			h := entity.New(cx.App(), &counter{})
			s := Notifications(cx, h)
			cx.Spawn(func() error {
				entity.Release(h)
				return nil
			})
			NextNotification(cx, s)
		})

	assert.Contains(t, msg, "released")
}

func TestNextNotification_ConsumesExactlyOne(t *testing.T) {
	cx := newTestContext(t)
	h := entity.New(cx.App(), &counter{})
	s := Notifications(cx, h)

	entity.Notify(h)
	entity.Notify(h)

	NextNotification(cx, s)
	assert.Equal(t, 1, s.Pending())
}
