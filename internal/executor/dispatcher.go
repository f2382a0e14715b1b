package executor

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"
)

// Dispatcher is a deterministic cooperative scheduler.
//
// All pending work is drained synchronously by RunUntilParked rather
// than running on wall-clock time. Timers are measured against a
// logical clock that only moves when a test advances it, so timeouts
// stay deterministic under the cooperative model.
//
// Thread-safety model:
//   - Spawn / SpawnAfter / Timer: safe from any goroutine
//   - RunUntilParked / Advance: must be called from the test goroutine
//
// INVARIANTS:
//   - RunUntilParked returns only when no task is immediately runnable
//     (pure drain, no partial progress left silently)
//   - Tasks execute in FIFO order; scheduled tasks fire in deadline
//     order with insertion order breaking ties
type Dispatcher struct {
	clock    *Clock
	queue    *taskQueue
	executed atomic.Int64

	mu        sync.Mutex
	now       time.Duration // logical elapsed time since construction
	scheduled scheduleHeap
	schedSeq  int64 // tie-break for equal deadlines
}

// NewDispatcher creates an idle dispatcher with a fresh clock.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		clock: NewClock(),
		queue: newTaskQueue(),
	}
}

// Clock returns the dispatch-ordering clock. Trace recorders share it
// so recorded inputs interleave correctly with executed tasks.
func (d *Dispatcher) Clock() *Clock {
	return d.clock
}

// Spawn enqueues a unit of asynchronous work and returns a handle
// through which its eventual result can be observed.
func (d *Dispatcher) Spawn(label Label, fn func() error) *Task {
	t := &Task{label: label, fn: fn}
	d.queue.push(t)
	return t
}

// RunUntilParked executes all currently queued tasks, and all tasks
// they enqueue, until the queue is empty. Draining is a fixed point,
// not a single pass: the loop re-checks the queue after every task.
// It never blocks on real wall-clock time.
//
// Calling RunUntilParked twice with no new work between calls performs
// no dispatches on the second call.
func (d *Dispatcher) RunUntilParked() {
	for {
		t, ok := d.queue.pop()
		if !ok {
			return
		}
		if t.run() {
			d.executed.Add(1)
			d.clock.Next()
		}
	}
}

// Dispatches returns the number of tasks executed so far.
func (d *Dispatcher) Dispatches() int64 {
	return d.executed.Load()
}

// PendingTasks returns the number of tasks queued but not yet run.
func (d *Dispatcher) PendingTasks() int {
	return d.queue.len()
}

// Now returns the logical elapsed time.
func (d *Dispatcher) Now() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

// SpawnAfter schedules a task to become runnable once the logical
// clock reaches now+delay. The task is enqueued by Advance or
// AdvanceToNextTimer, then executed by the next drain.
func (d *Dispatcher) SpawnAfter(delay time.Duration, label Label, fn func() error) *Task {
	t := &Task{label: label, fn: fn}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.schedSeq++
	heap.Push(&d.scheduled, &scheduledTask{
		deadline: d.now + delay,
		seq:      d.schedSeq,
		task:     t,
	})
	return t
}

// Timer registers a logical deadline and returns a handle whose
// channel receives exactly one signal when the deadline is reached.
// Cancelling the timer before it fires drops it with no effect.
func (d *Dispatcher) Timer(delay time.Duration) *Timer {
	t := &Timer{c: make(chan struct{}, 1)}
	t.task = d.SpawnAfter(delay, Foreground, func() error {
		select {
		case t.c <- struct{}{}:
		default:
		}
		return nil
	})
	return t
}

// Advance moves the logical clock forward by delta, enqueueing every
// scheduled task whose deadline has been reached. The caller drains
// afterwards (or uses the harness, which drains for it).
func (d *Dispatcher) Advance(delta time.Duration) {
	d.mu.Lock()
	d.now += delta
	d.releaseDueLocked()
	d.mu.Unlock()
}

// AdvanceToNextTimer jumps the logical clock to the earliest pending
// deadline and enqueues everything due at it. Returns false if no
// timer is pending.
func (d *Dispatcher) AdvanceToNextTimer() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.scheduled) == 0 {
		return false
	}
	d.now = d.scheduled[0].deadline
	d.releaseDueLocked()
	return true
}

// NextTimerDeadline reports the earliest pending logical deadline.
func (d *Dispatcher) NextTimerDeadline() (time.Duration, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.scheduled) == 0 {
		return 0, false
	}
	return d.scheduled[0].deadline, true
}

// releaseDueLocked enqueues all scheduled tasks due at or before now.
// Caller holds d.mu.
func (d *Dispatcher) releaseDueLocked() {
	for len(d.scheduled) > 0 && d.scheduled[0].deadline <= d.now {
		st := heap.Pop(&d.scheduled).(*scheduledTask)
		d.queue.push(st.task)
	}
}

// Timer is a pending logical deadline. See Dispatcher.Timer.
type Timer struct {
	c    chan struct{}
	task *Task
}

// C returns the channel signalled when the deadline is reached.
func (t *Timer) C() <-chan struct{} {
	return t.c
}

// Fired reports whether the deadline signal is ready or was consumed.
func (t *Timer) Fired() bool {
	select {
	case v := <-t.c:
		t.c <- v
		return true
	default:
		return t.task.Done()
	}
}

// Cancel drops the timer. A timer that already fired is unaffected.
func (t *Timer) Cancel() {
	t.task.Cancel()
}

type scheduledTask struct {
	deadline time.Duration
	seq      int64
	task     *Task
}

type scheduleHeap []*scheduledTask

func (h scheduleHeap) Len() int { return len(h) }

func (h scheduleHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h scheduleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *scheduleHeap) Push(x any) {
	*h = append(*h, x.(*scheduledTask))
}

func (h *scheduleHeap) Pop() any {
	old := *h
	n := len(old)
	st := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return st
}
