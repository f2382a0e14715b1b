package executor

import "sync"

// Label classifies a task for scheduling purposes.
//
// Foreground tasks model work on the UI thread (state mutation, event
// handling). Background tasks model work that production code would
// push to a worker pool. Under the test dispatcher both run from the
// same cooperative drain loop, so RunUntilParked is a barrier over all
// schedulable work reachable from the test - it is not a join over
// foreign goroutines.
type Label int

const (
	// Foreground marks tasks that mutate application state.
	Foreground Label = iota
	// Background marks tasks that production code would offload.
	Background
)

func (l Label) String() string {
	switch l {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

type taskState int

const (
	taskPending taskState = iota
	taskCancelled
	taskDone
)

// Task is the handle returned by Dispatcher.Spawn.
//
// The eventual result of the task is observed through Done and Err
// after a drain. Cancellation is by value-drop: a task cancelled
// before it runs never runs, and no completion callback fires.
type Task struct {
	label Label
	fn    func() error

	mu    sync.Mutex
	state taskState
	err   error
}

// Cancel drops the task. A task that has already run is unaffected.
// Safe to call more than once.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == taskPending {
		t.state = taskCancelled
	}
}

// Done reports whether the task has run to completion.
// A cancelled task is never done.
func (t *Task) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == taskDone
}

// Cancelled reports whether the task was dropped before it ran.
func (t *Task) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == taskCancelled
}

// Err returns the error produced by the task, or nil if the task
// succeeded or has not run yet.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Label returns the scheduling label the task was spawned with.
func (t *Task) Label() Label {
	return t.label
}

// run executes the task body unless it was cancelled.
// Returns false if the task was skipped.
func (t *Task) run() bool {
	t.mu.Lock()
	if t.state != taskPending {
		t.mu.Unlock()
		return false
	}
	fn := t.fn
	t.mu.Unlock()

	// The body runs outside the lock so it can cancel or inspect
	// other tasks without deadlocking.
	err := fn()

	t.mu.Lock()
	t.state = taskDone
	t.err = err
	t.mu.Unlock()
	return true
}
