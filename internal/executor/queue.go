package executor

import "sync"

// taskQueue is a thread-safe FIFO queue of spawned tasks.
//
// The queue is unbounded so cascading work (a drained task spawning
// further tasks) can enqueue arbitrarily many entries without
// blocking. Thread-safety covers external spawning while the
// Dispatcher's drain loop dequeues; in practice most usage is
// single-threaded.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []*Task
	closed bool
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		tasks: make([]*Task, 0, 64), // Pre-allocate for typical workloads
	}
}

// push adds a task to the back of the queue.
// Returns false if the queue is closed.
func (q *taskQueue) push(t *Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, t)
	return true
}

// pop removes and returns the front task without blocking.
// Returns (nil, false) if the queue is empty.
func (q *taskQueue) pop() (*Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}

	t := q.tasks[0]

	// Nil out the slot so the backing array does not retain the Task
	// (and its closure) until reallocation.
	q.tasks[0] = nil

	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}

	return t, true
}

// len returns the current queue length.
func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// close rejects further pushes. Queued tasks remain poppable.
func (q *taskQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}
