package harness

import "sync"

// Stream is a lazy, unbounded sequence of values bridged from observer
// callbacks. The producer never observes backpressure: pushes buffer
// without bound, decoupling the emitter from a possibly-slower test
// consumer.
//
// A stream closes when its entity is released; closure is terminal and
// observed exactly once the buffer drains (Closed never reports true
// while items remain).
type Stream[T any] struct {
	mu     sync.Mutex
	buf    []T
	closed bool
}

func (s *Stream[T]) push(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.buf = append(s.buf, v)
}

func (s *Stream[T]) closeStream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// TryNext pops the oldest buffered value without blocking.
// Returns false if nothing is buffered.
func (s *Stream[T]) TryNext() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if len(s.buf) == 0 {
		return zero, false
	}
	v := s.buf[0]
	s.buf[0] = zero
	s.buf = s.buf[1:]
	return v, true
}

// Closed reports whether the stream has terminated: the entity was
// released and every buffered value has been consumed.
func (s *Stream[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed && len(s.buf) == 0
}

// Pending returns the number of buffered values.
func (s *Stream[T]) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}
