// Package turn provides the round-robin turn order over live actors.
package turn

// Actor is the minimum the scheduler needs to track a participant.
type Actor interface {
	ID() string
}

// Scheduler is a fixed-order cyclic queue with a cursor on whoever acts next.
// It is not safe for concurrent use; the session drives it from one goroutine.
type Scheduler[T Actor] struct {
	queue []T
	next  int
}

// NewScheduler returns an empty scheduler.
func NewScheduler[T Actor]() *Scheduler[T] {
	return &Scheduler[T]{}
}

// Add appends an actor to the end of the cycle.
func (s *Scheduler[T]) Add(a T) {
	s.queue = append(s.queue, a)
}

// Next returns the actor whose turn it now is and advances the cursor.
// ok is false when the queue is empty.
func (s *Scheduler[T]) Next() (a T, ok bool) {
	if len(s.queue) == 0 {
		return a, false
	}
	if s.next >= len(s.queue) {
		s.next = 0
	}
	a = s.queue[s.next]
	s.next = (s.next + 1) % len(s.queue)
	return a, true
}

// Remove deletes the actor with the given id, keeping the relative order of the
// rest. Whoever would have acted next still acts next. It reports whether
// anything was removed.
func (s *Scheduler[T]) Remove(id string) bool {
	for i, a := range s.queue {
		if a.ID() != id {
			continue
		}
		s.queue = append(s.queue[:i], s.queue[i+1:]...)
		if i < s.next {
			s.next--
		}
		if s.next >= len(s.queue) {
			s.next = 0
		}
		return true
	}
	return false
}

// Clear empties the queue.
func (s *Scheduler[T]) Clear() {
	clear(s.queue)
	s.queue = s.queue[:0]
	s.next = 0
}

// Len returns the number of scheduled actors.
func (s *Scheduler[T]) Len() int {
	return len(s.queue)
}

// Actors returns the queue in cycle order starting from the actor that acts next.
func (s *Scheduler[T]) Actors() []T {
	out := make([]T, 0, len(s.queue))
	for i := range s.queue {
		out = append(out, s.queue[(s.next+i)%len(s.queue)])
	}
	return out
}
