package history

// stack is a LIFO with FIFO eviction from the bottom.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

func (s *stack[T]) Pop() (T, bool) {
	var zero T
	n := len(s.items)
	if n == 0 {
		return zero, false
	}
	v := s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v, true
}

func (s *stack[T]) Peek() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

func (s *stack[T]) Len() int {
	return len(s.items)
}

// Trim keeps at most n entries, dropping the oldest.
func (s *stack[T]) Trim(n int) {
	if n < 0 {
		n = 0
	}
	excess := len(s.items) - n
	if excess <= 0 {
		return
	}
	kept := copy(s.items, s.items[excess:])
	var zero T
	for i := kept; i < len(s.items); i++ {
		s.items[i] = zero
	}
	s.items = s.items[:kept]
}

func (s *stack[T]) Clear() {
	var zero T
	for i := range s.items {
		s.items[i] = zero
	}
	s.items = s.items[:0]
}

// Items returns the entries bottom to top.
func (s *stack[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
