package stack

// Stack is a LIFO sequence of values.
type Stack[T any] struct {
	a []T
}

// NewStack creates a new stack holding elm, the last element on top
func NewStack[T any](elm ...T) *Stack[T] {
	s := &Stack[T]{a: make([]T, 0, len(elm))}
	s.a = append(s.a, elm...)

	return s
}

// Push adds an element to the top of the stack
func (s *Stack[T]) Push(elm T) {
	s.a = append(s.a, elm)
}

// Pop removes and returns the top element of the stack. ok is false when
// the stack is empty.
func (s *Stack[T]) Pop() (elm T, ok bool) {
	n := len(s.a)
	if n < 1 {
		return elm, false
	}

	elm = s.a[n-1]
	var zero T
	s.a[n-1] = zero
	s.a = s.a[:n-1]

	return elm, true
}

// Peek returns the top element of the stack without removing it
func (s *Stack[T]) Peek() (elm T, ok bool) {
	n := len(s.a)
	if n < 1 {
		return elm, false
	}

	return s.a[n-1], true
}

// Get the size of the stack
func (s *Stack[T]) Size() int {
	return len(s.a)
}

// Array returns the underlying array of the stack, bottom first
func (s *Stack[T]) Array() []T {
	return s.a
}
