// Package stack provides an array-backed LIFO container
// that releases the slots it abandons.
//
// A container that manages its own storage must tell the garbage collector
// which slots are no longer in use: the collector treats every element
// of the backing array as reachable, regardless of the container's size.
// [Stack.Pop] clears the vacated slot for this reason.
package stack

type constError string

// ErrEmpty is returned when removing from a [Stack] with no elements.
const ErrEmpty = constError("stack is empty")

func (errStr constError) Error() string { return string(errStr) }

// DefaultCapacity is the capacity allocated by [New]
// when given a non-positive capacity.
const DefaultCapacity = 16

// Stack is a last-in-first-out container backed by a manually sized array.
// The zero value is an empty stack ready to use.
// Concurrent access must be guarded by the caller.
type Stack[T any] struct {
	elements []T // len(elements) is the capacity.
	size     int
}

// New creates a [Stack] with room for capacity elements.
func New[T any](capacity int) *Stack[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack[T]{elements: make([]T, capacity)}
}

// Push adds value to the top of the stack,
// growing the storage first if it is full.
func (s *Stack[T]) Push(value T) {
	s.ensureCapacity()
	s.elements[s.size] = value
	s.size++
}

// Pop removes and returns the top element.
// The slot it occupied is zeroed, so the stack
// no longer keeps the element reachable.
func (s *Stack[T]) Pop() (T, error) {
	if s.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	s.size--
	var (
		result = s.elements[s.size]
		zero   T
	)
	s.elements[s.size] = zero
	return result, nil
}

// PopWithoutClearing removes and returns the top element
// but leaves it in the backing array, where it stays reachable
// until the slot is overwritten by a later [Stack.Push].
//
// Deprecated: Use [Stack.Pop]. This variant leaks popped elements
// and only exists to contrast with it.
func (s *Stack[T]) PopWithoutClearing() (T, error) {
	if s.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	s.size--
	return s.elements[s.size], nil
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (T, error) {
	if s.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return s.elements[s.size-1], nil
}

// Len returns the number of elements in the stack.
func (s *Stack[T]) Len() int { return s.size }

// Cap returns the number of elements the stack
// can hold before it must grow.
func (s *Stack[T]) Cap() int { return len(s.elements) }

func (s *Stack[T]) ensureCapacity() {
	if s.size < len(s.elements) {
		return
	}
	grown := make([]T, 2*s.size+1)
	copy(grown, s.elements[:s.size])
	s.elements = grown
}
