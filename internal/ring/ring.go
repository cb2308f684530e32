// Package ring is a specialized adaption of `container/ring`
// used to track the recency order of cache entries.
package ring

import (
	"iter"
	"runtime"
	"weak"
)

type (
	// A Ring is an element of a circular list, or ring.
	// Rings do not have a beginning or end; a pointer to any ring element
	// serves as reference to the entire ring. The zero value for a Ring
	// is a one-element ring holding no key.
	Ring[Key, Value any] struct {
		next, prev *Ring[Key, Value]
		Value      Value
		Metadata[Key]
	}
	// Metadata stores the liveness state of a cache entry.
	Metadata[Key any] struct {
		// Handle identifies the key without owning it.
		Handle weak.Pointer[Key]
		// Pinned holds the key strongly when the owning
		// policy retains keys (nil otherwise).
		Pinned *Key
		// Cleanup is the reclamation callback registered
		// for the key, if any.
		Cleanup runtime.Cleanup
		// Watched is true if Cleanup was registered
		// and has not been stopped.
		Watched bool
	}
)

func (r *Ring[Key, Value]) init() *Ring[Key, Value] {
	r.next = r
	r.prev = r
	return r
}

// Next returns the next ring element.
func (r *Ring[Key, Value]) Next() *Ring[Key, Value] {
	if r.next == nil {
		return r.init()
	}
	return r.next
}

// Prev returns the previous ring element.
func (r *Ring[Key, Value]) Prev() *Ring[Key, Value] {
	if r.next == nil {
		return r.init()
	}
	return r.prev
}

// Live reports whether the entry's key has not been reclaimed.
func (r *Ring[Key, Value]) Live() bool {
	return r.Handle.Value() != nil
}

// Link connects ring r with ring s such that r.Next()
// becomes s and returns the original value for r.Next().
//
// If r and s point to different rings, linking
// them creates a single ring with the elements of s inserted
// after r.
func (r *Ring[Key, Value]) Link(s *Ring[Key, Value]) *Ring[Key, Value] {
	n := r.Next()
	if s != nil {
		p := s.Prev()
		// Note: Cannot use multiple assignment because
		// evaluation order of LHS is not specified.
		r.next = s
		s.prev = r
		n.prev = p
		p.next = n
	}
	return n
}

// Detach removes r from whatever ring it is linked into
// and leaves it as a one-element ring.
// The neighbours no longer reference r, and r
// no longer references them.
func (r *Ring[Key, Value]) Detach() *Ring[Key, Value] {
	if r.next == nil || r.next == r {
		return r.init()
	}
	r.prev.next = r.next
	r.next.prev = r.prev
	return r.init()
}

// Release detaches r and drops every reference it holds,
// so that a retained pointer to r keeps nothing else reachable.
func (r *Ring[Key, Value]) Release() {
	r.Detach()
	if r.Watched {
		r.Cleanup.Stop()
	}
	var zero Value
	r.Value = zero
	r.Metadata = Metadata[Key]{}
}

// MoveToBack relinks r so that it becomes the element
// directly before sentinel (the most recent position).
func (r *Ring[Key, Value]) MoveToBack(sentinel *Ring[Key, Value]) {
	if sentinel.Prev() == r {
		return
	}
	r.Detach()
	sentinel.Prev().Link(r)
}

// Len computes the number of elements in ring r,
// excluding r itself. It is intended to be called on a sentinel.
func (r *Ring[Key, Value]) Len() int {
	n := 0
	for p := r.Next(); p != r; p = p.next {
		n++
	}
	return n
}

// Iter yields every element of the ring after r,
// in forward order, excluding r itself.
// The element being yielded may be detached by the caller;
// iteration continues from its former successor.
func (r *Ring[Key, Value]) Iter() iter.Seq[*Ring[Key, Value]] {
	return func(yield func(*Ring[Key, Value]) bool) {
		for p := r.Next(); p != r; {
			next := p.next
			if !yield(p) {
				return
			}
			p = next
		}
	}
}
