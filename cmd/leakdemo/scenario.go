package main

import (
	"runtime"
	"weak"

	"github.com/go-logr/logr"

	"github.com/djdv/go-lifecycle"
	"github.com/djdv/go-lifecycle/stack"
)

type (
	// payload is large enough to never share an
	// allocation with other values.
	payload struct {
		label string
		data  [64]byte
	}
	// socket is a handle that is never opened.
	socket struct {
		addr string
		fd   int
	}
	user struct {
		name string
	}
)

// collectAttempts bounds how many collections are run
// while waiting for unreachable values to be reclaimed.
const collectAttempts = 10

// stackScenario pops every pushed value, first leaving the vacated slots
// populated and then clearing them. It returns how many popped values
// are still reachable after collection in each case.
func stackScenario(objects int) (leaked, released int, err error) {
	s := stack.New[*payload](0)
	uncleared := pushPayloads(s, objects)
	for range objects {
		if _, err := s.PopWithoutClearing(); err != nil {
			return 0, 0, err
		}
	}
	leaked = retained(uncleared)
	runtime.KeepAlive(s)

	// Pushing again overwrites the stale slots.
	cleared := pushPayloads(s, objects)
	for range objects {
		if _, err := s.Pop(); err != nil {
			return 0, 0, err
		}
	}
	released = retained(cleared) + retained(uncleared)
	runtime.KeepAlive(s)
	return leaked, released, nil
}

func pushPayloads(s *stack.Stack[*payload], count int) []weak.Pointer[payload] {
	pointers := make([]weak.Pointer[payload], count)
	for i := range pointers {
		value := &payload{label: "payload"}
		pointers[i] = weak.Make(value)
		s.Push(value)
	}
	return pointers
}

// weakScenario inserts objects sockets into a weak cache,
// drops every other one, and returns the number of entries
// left once the dropped sockets are reclaimed.
func weakScenario(log logr.Logger, objects int) (int, error) {
	cache, err := lifecycle.New[socket, user](
		lifecycle.Weak,
		lifecycle.WithLogger(log),
	)
	if err != nil {
		return 0, err
	}
	sockets := make([]*socket, objects)
	for i := range sockets {
		sockets[i] = &socket{addr: "127.0.0.1", fd: i}
		if err := cache.Insert(sockets[i], user{name: "user"}); err != nil {
			return 0, err
		}
	}
	for i := 1; i < len(sockets); i += 2 {
		sockets[i] = nil
	}
	want := objects - objects/2
	for range collectAttempts {
		runtime.GC()
		cache.EvictStale()
		if cache.Len() == want {
			break
		}
	}
	remaining := cache.Len()
	runtime.KeepAlive(sockets)
	return remaining, nil
}

// capacityScenario inserts objects sockets into a cache
// bounded by capacity and returns how many were evicted.
func capacityScenario(log logr.Logger, objects, capacity int) (int, error) {
	cache, err := lifecycle.New[socket, user](
		lifecycle.Capacity,
		lifecycle.WithCapacity(capacity),
		lifecycle.WithLogger(log),
	)
	if err != nil {
		return 0, err
	}
	for i := range objects {
		if err := cache.Insert(&socket{fd: i}, user{name: "user"}); err != nil {
			return 0, err
		}
	}
	return objects - cache.Len(), nil
}

// retained runs the collector until the pointers are reclaimed
// (or attempts run out) and returns how many are still reachable.
func retained[T any](pointers []weak.Pointer[T]) int {
	var count int
	for range collectAttempts {
		runtime.GC()
		count = 0
		for _, pointer := range pointers {
			if pointer.Value() != nil {
				count++
			}
		}
		if count == 0 {
			break
		}
	}
	return count
}
