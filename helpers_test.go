package lifecycle_test

import (
	"errors"
	"math/rand"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/djdv/go-lifecycle"
)

const (
	// Fixed RNG seed for reproducibility.
	// Change to test variance between runs.
	rngSeed = 1

	reclaimTimeout = 5 * time.Second
	reclaimPolling = 10 * time.Millisecond
)

func newReproducibleRNG() *rand.Rand {
	return rand.New(rand.NewSource(rngSeed))
}

func newCache[Key, Value any](tb testing.TB, policy lifecycle.Policy) *lifecycle.Cache[Key, Value] {
	tb.Helper()
	cache, err := lifecycle.New[Key, Value](policy)
	if err != nil {
		tb.Fatal(err)
	}
	return cache
}

func newCapacityCache[Key, Value any](tb testing.TB, capacity int) *lifecycle.Cache[Key, Value] {
	tb.Helper()
	cache, err := lifecycle.New[Key, Value](
		lifecycle.Capacity,
		lifecycle.WithCapacity(capacity),
	)
	if err != nil {
		tb.Fatal(err)
	}
	return cache
}

func makeKeys(count int) []*int {
	keys := make([]*int, count)
	for i := range keys {
		key := i
		keys[i] = &key
	}
	return keys
}

func mustInsert[Key, Value any](
	tb testing.TB,
	cache *lifecycle.Cache[Key, Value],
	key *Key, value Value,
) {
	tb.Helper()
	if err := cache.Insert(key, value); err != nil {
		tb.Fatal(err)
	}
}

func makeConns(count int) []*conn {
	conns := make([]*conn, count)
	for i := range conns {
		conns[i] = &conn{addr: "held", fd: i}
	}
	return conns
}

func detachedConn(fd int) *conn { return &conn{addr: "detached", fd: fd} }

// insertInts inserts count incrementing keys
// (each mapped to its own value) and returns them.
func insertInts(tb testing.TB, cache *lifecycle.Cache[int, int], count int) []*int {
	tb.Helper()
	keys := makeKeys(count)
	for _, key := range keys {
		mustInsert(tb, cache, key, *key)
	}
	return keys
}

// insertDetached inserts count keys made by newKey
// that are unreachable once it returns.
//
//go:noinline
func insertDetached[Key any](
	tb testing.TB,
	cache *lifecycle.Cache[Key, string],
	count int, newKey func(int) *Key,
) {
	tb.Helper()
	for i := range count {
		key := newKey(i)
		mustInsert(tb, cache, key, "detached")
		checkLookup(tb, cache, key, "detached", "while referenced")
	}
}

func collectGarbage() {
	runtime.GC()
	runtime.GC()
}

func mustMiss[Key, Value any](
	tb testing.TB,
	cache *lifecycle.Cache[Key, Value],
	key *Key, why string,
) {
	tb.Helper()
	value, err := cache.Lookup(key)
	if errors.Is(err, lifecycle.ErrNotFound) {
		return
	}
	tb.Fatalf(
		"expected miss due to %s but got: %v %v",
		why, value, err)
}

func mustGet[Key, Value any](
	tb testing.TB,
	cache *lifecycle.Cache[Key, Value],
	key *Key,
) Value {
	tb.Helper()
	value, err := cache.Lookup(key)
	if err != nil {
		tb.Fatalf("expected value from Lookup for key %p: %v", key, err)
	}
	return value
}

func checkLookup[Key any, Value comparable](
	tb testing.TB,
	cache *lifecycle.Cache[Key, Value],
	key *Key, want Value, msg string,
) {
	tb.Helper()
	got, err := cache.Lookup(key)
	if err != nil {
		tb.Fatalf(
			"expected value from Lookup for key `%v` - %s: %v",
			*key, msg, err)
	}
	if got == want {
		return
	}
	tb.Fatalf(
		"expected value to match (%s)"+
			"\n\tgot: %v"+
			"\n\twant: %v",
		msg, got, want)
}

func checkLen[Key, Value any](
	tb testing.TB,
	cache *lifecycle.Cache[Key, Value],
	size int, action string,
) {
	tb.Helper()
	got := cache.Len()
	if got == size {
		return
	}
	tb.Fatalf(
		"expected cache to be specific size %s"+
			"\n\tgot: %d"+
			"\n\twant: %d",
		action, got, size)
}

// keysMatch expects the cache keys in exactly the order given.
func keysMatch[Key, Value any](
	tb testing.TB,
	cache *lifecycle.Cache[Key, Value],
	want []*Key, msg string,
) {
	tb.Helper()
	got := slices.Collect(cache.Keys())
	if !slices.Equal(got, want) {
		tb.Fatalf(
			"unexpected keys %s"+
				"\n\tgot: %v"+
				"\n\twant: %v",
			msg, got, want)
	}
}
