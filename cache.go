package lifecycle

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"runtime"
	"sync"
	"time"
	"weak"

	"github.com/go-logr/logr"

	"github.com/djdv/go-lifecycle/internal/ring"
)

type (
	node[Key, Value any] = ring.Ring[Key, Value]
	metadata[Key any]    = ring.Metadata[Key]
	handle[Key any]      = weak.Pointer[Key]
	// Cache maps keys to values and releases entries
	// according to its [Policy].
	// Keys are compared by identity (pointer equality).
	// All methods are safe for concurrent use.
	// Constructed by [New].
	Cache[Key, Value any] struct {
		index   map[handle[Key]]*node[Key, Value]
		order   *node[Key, Value] // Sentinel; Next is least recent.
		evict   EvictionPolicy[Key]
		stale   *staleQueue[Key]
		metrics *cacheMetrics
		logger  logr.Logger
		cancel  context.CancelFunc // Stops the sweeper, if any.
		sweeper sync.WaitGroup
		mu      sync.Mutex
		policy  Policy
	}
	// staleQueue receives the handles of reclaimed keys.
	// It is referenced by reclamation callbacks,
	// so it must never hold a key strongly.
	staleQueue[Key any] struct {
		handles []handle[Key]
		mu      sync.Mutex
	}
)

const (
	// MinimumCapacity defines the lowest value supported by [WithCapacity].
	MinimumCapacity = 1
	// MinimumWeakKeySize is the smallest pointer-free key type
	// accepted by the [Weak] policy.
	// The runtime may combine smaller pointer-free allocations into one block,
	// which stays reachable while a weak pointer to any part of it exists.
	MinimumWeakKeySize = 16
)

// New creates a [Cache] that releases entries according to policy.
//
// Under the [Weak] policy, Key must either contain a pointer
// or be at least [MinimumWeakKeySize] bytes, otherwise [ErrInvalidKey]
// is returned. Keys like *int would never be reported as reclaimed.
// Zero-sized key types are never supported, since all pointers to
// zero-sized values may be equal.
//
// If [WithSweepInterval] is given, the cache owns a goroutine
// until [Cache.Close] is called.
func New[Key, Value any](policy Policy, opts ...Option) (*Cache[Key, Value], error) {
	set, err := makeSettings(opts...)
	if err != nil {
		return nil, err
	}
	cache := &Cache[Key, Value]{
		index:  make(map[handle[Key]]*node[Key, Value]),
		order:  new(node[Key, Value]),
		stale:  new(staleQueue[Key]),
		logger: set.logger.WithValues("policy", policy.String()),
		policy: policy,
	}
	switch policy {
	case Weak:
		if err := checkWeakKey[Key](); err != nil {
			return nil, err
		}
	case Capacity:
		if cache.evict, err = evictorFor[Key](set); err != nil {
			return nil, err
		}
	default:
		return nil, policyError(policy)
	}
	if set.registerer != nil {
		cache.metrics = newCacheMetrics(set.metricsPrefix, set.registerer)
	}
	if set.sweepInterval > 0 {
		var ctx context.Context
		ctx, cache.cancel = context.WithCancel(context.Background())
		cache.sweeper.Add(1)
		go cache.sweepLoop(ctx, set.sweepInterval)
	}
	return cache, nil
}

func checkWeakKey[Key any]() error {
	typ := reflect.TypeFor[Key]()
	if typ.Size() == 0 ||
		(typ.Size() < MinimumWeakKeySize && !hasPointers(typ)) {
		return weakKeyError(typ)
	}
	return nil
}

func hasPointers(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typ.Len() > 0 && hasPointers(typ.Elem())
	case reflect.Struct:
		for i := range typ.NumField() {
			if hasPointers(typ.Field(i).Type) {
				return true
			}
		}
		return false
	default: // Chan, Func, Interface, Map, Pointer, Slice, String, UnsafePointer.
		return true
	}
}

func evictorFor[Key any](set *settings) (EvictionPolicy[Key], error) {
	if set.evictor == nil {
		return LeastRecentlyUsed[Key](set.capacity), nil
	}
	evict, ok := set.evictor.(EvictionPolicy[Key])
	if !ok {
		return nil, fmt.Errorf(
			"%w: eviction policy %T does not accept keys of type %T",
			ErrInvalidPolicy, set.evictor, (*Key)(nil))
	}
	return evict, nil
}

// Policy returns the policy the cache was constructed with.
func (c *Cache[_, _]) Policy() Policy { return c.policy }

// Insert adds value for key, replacing any existing value.
//
// Under the [Weak] policy the cache does not keep key reachable;
// value must not reference key, or the entry can never be reclaimed.
// Under the [Capacity] policy the entry becomes the most recently used,
// and the [EvictionPolicy] may evict another entry.
func (c *Cache[Key, Value]) Insert(key *Key, value Value) error {
	if key == nil {
		return ErrNilKey
	}
	name := weak.Make(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expungeQueued()
	if entry, ok := c.index[name]; ok {
		entry.Value = value
		if c.policy == Capacity {
			entry.MoveToBack(c.order)
		}
		return nil
	}
	entry := &node[Key, Value]{
		Value:    value,
		Metadata: metadata[Key]{Handle: name},
	}
	switch c.policy {
	case Weak:
		entry.Cleanup = runtime.AddCleanup(key, c.stale.push, name)
		entry.Watched = true
	case Capacity:
		entry.Pinned = key
	}
	c.order.Prev().Link(entry)
	c.index[name] = entry
	recordItemIncrement(c.metrics)
	if c.policy == Capacity {
		c.applyEvictionPolicy()
	}
	if debugging {
		assert(c.order.Len() == len(c.index),
			"recency ring and index disagree")
	}
	return nil
}

// Lookup returns the value stored for key,
// or [ErrNotFound] if there is none.
// Under the [Capacity] policy a hit marks the entry as most recently used.
func (c *Cache[Key, Value]) Lookup(key *Key) (Value, error) {
	var zero Value
	if key == nil {
		recordEvent(c.metrics, EventTypeMiss)
		return zero, ErrNotFound
	}
	name := weak.Make(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expungeQueued()
	entry, ok := c.index[name]
	if !ok {
		recordEvent(c.metrics, EventTypeMiss)
		return zero, ErrNotFound
	}
	if c.policy == Capacity {
		entry.MoveToBack(c.order)
	}
	recordEvent(c.metrics, EventTypeHit)
	return entry.Value, nil
}

// Remove evicts the entry for key.
// Removing an absent key does nothing.
func (c *Cache[Key, _]) Remove(key *Key) {
	if key == nil {
		return
	}
	name := weak.Make(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.index[name]; ok {
		c.drop(entry, ReasonRemoved)
	}
}

// EvictStale removes every entry whose key has been reclaimed
// and returns how many were removed.
// Entries are normally swept during [Cache.Insert], [Cache.Lookup],
// and [Cache.Len] once the runtime reports their key as reclaimed;
// EvictStale additionally catches keys that were collected
// before that report arrived.
// A cache that is only read from a few keys can be swept
// periodically with [WithSweepInterval].
func (c *Cache[_, _]) EvictStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := c.expungeQueued()
	for entry := range c.order.Iter() {
		if !entry.Live() {
			c.drop(entry, ReasonReclaimed)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries,
// after sweeping any whose key was reported as reclaimed.
func (c *Cache[_, _]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expungeQueued()
	return len(c.index)
}

// Keys returns an iterator over the live keys,
// ordered from least to most recently used.
// The keys are collected when Keys is called.
func (c *Cache[Key, _]) Keys() iter.Seq[*Key] {
	c.mu.Lock()
	keys := make([]*Key, 0, len(c.index))
	for entry := range c.order.Iter() {
		if key := entry.Handle.Value(); key != nil {
			keys = append(keys, key)
		}
	}
	c.mu.Unlock()
	return func(yield func(*Key) bool) {
		for _, key := range keys {
			if !yield(key) {
				return
			}
		}
	}
}

// Close stops the sweeper started by [WithSweepInterval]
// and waits for it to return.
// The cache remains usable. Close is safe to call multiple times.
func (c *Cache[_, _]) Close() error {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}
	// Canceled outside the lock, the sweeper may be waiting on it.
	cancel()
	c.sweeper.Wait()
	return nil
}

func (c *Cache[_, _]) sweepLoop(ctx context.Context, interval time.Duration) {
	defer c.sweeper.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.EvictStale(); removed > 0 {
				c.logger.V(1).Info("swept stale entries", "removed", removed)
			}
		}
	}
}

// Purge removes every entry.
func (c *Cache[_, _]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for entry := range c.order.Iter() {
		c.drop(entry, ReasonRemoved)
	}
	recordItems(c.metrics, 0)
}

func (c *Cache[Key, _]) applyEvictionPolicy() {
	victim, evict := c.evict(c.pinnedKeys(), len(c.index))
	if !evict || victim == nil {
		return
	}
	if entry, ok := c.index[weak.Make(victim)]; ok {
		c.drop(entry, ReasonCapacity)
	}
}

func (c *Cache[Key, _]) pinnedKeys() iter.Seq[*Key] {
	return func(yield func(*Key) bool) {
		for entry := range c.order.Iter() {
			if !yield(entry.Pinned) {
				return
			}
		}
	}
}

// expungeQueued removes the entries of keys
// the runtime reported as reclaimed.
func (c *Cache[_, _]) expungeQueued() int {
	var removed int
	for _, name := range c.stale.drain() {
		if entry, ok := c.index[name]; ok {
			c.drop(entry, ReasonReclaimed)
			removed++
		}
	}
	return removed
}

// drop unlinks the entry from the index and ring,
// and clears its references.
func (c *Cache[Key, Value]) drop(entry *node[Key, Value], reason string) {
	delete(c.index, entry.Handle)
	entry.Release()
	recordEviction(c.metrics, reason)
	c.logger.V(1).Info("evicted entry",
		"reason", reason, "remaining", len(c.index))
}

func (q *staleQueue[Key]) push(name handle[Key]) {
	q.mu.Lock()
	q.handles = append(q.handles, name)
	q.mu.Unlock()
}

func (q *staleQueue[Key]) drain() []handle[Key] {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.handles) == 0 {
		return nil
	}
	handles := q.handles
	q.handles = nil
	return handles
}
