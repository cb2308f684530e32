// Package lifecycle implements a [Cache] that releases entries
// it no longer needs, even though nothing forces it to.
//
// A garbage collector can only reclaim what is unreachable.
// An entry stored in a map stays reachable for as long as the map does,
// so a cache that is never told an entry is obsolete retains it forever.
// The [Cache] supports two ways of deciding that an entry is obsolete:
//
//   - [Weak]
//
//     An entry is meaningful only while something outside of the cache
//     still references its key. The cache indexes entries by a
//     [weak.Pointer] to the key, so the index never keeps a key reachable.
//     Once the key is reclaimed, the runtime reports it
//     (see [runtime.AddCleanup]) and the entry is swept by the next
//     [Cache.Insert], [Cache.Lookup], [Cache.Len], or [Cache.EvictStale].
//     [WithSweepInterval] also sweeps periodically.
//     There is no deadline for when reclamation happens.
//     Small pointer-free key types are rejected, see [New].
//
//   - [Capacity]
//
//     The cache holds at most a fixed number of entries.
//     After every insertion an [EvictionPolicy] is consulted with the keys
//     ordered from least to most recently used, and may name one victim.
//     The default, [LeastRecentlyUsed], evicts the eldest entry on overflow.
//     Both insertion and lookup count as use.
//
// Entry states:
//
//	Live ──(key unreachable)──> Collectible ──(sweep)──> Absent
//	Live ──(Remove, capacity eviction, Purge)──────────> Absent
//
// Absent is terminal. Inserting the same key again creates a new entry.
//
// Keys are compared by identity, so the key type is typically a handle
// such as a connection or session that callers pass around by pointer.
// Values stored under the [Weak] policy must not reference their key;
// if they do, the key remains reachable through the cache and is never reclaimed.
//
// Evicted entries have their value and key references cleared
// before they are unlinked, so a stale pointer to an internal node
// keeps nothing else alive.
package lifecycle
