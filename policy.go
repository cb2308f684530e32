package lifecycle

import (
	"fmt"
	"iter"
)

type (
	// Policy selects how a [Cache] decides that an entry
	// is no longer needed.
	Policy uint8

	// EvictionPolicy is consulted at the end of every [Cache.Insert]
	// made under the [Capacity] policy.
	// order yields the cached keys from least to most recently used,
	// and length is the number of entries (including the one just inserted).
	// It returns the key to evict, if any.
	EvictionPolicy[Key any] func(order iter.Seq[*Key], length int) (victim *Key, evict bool)
)

const (
	// Weak retains an entry only while its key is
	// reachable from outside of the cache.
	Weak Policy = iota + 1
	// Capacity retains at most a fixed number of entries,
	// evicting the least recently used on overflow.
	Capacity
)

func (p Policy) String() string {
	switch p {
	case Weak:
		return "weak"
	case Capacity:
		return "capacity"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// LeastRecentlyUsed returns an [EvictionPolicy] that evicts
// the least recently used key once length exceeds capacity.
func LeastRecentlyUsed[Key any](capacity int) EvictionPolicy[Key] {
	return func(order iter.Seq[*Key], length int) (*Key, bool) {
		if length <= capacity {
			return nil, false
		}
		for eldest := range order {
			return eldest, true
		}
		return nil, false
	}
}
