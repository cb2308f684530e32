package lifecycle

import (
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

type (
	settings struct {
		capacity      int
		evictor       any
		logger        logr.Logger
		registerer    prometheus.Registerer
		metricsPrefix string
		sweepInterval time.Duration
	}
	// Option configures a [Cache] constructed by [New].
	Option func(*settings) error
)

// DefaultCapacity is the entry limit of a [Capacity] cache
// that was not given [WithCapacity].
const DefaultCapacity = 16

func makeSettings(opts ...Option) (*settings, error) {
	set := settings{
		capacity: DefaultCapacity,
		logger:   logr.Discard(),
	}
	for _, apply := range opts {
		if err := apply(&set); err != nil {
			return nil, err
		}
	}
	return &set, nil
}

// WithCapacity sets the maximum number of entries
// retained by a [Capacity] cache.
// It has no effect on [Weak] caches.
func WithCapacity(capacity int) Option {
	return func(s *settings) error {
		if capacity < MinimumCapacity {
			return minCapacityError(capacity)
		}
		s.capacity = capacity
		return nil
	}
}

// WithEvictionPolicy replaces the [LeastRecentlyUsed]
// hook of a [Capacity] cache.
// The Key type must match the one given to [New].
func WithEvictionPolicy[Key any](policy EvictionPolicy[Key]) Option {
	return func(s *settings) error {
		s.evictor = policy
		return nil
	}
}

// WithSweepInterval calls [Cache.EvictStale] every interval
// from a goroutine owned by the cache, stopped by [Cache.Close].
// A non-positive interval disables the sweep.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *settings) error {
		s.sweepInterval = interval
		return nil
	}
}

// WithLogger sets the logger that records evictions.
func WithLogger(logger logr.Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

// WithMetricsRegisterer sets the Prometheus registerer for the cache metrics.
func WithMetricsRegisterer(r prometheus.Registerer) Option {
	return func(s *settings) error {
		s.registerer = r
		return nil
	}
}

// WithMetricsPrefix sets the metrics prefix for the cache metrics.
func WithMetricsPrefix(prefix string) Option {
	return func(s *settings) error {
		s.metricsPrefix = prefix
		return nil
	}
}
