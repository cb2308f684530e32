package lifecycle

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// EventTypeHit is recorded when [Cache.Lookup] finds a live entry.
	EventTypeHit = "cache_hit"
	// EventTypeMiss is recorded when [Cache.Lookup] returns [ErrNotFound].
	EventTypeMiss = "cache_miss"

	// ReasonCapacity labels evictions chosen by the [EvictionPolicy].
	ReasonCapacity = "capacity"
	// ReasonReclaimed labels entries swept after their key was reclaimed.
	ReasonReclaimed = "reclaimed"
	// ReasonRemoved labels explicit removals.
	ReasonRemoved = "removed"
)

type cacheMetrics struct {
	events    *prometheus.CounterVec
	items     prometheus.Gauge
	evictions *prometheus.CounterVec
}

func newCacheMetrics(prefix string, reg prometheus.Registerer) *cacheMetrics {
	factory := promauto.With(reg)
	return &cacheMetrics{
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%scache_events_total", prefix),
				Help: "Total number of cache lookup events.",
			},
			[]string{"event_type"},
		),
		items: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: fmt.Sprintf("%scached_items", prefix),
				Help: "Total number of items in the cache.",
			},
		),
		evictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%scache_evictions_total", prefix),
				Help: "Total number of cache evictions partitioned by reason.",
			},
			[]string{"reason"},
		),
	}
}

func recordEvent(m *cacheMetrics, event string) {
	if m != nil {
		m.events.WithLabelValues(event).Inc()
	}
}

func recordEviction(m *cacheMetrics, reason string) {
	if m != nil {
		m.evictions.WithLabelValues(reason).Inc()
		m.items.Dec()
	}
}

func recordItemIncrement(m *cacheMetrics) {
	if m != nil {
		m.items.Inc()
	}
}

func recordItems(m *cacheMetrics, count int) {
	if m != nil {
		m.items.Set(float64(count))
	}
}
