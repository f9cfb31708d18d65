package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/redec10/river-monitor/internal/domain"
	"github.com/redec10/river-monitor/internal/observability"
)

// Loader is the dataset snapshot source consumed by the cache decorator.
type Loader interface {
	Load(ctx context.Context) (domain.Dataset, error)
}

// CachedLoader wraps a Loader with a TTL snapshot cache so every render
// within the TTL reuses one immutable snapshot instead of re-fetching three
// tables. Errors are never cached: a failed fetch leaves the previous
// snapshot expired and the next render retries.
type CachedLoader struct {
	inner   Loader
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu        sync.Mutex
	snapshot  domain.Dataset
	fetchedAt time.Time
	valid     bool
}

// NewCachedLoader creates a cache decorator around a loader. A zero TTL
// disables caching entirely.
func NewCachedLoader(inner Loader, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedLoader {
	return &CachedLoader{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

// Load returns the cached snapshot when fresh, otherwise fetches a new one.
func (c *CachedLoader) Load(ctx context.Context) (domain.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.ttl > 0 && c.clock.Since(c.fetchedAt) < c.ttl {
		c.metrics.SnapshotCache.WithLabelValues("hit").Inc()
		return c.snapshot, nil
	}
	c.metrics.SnapshotCache.WithLabelValues("miss").Inc()

	ds, err := c.inner.Load(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}

	c.snapshot = ds
	c.fetchedAt = c.clock.Now()
	c.valid = true
	return ds, nil
}
