package hitratio

import (
	"sync"
	"time"

	"github.com/wesleyorama2/rollstat/clock"
)

// cachingHitRatio reuses a computed ratio for a fixed duration, trading
// freshness for cheaper reads when many consumers poll the same counter.
type cachingHitRatio struct {
	inner HitRatio
	clk   clock.Clock
	ttl   int64

	mu         sync.Mutex
	cached     float64
	computedAt int64
	valid      bool
}

func newCaching(inner HitRatio, ttl time.Duration, clk clock.Clock) *cachingHitRatio {
	return &cachingHitRatio{
		inner: inner,
		clk:   clk,
		ttl:   int64(ttl),
	}
}

func (c *cachingHitRatio) Update(hitCount, totalCount int) error {
	return c.inner.Update(hitCount, totalCount)
}

func (c *cachingHitRatio) Ratio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clk.Now().UnixNano()
	if c.valid && now-c.computedAt < c.ttl {
		return c.cached
	}
	c.cached = c.inner.Ratio()
	c.computedAt = now
	c.valid = true
	return c.cached
}
