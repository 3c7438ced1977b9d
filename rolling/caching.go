package rolling

import (
	"sync"
	"time"

	"github.com/wesleyorama2/rollstat/clock"
)

// snapshotCachingAccumulator reuses a computed snapshot result for a
// fixed duration. Callers polling with equivalent extract functions get
// the cached result; the decorator does not distinguish extractors, so
// mixing different ones under one cached accumulator returns whichever
// ran last.
type snapshotCachingAccumulator struct {
	inner Accumulator
	clk   clock.Clock
	ttl   int64

	mu         sync.Mutex
	cached     any
	computedAt int64
	valid      bool
}

// NewCaching decorates inner so Snapshot results are reused for ttl.
// A nil clk selects the wall clock.
func NewCaching(inner Accumulator, ttl time.Duration, clk clock.Clock) Accumulator {
	if clk == nil {
		clk = clock.Wall()
	}
	return &snapshotCachingAccumulator{
		inner: inner,
		clk:   clk,
		ttl:   int64(ttl),
	}
}

func (a *snapshotCachingAccumulator) Record(value, expectedInterval int64) {
	a.inner.Record(value, expectedInterval)
}

func (a *snapshotCachingAccumulator) Snapshot(extract ExtractFunc) any {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clk.Now().UnixNano()
	if a.valid && now-a.computedAt < a.ttl {
		return a.cached
	}
	a.cached = a.inner.Snapshot(extract)
	a.computedAt = now
	a.valid = true
	return a.cached
}

func (a *snapshotCachingAccumulator) EstimatedFootprintBytes() int {
	return a.inner.EstimatedFootprintBytes()
}
