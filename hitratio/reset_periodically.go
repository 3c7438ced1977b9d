package hitratio

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/rollstat/clock"
)

// resetInProgress parks the deadline while one goroutine zeroes the
// counter, so the reset transition happens exactly once per boundary.
const resetInProgress = math.MaxInt64

// ResetPeriodicallyHitRatio zeroes its counters each time the reset
// interval elapses. The first Ratio call at or after a boundary returns
// NaN even though the counter is already zeroed: data collected before
// the boundary is stale and is never reported as valid.
type ResetPeriodicallyHitRatio struct {
	composite     atomic.Int64
	nextResetAt   atomic.Int64
	resetInterval int64
	clk           clock.Clock
}

// NewResetPeriodically builds a ratio counter that resets every
// resetInterval. A nil clk selects the wall clock.
func NewResetPeriodically(resetInterval time.Duration, clk clock.Clock) (*ResetPeriodicallyHitRatio, error) {
	if resetInterval <= 0 {
		return nil, fmt.Errorf("reset interval must be positive, got %v", resetInterval)
	}
	if clk == nil {
		clk = clock.Wall()
	}
	r := &ResetPeriodicallyHitRatio{
		resetInterval: int64(resetInterval),
		clk:           clk,
	}
	r.nextResetAt.Store(clk.Now().UnixNano() + r.resetInterval)
	return r, nil
}

func (r *ResetPeriodicallyHitRatio) Update(hitCount, totalCount int) error {
	if err := validateCounts(hitCount, totalCount); err != nil {
		return err
	}
	r.maybeReset(r.clk.Now().UnixNano())
	addCounts(&r.composite, hitCount, totalCount)
	return nil
}

func (r *ResetPeriodicallyHitRatio) Ratio() float64 {
	if r.maybeReset(r.clk.Now().UnixNano()) {
		return math.NaN()
	}
	return ratioOf(r.composite.Load())
}

// maybeReset performs the reset transition when the deadline has
// elapsed. It reports whether now is at or past the deadline, whichever
// goroutine ends up doing the zeroing.
func (r *ResetPeriodicallyHitRatio) maybeReset(now int64) bool {
	nextResetAt := r.nextResetAt.Load()
	if now < nextResetAt {
		return false
	}
	if r.nextResetAt.CompareAndSwap(nextResetAt, resetInProgress) {
		r.composite.Store(0)
		r.nextResetAt.Store(now + r.resetInterval)
	}
	return true
}
