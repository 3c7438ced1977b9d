// Package hitratio tracks hit/total ratios under concurrent update load.
//
// All implementations share one representation: the hit count and the
// total count are packed into a single 64-bit word (hits in the high 32
// bits, total in the low 32 bits) so that both counters advance together
// in one compare-and-swap. When the total would overflow the 32-bit
// positive range, both counters are halved, preserving the ratio within
// rounding.
//
// # Choosing an implementation
//
//	r := hitratio.NewUniform()                               // never resets
//	r := hitratio.NewResetOnSnapshot()                       // resets on every read
//	r, _ := hitratio.NewResetPeriodically(time.Minute, nil)  // zeroed on a schedule
//	r, _ := hitratio.NewRolling(time.Minute, 6, nil)         // trailing-window ring
//
// or build from a retention policy:
//
//	r, err := hitratio.New(retention.NewResetPeriodicallyByChunks(time.Minute, 6))
//
// Ratio reports NaN until the first update arrives, and again right
// after a reset; stale data is never reported as valid.
package hitratio

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/wesleyorama2/rollstat/retention"
)

// HitRatio is the write/read contract shared by all implementations.
type HitRatio interface {
	// Update adds totalCount observed events, hitCount of which were
	// hits. It fails when the arguments are inconsistent and leaves
	// the state unchanged in that case.
	Update(hitCount, totalCount int) error

	// Ratio returns the accumulated hits/total, or NaN when no data
	// has been collected.
	Ratio() float64
}

// New builds a HitRatio for the given retention policy, wrapping it in
// a snapshot-caching decorator when the policy asks for one.
func New(p *retention.Policy) (HitRatio, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retention policy: %w", err)
	}

	var (
		ratio HitRatio
		err   error
	)
	switch p.Kind() {
	case retention.KindUniform:
		ratio = NewUniform()
	case retention.KindResetOnSnapshot:
		ratio = NewResetOnSnapshot()
	case retention.KindResetPeriodically:
		ratio, err = NewResetPeriodically(p.ResetInterval(), p.Clock())
	case retention.KindResetPeriodicallyByChunks:
		ratio, err = NewRolling(p.Window(), p.Chunks(), p.Clock())
	default:
		err = fmt.Errorf("unsupported retention kind %d", p.Kind())
	}
	if err != nil {
		return nil, err
	}

	if d := p.SnapshotCachingDuration(); d > 0 {
		ratio = newCaching(ratio, d, p.Clock())
	}
	return ratio, nil
}

// maxCount is the largest value either packed counter may hold.
const maxCount = math.MaxInt32

func compose(hit, total int64) int64 {
	return hit<<32 | total
}

func hitPart(composite int64) int64 {
	return composite >> 32
}

func totalPart(composite int64) int64 {
	return composite & 0xFFFFFFFF
}

func ratioOf(composite int64) float64 {
	total := totalPart(composite)
	if total == 0 {
		return math.NaN()
	}
	return float64(hitPart(composite)) / float64(total)
}

func validateCounts(hitCount, totalCount int) error {
	if totalCount < 1 {
		return fmt.Errorf("totalCount must be >= 1, got %d", totalCount)
	}
	if hitCount < 0 {
		return fmt.Errorf("hitCount must be >= 0, got %d", hitCount)
	}
	if hitCount > totalCount {
		return fmt.Errorf("hitCount %d must be <= totalCount %d", hitCount, totalCount)
	}
	if totalCount > maxCount {
		return fmt.Errorf("totalCount must be <= %d, got %d", maxCount, totalCount)
	}
	return nil
}

// addCounts folds the increment into the packed word, halving both
// counters when the total would leave the 32-bit positive range. The
// CAS loop retries until uncontended; contention windows are a handful
// of instructions, so the loop is effectively bounded.
func addCounts(composite *atomic.Int64, hitCount, totalCount int) {
	for {
		old := composite.Load()
		hit := hitPart(old) + int64(hitCount)
		total := totalPart(old) + int64(totalCount)
		if total > maxCount {
			hit /= 2
			total /= 2
		}
		if composite.CompareAndSwap(old, compose(hit, total)) {
			return
		}
	}
}
