package hitratio

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/rollstat/clock"
	"github.com/wesleyorama2/rollstat/window"
)

// chunkResetInProgress marks a slot whose counter is being zeroed.
// now is never smaller than it, so readers skip the slot meanwhile.
const chunkResetInProgress = math.MinInt64

type ratioChunk struct {
	composite atomic.Int64
	expiresAt atomic.Int64
}

// RollingHitRatio keeps roughly the trailing rolling window of events in
// a fixed ring of packed counters, one per time slot. Writers update the
// slot owning the current instant, recycling it in place when its
// previous tenancy has expired; readers sum every slot that is still
// valid. All coordination is per-slot compare-and-swap, there are no
// locks on either path.
type RollingHitRatio struct {
	sched  window.Schedule
	chunks []ratioChunk
	clk    clock.Clock
}

// NewRolling builds a ratio counter covering approximately the trailing
// rollingWindow, aged out in rollingWindow/chunks steps. A nil clk
// selects the wall clock.
func NewRolling(rollingWindow time.Duration, chunks int, clk clock.Clock) (*RollingHitRatio, error) {
	if clk == nil {
		clk = clock.Wall()
	}
	interval := rollingWindow
	if chunks > 0 {
		interval = rollingWindow / time.Duration(chunks)
	}
	sched, err := window.NewSchedule(clk.Now(), interval, chunks)
	if err != nil {
		return nil, err
	}

	r := &RollingHitRatio{
		sched:  sched,
		chunks: make([]ratioChunk, chunks),
		clk:    clk,
	}
	for i := range r.chunks {
		r.chunks[i].expiresAt.Store(sched.InitialChunkExpiry(i))
	}
	return r, nil
}

func (r *RollingHitRatio) Update(hitCount, totalCount int) error {
	if err := validateCounts(hitCount, totalCount); err != nil {
		return err
	}

	now := r.clk.Now().UnixNano()
	j := r.sched.IntervalsSince(now)
	chunk := &r.chunks[r.sched.ChunkIndex(j)]
	expiry := r.sched.RecycledChunkExpiry(j)

	// Recycle the slot if interval j has not claimed it yet. Exactly one
	// writer wins the claim and zeroes the stale counter before the new
	// expiry becomes visible; the rest spin for those few instructions.
	for {
		current := chunk.expiresAt.Load()
		if current == expiry {
			break
		}
		if current == chunkResetInProgress {
			continue
		}
		if chunk.expiresAt.CompareAndSwap(current, chunkResetInProgress) {
			chunk.composite.Store(0)
			chunk.expiresAt.Store(expiry)
			break
		}
	}

	addCounts(&chunk.composite, hitCount, totalCount)
	return nil
}

func (r *RollingHitRatio) Ratio() float64 {
	now := r.clk.Now().UnixNano()

	var hit, total int64
	for i := range r.chunks {
		if now >= r.chunks[i].expiresAt.Load() {
			continue
		}
		composite := r.chunks[i].composite.Load()
		hit += hitPart(composite)
		total += totalPart(composite)
	}
	if total == 0 {
		return math.NaN()
	}
	return float64(hit) / float64(total)
}
