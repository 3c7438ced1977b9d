package rolling

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/rollstat/clock"
	"github.com/wesleyorama2/rollstat/window"
)

// neverExpires marks a phase as inactive until a rotation reactivates it.
const neverExpires = math.MaxInt64

// Polling intervals for the two bounded waits on the snapshot path.
// Rotation work is one merge plus one reset, so both waits are short.
const (
	rotationPoll      = 500 * time.Microsecond
	postponedTaskPoll = 100 * time.Microsecond
)

// chunkedPhase is a live write target. Exactly two exist per
// accumulator; they alternate as current and are never deallocated,
// only drained and re-armed with a new expiry.
type chunkedPhase struct {
	recorder Recorder
	// interval is reusable scratch for draining the recorder; totals
	// absorbs drained intervals so that snapshots taken mid-window do
	// not lose data the rotation has yet to fold into a chunk.
	interval  Aggregate
	totals    Aggregate
	expiresAt atomic.Int64
}

// drainIntoTotals moves everything recorded so far into totals. Callers
// must hold either rotation ownership or the active-mutator slot.
func (p *chunkedPhase) drainIntoTotals() {
	p.interval = p.recorder.IntervalAggregate(p.interval)
	p.totals.Add(p.interval)
}

// ringChunk is a retired, time-bounded accumulation bucket. Chunks are
// allocated once and recycled in place by ring index.
type ringChunk struct {
	agg       Aggregate
	expiresAt atomic.Int64
}

type rotationTask struct {
	run func()
}

// ChunkedAccumulator retains roughly the trailing chunks×interval of
// recorded values. See the package documentation for the write/read
// protocol.
type ChunkedAccumulator struct {
	sched             window.Schedule
	reportUncompleted bool
	clk               clock.Clock

	phases  [2]chunkedPhase
	current atomic.Int32
	chunks  []ringChunk

	// activeMutators coordinates a rotating writer with the snapshot
	// reader: whoever increments it past 1 hands its work to the
	// party already inside.
	activeMutators atomic.Int32
	postponed      atomic.Pointer[rotationTask]

	snapshotMu sync.Mutex
	scratch    Aggregate
}

// NewChunked builds a chunked rolling accumulator with the given ring
// size and chunk interval. reportUncompleted controls whether the still
// accumulating current phase contributes to snapshots; production
// configurations keep it true. A nil clk selects the wall clock.
func NewChunked(factory RecorderFactory, chunks int, interval time.Duration, reportUncompleted bool, clk clock.Clock) (*ChunkedAccumulator, error) {
	if factory == nil {
		return nil, fmt.Errorf("recorder factory must not be nil")
	}
	if clk == nil {
		clk = clock.Wall()
	}
	sched, err := window.NewSchedule(clk.Now(), interval, chunks)
	if err != nil {
		return nil, err
	}

	a := &ChunkedAccumulator{
		sched:             sched,
		reportUncompleted: reportUncompleted,
		clk:               clk,
		chunks:            make([]ringChunk, chunks),
	}
	for i := range a.phases {
		recorder := factory()
		interval := recorder.IntervalAggregate(nil)
		totals := interval.Copy()
		a.phases[i] = chunkedPhase{
			recorder: recorder,
			interval: interval,
			totals:   totals,
		}
	}
	a.phases[0].expiresAt.Store(sched.Boundary(0))
	a.phases[1].expiresAt.Store(neverExpires)

	for i := range a.chunks {
		a.chunks[i].agg = a.phases[0].interval.Copy()
		a.chunks[i].expiresAt.Store(sched.InitialChunkExpiry(i))
	}
	a.scratch = a.phases[0].interval.Copy()
	return a, nil
}

// Record stores a single sample. When the current phase's window is
// still open this is the hot path: one atomic load and a recorder
// write, no coordination with readers at all.
func (a *ChunkedAccumulator) Record(value, expectedInterval int64) {
	now := a.clk.Now().UnixNano()
	cur := a.current.Load()
	phase := &a.phases[cur]
	if now < phase.expiresAt.Load() {
		phase.recorder.RecordValue(value, expectedInterval)
		return
	}

	next := 1 - cur
	if !a.current.CompareAndSwap(cur, next) {
		// Another writer won the rotation and will drain the retiring
		// phase; the alternate is already current, record and leave.
		a.phases[next].recorder.RecordValue(value, expectedInterval)
		return
	}

	// This writer owns the rotation.
	task := a.rotation(&a.phases[cur], &a.phases[next], now, func(p *chunkedPhase) {
		p.recorder.RecordValue(value, expectedInterval)
	})
	if a.activeMutators.Add(1) > 1 {
		// A snapshot reader is mid-read over the chunk and phase
		// state: publish the rotation for it to run instead of
		// mutating shared state underneath it.
		a.postponed.Store(&rotationTask{run: task})
	} else {
		task()
	}
}

// rotation builds the closure that retires a phase: drain it into its
// chunk, deactivate it, record the owning writer's value (when present)
// into the new current phase, recycle the chunk due at this boundary,
// and finally re-arm the new phase's expiry. The closure decrements
// activeMutators exactly once; it runs on the rotating writer's thread
// or, when postponed, on the snapshot reader's.
func (a *ChunkedAccumulator) rotation(retiring, next *chunkedPhase, now int64, recordInto func(*chunkedPhase)) func() {
	intervals := a.sched.IntervalsSince(now)
	return func() {
		defer func() {
			a.activeMutators.Add(-1)
			next.expiresAt.Store(a.sched.Boundary(intervals))
		}()
		a.postponed.Store(nil)

		// Fold the retiring phase into the chunk owning its window.
		phaseNumber := a.sched.IntervalsSince(retiring.expiresAt.Load())
		idx := a.sched.ChunkIndex(phaseNumber - 1)
		retiring.drainIntoTotals()
		a.chunks[idx].agg.Add(retiring.totals)
		retiring.totals.Reset()
		retiring.expiresAt.Store(neverExpires)

		if recordInto != nil {
			recordInto(next)
		}

		// Recycle the slot scheduled to expire at this boundary. Its
		// expiry strictly increases on every pass through the ring.
		recycle := a.sched.ChunkIndex(intervals)
		a.chunks[recycle].agg.Reset()
		a.chunks[recycle].expiresAt.Store(a.sched.RecycledChunkExpiry(intervals))
	}
}

// Snapshot assembles every non-expired chunk plus the current phase
// into scratch and applies extract to it. Snapshot computations are
// serialized; each waits for at most one in-flight rotation.
func (a *ChunkedAccumulator) Snapshot(extract ExtractFunc) any {
	a.snapshotMu.Lock()
	defer a.snapshotMu.Unlock()

	now := a.clk.Now().UnixNano()
	a.scratch.Reset()

	for !a.activeMutators.CompareAndSwap(0, 1) {
		// A writer-owned rotation is in flight; it is one merge and
		// one reset away from releasing the slot.
		time.Sleep(rotationPoll)
	}

	a.foldExpiredPhase(now)

	for i := range a.chunks {
		if now < a.chunks[i].expiresAt.Load() {
			a.scratch.Add(a.chunks[i].agg)
		}
	}
	if a.reportUncompleted {
		phase := &a.phases[a.current.Load()]
		if now < phase.expiresAt.Load() {
			phase.drainIntoTotals()
			a.scratch.Add(phase.totals)
		}
	}

	if a.activeMutators.Add(-1) > 0 {
		// A writer arrived while we held the slot and postponed its
		// rotation to us; rotations are never dropped, so run it here
		// once it is published.
		for {
			if task := a.postponed.Load(); task != nil {
				task.run()
				break
			}
			time.Sleep(postponedTaskPoll)
		}
	}

	return extract(a.scratch)
}

// foldExpiredPhase retires the current phase on the reader's thread
// when its window has closed and no writer has shown up to rotate it.
// Without this, values recorded in a now-quiet window would sit
// invisible in the expired phase until the next write. The caller must
// hold the active-mutator slot.
func (a *ChunkedAccumulator) foldExpiredPhase(now int64) {
	cur := a.current.Load()
	phase := &a.phases[cur]
	if now < phase.expiresAt.Load() {
		return
	}

	next := 1 - cur
	if !a.current.CompareAndSwap(cur, next) {
		// A writer claimed this rotation between our load and CAS; it
		// will postpone the work to us since we hold the mutator slot.
		return
	}

	// We own the rotation and already hold the mutator slot. The
	// rotation body decrements activeMutators when done; balance it.
	a.activeMutators.Add(1)
	a.rotation(phase, &a.phases[next], now, nil)()
}

// EstimatedFootprintBytes reports memory proportional to the ring size:
// one aggregate per chunk, interval and totals scratch per phase, and
// the snapshot scratch aggregate.
func (a *ChunkedAccumulator) EstimatedFootprintBytes() int {
	return a.scratch.EstimatedFootprintBytes() * (len(a.chunks) + 2*2 + 1)
}
