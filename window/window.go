// Package window holds the time-boundary arithmetic shared by the
// rolling accumulator and the rolling hit ratio.
//
// Both structures slice time into fixed intervals counted from a
// creation instant and recycle a fixed ring of buckets by interval
// index modulo the ring size. Keeping the arithmetic in one place
// guarantees the writer's rotation step and the reader's validity
// check agree on which slot a timestamp belongs to.
package window

import (
	"fmt"
	"time"
)

// Schedule describes a ring of chunks rotating on a fixed interval.
// All instants are unix nanoseconds.
type Schedule struct {
	CreatedAt int64 // creation instant
	Interval  int64 // duration of one chunk slot, > 0
	Chunks    int   // ring size, >= 1
}

// NewSchedule validates and builds a Schedule.
func NewSchedule(createdAt time.Time, interval time.Duration, chunks int) (Schedule, error) {
	if interval <= 0 {
		return Schedule{}, fmt.Errorf("interval must be positive, got %v", interval)
	}
	if chunks < 1 {
		return Schedule{}, fmt.Errorf("chunks must be >= 1, got %d", chunks)
	}
	return Schedule{
		CreatedAt: createdAt.UnixNano(),
		Interval:  int64(interval),
		Chunks:    chunks,
	}, nil
}

// IntervalsSince returns the number of whole intervals elapsed between
// creation and now.
func (s Schedule) IntervalsSince(now int64) int64 {
	return (now - s.CreatedAt) / s.Interval
}

// Boundary returns the instant that closes interval n, i.e. the start
// of interval n+1. Boundary(0) is CreatedAt + Interval.
func (s Schedule) Boundary(n int64) int64 {
	return s.CreatedAt + (n+1)*s.Interval
}

// ChunkIndex maps an interval number onto its ring slot.
func (s Schedule) ChunkIndex(n int64) int {
	return int(n % int64(s.Chunks))
}

// InitialChunkExpiry returns the first expiry for ring slot i, staggered
// so slots retire in sequence. The formula is the same one the rotation
// path uses when recycling slot i at interval j (j ≡ i mod Chunks):
// CreatedAt + (j+Chunks)·Interval, evaluated at j = i.
func (s Schedule) InitialChunkExpiry(i int) int64 {
	return s.CreatedAt + int64(i+s.Chunks)*s.Interval
}

// RecycledChunkExpiry returns the expiry assigned to the slot recycled
// at interval j. Strictly greater than any expiry previously assigned
// to that slot.
func (s Schedule) RecycledChunkExpiry(j int64) int64 {
	return s.CreatedAt + (j+int64(s.Chunks))*s.Interval
}
