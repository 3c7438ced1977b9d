// Package retention describes how long collected statistics are kept
// before they are discarded or aged out.
//
// A Policy is a value object consumed by the constructors in the
// rolling and hitratio packages; it carries no behavior of its own.
package retention

import (
	"fmt"
	"time"

	"github.com/wesleyorama2/rollstat/clock"
)

// Kind selects the retention strategy.
type Kind int

const (
	// KindUniform keeps everything since construction.
	KindUniform Kind = iota
	// KindResetOnSnapshot discards data each time a snapshot is taken.
	KindResetOnSnapshot
	// KindResetPeriodically zeroes all data on a fixed schedule.
	KindResetPeriodically
	// KindResetPeriodicallyByChunks ages data out smoothly through a
	// ring of time chunks covering a rolling window.
	KindResetPeriodicallyByChunks
)

// MaxChunks bounds the ring size for chunked retention.
const MaxChunks = 1000

// Policy describes a retention strategy plus optional snapshot caching.
type Policy struct {
	kind    Kind
	reset   time.Duration // KindResetPeriodically
	window  time.Duration // KindResetPeriodicallyByChunks
	chunks  int
	caching time.Duration
	clk     clock.Clock
}

// NewUniform returns a policy that never discards data.
func NewUniform() *Policy {
	return &Policy{kind: KindUniform}
}

// NewResetOnSnapshot returns a policy that reports only the data
// recorded since the previous snapshot.
func NewResetOnSnapshot() *Policy {
	return &Policy{kind: KindResetOnSnapshot}
}

// NewResetPeriodically returns a policy that zeroes all data every
// interval.
func NewResetPeriodically(interval time.Duration) *Policy {
	return &Policy{kind: KindResetPeriodically, reset: interval}
}

// NewResetPeriodicallyByChunks returns a policy that retains roughly
// the trailing window of data, aged out in window/chunks steps.
func NewResetPeriodicallyByChunks(window time.Duration, chunks int) *Policy {
	return &Policy{kind: KindResetPeriodicallyByChunks, window: window, chunks: chunks}
}

// WithSnapshotCaching makes consumers reuse a computed snapshot for d.
func (p *Policy) WithSnapshotCaching(d time.Duration) *Policy {
	p.caching = d
	return p
}

// WithClock overrides the time source, primarily for tests.
func (p *Policy) WithClock(c clock.Clock) *Policy {
	p.clk = c
	return p
}

// Kind returns the retention strategy.
func (p *Policy) Kind() Kind { return p.kind }

// ResetInterval returns the period for KindResetPeriodically.
func (p *Policy) ResetInterval() time.Duration { return p.reset }

// Window returns the rolling window for KindResetPeriodicallyByChunks.
func (p *Policy) Window() time.Duration { return p.window }

// Chunks returns the ring size for KindResetPeriodicallyByChunks.
func (p *Policy) Chunks() int { return p.chunks }

// ChunkInterval returns the duration of one chunk slot.
func (p *Policy) ChunkInterval() time.Duration {
	if p.chunks < 1 {
		return 0
	}
	return p.window / time.Duration(p.chunks)
}

// SnapshotCachingDuration returns how long a computed snapshot may be
// reused; zero disables caching.
func (p *Policy) SnapshotCachingDuration() time.Duration { return p.caching }

// Clock returns the configured time source, defaulting to the wall clock.
func (p *Policy) Clock() clock.Clock {
	if p.clk == nil {
		return clock.Wall()
	}
	return p.clk
}

// Validate fails fast on inconsistent configuration.
func (p *Policy) Validate() error {
	if p.caching < 0 {
		return fmt.Errorf("snapshot caching duration must not be negative, got %v", p.caching)
	}
	switch p.kind {
	case KindUniform, KindResetOnSnapshot:
		return nil
	case KindResetPeriodically:
		if p.reset <= 0 {
			return fmt.Errorf("reset interval must be positive, got %v", p.reset)
		}
		return nil
	case KindResetPeriodicallyByChunks:
		if p.chunks < 1 {
			return fmt.Errorf("chunk count must be >= 1, got %d", p.chunks)
		}
		if p.chunks > MaxChunks {
			return fmt.Errorf("chunk count must be <= %d, got %d", MaxChunks, p.chunks)
		}
		if p.ChunkInterval() <= 0 {
			return fmt.Errorf("rolling window %v is too short for %d chunks", p.window, p.chunks)
		}
		return nil
	default:
		return fmt.Errorf("unknown retention kind %d", p.kind)
	}
}
