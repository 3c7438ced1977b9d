// Package clock provides an injectable time source.
//
// Production code uses the wall clock; tests inject a Mock so that
// window boundaries and reset deadlines can be crossed deterministically
// without sleeping.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Wall returns the system clock.
func Wall() Clock { return wallClock{} }

// Mock is a manually driven clock for deterministic tests.
//
// The zero value starts at the Unix epoch. Mock is safe for concurrent
// use: readers and the test goroutine advancing time may race freely.
type Mock struct {
	nanos atomic.Int64
}

// NewMock returns a Mock positioned at start.
func NewMock(start time.Time) *Mock {
	m := &Mock{}
	m.nanos.Store(start.UnixNano())
	return m
}

// Now returns the mock's current instant.
func (m *Mock) Now() time.Time {
	return time.Unix(0, m.nanos.Load())
}

// Set moves the clock to t. Moving backwards is allowed but the
// aggregation packages assume monotonic time.
func (m *Mock) Set(t time.Time) {
	m.nanos.Store(t.UnixNano())
}

// Advance moves the clock forward by d and returns the new instant.
func (m *Mock) Advance(d time.Duration) time.Time {
	return time.Unix(0, m.nanos.Add(int64(d)))
}
