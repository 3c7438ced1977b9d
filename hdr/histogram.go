// Package hdr adapts HDR histograms to the rolling package's aggregate
// contracts. Values are recorded with configurable range and precision;
// out-of-range samples are clamped rather than dropped.
package hdr

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/rollstat/rolling"
)

// Config bounds the recordable value range and precision.
type Config struct {
	// MinValue is the lowest trackable value (default: 1).
	MinValue int64
	// MaxValue is the highest trackable value
	// (default: 3600000000, one hour in microseconds).
	MaxValue int64
	// SigFigs is the number of significant figures (default: 3).
	SigFigs int
}

// DefaultConfig covers 1 microsecond to 1 hour at 3 significant
// figures, roughly 1% precision.
func DefaultConfig() Config {
	return Config{
		MinValue: 1,
		MaxValue: 3600000000,
		SigFigs:  3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinValue <= 0 {
		c.MinValue = d.MinValue
	}
	if c.MaxValue <= c.MinValue {
		c.MaxValue = d.MaxValue
	}
	if c.SigFigs < 1 || c.SigFigs > 5 {
		c.SigFigs = d.SigFigs
	}
	return c
}

// Histogram implements rolling.Aggregate over an HDR histogram.
type Histogram struct {
	h   *hdrhistogram.Histogram
	cfg Config
}

// NewHistogram returns an empty histogram aggregate.
func NewHistogram(cfg Config) *Histogram {
	cfg = cfg.withDefaults()
	return &Histogram{
		h:   hdrhistogram.New(cfg.MinValue, cfg.MaxValue, cfg.SigFigs),
		cfg: cfg,
	}
}

// Add merges other into the receiver. Other must be an *hdr.Histogram.
func (a *Histogram) Add(other rolling.Aggregate) {
	a.h.Merge(other.(*Histogram).h)
}

// Reset discards all recorded values in place.
func (a *Histogram) Reset() {
	a.h.Reset()
}

// Copy returns an independent histogram with the same contents.
func (a *Histogram) Copy() rolling.Aggregate {
	c := NewHistogram(a.cfg)
	c.h.Merge(a.h)
	return c
}

// EstimatedFootprintBytes reports the histogram's approximate size.
func (a *Histogram) EstimatedFootprintBytes() int {
	return a.h.ByteSize()
}

// TotalCount returns the number of recorded values.
func (a *Histogram) TotalCount() int64 { return a.h.TotalCount() }

// ValueAtQuantile returns the recorded value at quantile q (0-100).
func (a *Histogram) ValueAtQuantile(q float64) int64 { return a.h.ValueAtQuantile(q) }

// Min returns the minimum recorded value.
func (a *Histogram) Min() int64 { return a.h.Min() }

// Max returns the maximum recorded value.
func (a *Histogram) Max() int64 { return a.h.Max() }

// Mean returns the mean of recorded values.
func (a *Histogram) Mean() float64 { return a.h.Mean() }

// StdDev returns the standard deviation of recorded values.
func (a *Histogram) StdDev() float64 { return a.h.StdDev() }

// Unwrap exposes the underlying HDR histogram for percentile dumps and
// other read-only inspection.
func (a *Histogram) Unwrap() *hdrhistogram.Histogram { return a.h }

// IntervalRecorder implements rolling.Recorder: a mutex-protected write
// buffer drained in one step into an interval histogram. HDR histogram
// writes are not thread-safe on their own, so recording takes a short
// critical section, the same discipline the rest of this module uses
// for live histograms.
type IntervalRecorder struct {
	cfg Config

	mu     sync.Mutex
	active *hdrhistogram.Histogram
}

// NewIntervalRecorder returns an empty recorder.
func NewIntervalRecorder(cfg Config) *IntervalRecorder {
	cfg = cfg.withDefaults()
	return &IntervalRecorder{
		cfg:    cfg,
		active: hdrhistogram.New(cfg.MinValue, cfg.MaxValue, cfg.SigFigs),
	}
}

// RecordValue stores a single sample, clamped to the configured range.
// A positive expectedInterval enables coordinated-omission compensation:
// the histogram back-fills the samples a stalled caller failed to take.
func (r *IntervalRecorder) RecordValue(value, expectedInterval int64) {
	if value < r.cfg.MinValue {
		value = r.cfg.MinValue
	}
	if value > r.cfg.MaxValue {
		value = r.cfg.MaxValue
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if expectedInterval > 0 {
		_ = r.active.RecordCorrectedValue(value, expectedInterval)
	} else {
		_ = r.active.RecordValue(value)
	}
}

// IntervalAggregate moves everything recorded since the previous call
// into a histogram aggregate, reusing reuse as scratch when it is an
// *hdr.Histogram.
func (r *IntervalRecorder) IntervalAggregate(reuse rolling.Aggregate) rolling.Aggregate {
	out, ok := reuse.(*Histogram)
	if !ok || out == nil {
		out = NewHistogram(r.cfg)
	} else {
		out.h.Reset()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out.h.Merge(r.active)
	r.active.Reset()
	return out
}

// Factory returns a rolling.RecorderFactory producing recorders with
// the given configuration.
func Factory(cfg Config) rolling.RecorderFactory {
	return func() rolling.Recorder {
		return NewIntervalRecorder(cfg)
	}
}

// LatencyStats is a convenient percentile summary extracted from a
// histogram of microsecond latencies.
type LatencyStats struct {
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stdDev"`
	P50    time.Duration `json:"p50"`
	P90    time.Duration `json:"p90"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
	Count  int64         `json:"count"`
}

// Stats summarizes a histogram of microsecond values.
func Stats(a *Histogram) LatencyStats {
	return LatencyStats{
		Min:    time.Duration(a.Min()) * time.Microsecond,
		Max:    time.Duration(a.Max()) * time.Microsecond,
		Mean:   time.Duration(a.Mean()) * time.Microsecond,
		StdDev: time.Duration(a.StdDev()) * time.Microsecond,
		P50:    time.Duration(a.ValueAtQuantile(50)) * time.Microsecond,
		P90:    time.Duration(a.ValueAtQuantile(90)) * time.Microsecond,
		P95:    time.Duration(a.ValueAtQuantile(95)) * time.Microsecond,
		P99:    time.Duration(a.ValueAtQuantile(99)) * time.Microsecond,
		Count:  a.TotalCount(),
	}
}
