package rolling

import (
	"fmt"
	"sync"
)

// UniformAccumulator keeps every value recorded since construction.
type UniformAccumulator struct {
	recorder Recorder

	mu       sync.Mutex
	interval Aggregate
	totals   Aggregate
}

// NewUniform builds an accumulator that never discards data.
func NewUniform(factory RecorderFactory) (*UniformAccumulator, error) {
	if factory == nil {
		return nil, fmt.Errorf("recorder factory must not be nil")
	}
	recorder := factory()
	interval := recorder.IntervalAggregate(nil)
	return &UniformAccumulator{
		recorder: recorder,
		interval: interval,
		totals:   interval.Copy(),
	}, nil
}

func (a *UniformAccumulator) Record(value, expectedInterval int64) {
	a.recorder.RecordValue(value, expectedInterval)
}

func (a *UniformAccumulator) Snapshot(extract ExtractFunc) any {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.interval = a.recorder.IntervalAggregate(a.interval)
	a.totals.Add(a.interval)
	return extract(a.totals)
}

func (a *UniformAccumulator) EstimatedFootprintBytes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals.EstimatedFootprintBytes() * 3
}
