package rolling

import (
	"fmt"
	"sync"
)

// ResetOnSnapshotAccumulator reports only the values recorded since the
// previous snapshot; taking a snapshot drains the recorder.
type ResetOnSnapshotAccumulator struct {
	recorder Recorder

	mu       sync.Mutex
	interval Aggregate
}

// NewResetOnSnapshot builds an accumulator drained by every snapshot.
func NewResetOnSnapshot(factory RecorderFactory) (*ResetOnSnapshotAccumulator, error) {
	if factory == nil {
		return nil, fmt.Errorf("recorder factory must not be nil")
	}
	recorder := factory()
	return &ResetOnSnapshotAccumulator{
		recorder: recorder,
		interval: recorder.IntervalAggregate(nil),
	}, nil
}

func (a *ResetOnSnapshotAccumulator) Record(value, expectedInterval int64) {
	a.recorder.RecordValue(value, expectedInterval)
}

func (a *ResetOnSnapshotAccumulator) Snapshot(extract ExtractFunc) any {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.interval = a.recorder.IntervalAggregate(a.interval)
	return extract(a.interval)
}

func (a *ResetOnSnapshotAccumulator) EstimatedFootprintBytes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval.EstimatedFootprintBytes() * 3
}
