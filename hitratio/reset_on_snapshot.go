package hitratio

import "sync/atomic"

// ResetOnSnapshotHitRatio reports the ratio of events observed since
// the previous call to Ratio, zeroing itself on every read.
type ResetOnSnapshotHitRatio struct {
	composite atomic.Int64
}

// NewResetOnSnapshot returns an empty ResetOnSnapshotHitRatio.
func NewResetOnSnapshot() *ResetOnSnapshotHitRatio {
	return &ResetOnSnapshotHitRatio{}
}

func (r *ResetOnSnapshotHitRatio) Update(hitCount, totalCount int) error {
	if err := validateCounts(hitCount, totalCount); err != nil {
		return err
	}
	addCounts(&r.composite, hitCount, totalCount)
	return nil
}

// Ratio atomically drains the counter, so concurrent readers never
// observe the same events twice.
func (r *ResetOnSnapshotHitRatio) Ratio() float64 {
	return ratioOf(r.composite.Swap(0))
}
