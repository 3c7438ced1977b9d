package hitratio

import "sync/atomic"

// UniformHitRatio accumulates hits and totals for its whole lifetime.
type UniformHitRatio struct {
	composite atomic.Int64
}

// NewUniform returns an empty UniformHitRatio.
func NewUniform() *UniformHitRatio {
	return &UniformHitRatio{}
}

func (r *UniformHitRatio) Update(hitCount, totalCount int) error {
	if err := validateCounts(hitCount, totalCount); err != nil {
		return err
	}
	addCounts(&r.composite, hitCount, totalCount)
	return nil
}

func (r *UniformHitRatio) Ratio() float64 {
	return ratioOf(r.composite.Load())
}
