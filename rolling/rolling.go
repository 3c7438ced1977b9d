package rolling

import (
	"fmt"

	"github.com/wesleyorama2/rollstat/retention"
)

// New builds an Accumulator for the given retention policy, wrapping it
// in a snapshot-caching decorator when the policy asks for one.
//
// KindResetPeriodically maps onto a single-chunk ring: the whole window
// is one chunk, so all data ages out at once on the policy's interval.
func New(p *retention.Policy, factory RecorderFactory) (Accumulator, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retention policy: %w", err)
	}

	var (
		acc Accumulator
		err error
	)
	switch p.Kind() {
	case retention.KindUniform:
		acc, err = NewUniform(factory)
	case retention.KindResetOnSnapshot:
		acc, err = NewResetOnSnapshot(factory)
	case retention.KindResetPeriodically:
		acc, err = NewChunked(factory, 1, p.ResetInterval(), true, p.Clock())
	case retention.KindResetPeriodicallyByChunks:
		acc, err = NewChunked(factory, p.Chunks(), p.ChunkInterval(), true, p.Clock())
	default:
		err = fmt.Errorf("unsupported retention kind %d", p.Kind())
	}
	if err != nil {
		return nil, err
	}

	if d := p.SnapshotCachingDuration(); d > 0 {
		acc = NewCaching(acc, d, p.Clock())
	}
	return acc, nil
}
