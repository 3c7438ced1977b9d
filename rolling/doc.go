// Package rolling collects time-windowed value distributions under
// high-concurrency write load.
//
// The centerpiece is ChunkedAccumulator: a ring of fixed time chunks
// plus two alternating write phases. Writers record into the current
// phase without locks; when a phase's window closes, exactly one writer
// wins a compare-and-swap and folds the retiring phase into its chunk.
// The oldest chunk is recycled in place, so memory stays constant and
// data ages out smoothly instead of vanishing in stop-the-world resets.
//
// The accumulated statistic itself is opaque: anything implementing
// Aggregate and Recorder can be collected. The hdr package adapts
// HDR histograms to these contracts.
//
// # Basic Usage
//
//	factory := hdr.Factory(hdr.DefaultConfig())
//	acc, err := rolling.New(
//		retention.NewResetPeriodicallyByChunks(time.Minute, 6),
//		factory,
//	)
//	if err != nil {
//		// invalid configuration
//	}
//
//	// Writer goroutines, any number:
//	acc.Record(latencyMicros, 0)
//
//	// Reader:
//	p99 := acc.Snapshot(func(agg rolling.Aggregate) any {
//		return agg.(*hdr.Histogram).ValueAtQuantile(99)
//	})
//
// # Thread Safety
//
// Record may be called from any number of goroutines; the hot path is
// lock-free. Snapshot computations are serialized with each other and
// wait (bounded, sub-millisecond polls) for an in-flight rotation, never
// the other way around: writers are the critical path and never block
// on readers.
package rolling
