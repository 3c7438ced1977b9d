package rolling

// Aggregate is a mergeable statistic container. Implementations may
// assume every Aggregate passed to Add originates from the same
// RecorderFactory as the receiver.
//
// Aggregates are not safe for concurrent use; the accumulators in this
// package coordinate all access to them.
type Aggregate interface {
	// Add merges other into the receiver.
	Add(other Aggregate)
	// Reset discards all accumulated data in place.
	Reset()
	// Copy returns an independent aggregate with the same contents
	// and configuration.
	Copy() Aggregate
	// EstimatedFootprintBytes reports the approximate memory held.
	EstimatedFootprintBytes() int
}

// Recorder is a live write target that absorbs raw values and is
// drained in one step into an interval aggregate. Implementations must
// be safe for concurrent RecordValue calls.
type Recorder interface {
	// RecordValue stores a single sample. A positive expectedInterval
	// (same unit as value) enables coordinated-omission compensation
	// when the implementation supports it.
	RecordValue(value, expectedInterval int64)
	// IntervalAggregate moves everything recorded since the previous
	// call into an aggregate, reusing reuse as scratch when non-nil.
	// The returned aggregate must not be mutated through RecordValue
	// afterwards; treat it as immutable until passed back as reuse.
	IntervalAggregate(reuse Aggregate) Aggregate
}

// RecorderFactory creates one independent Recorder per call.
type RecorderFactory func() Recorder

// ExtractFunc derives a caller-defined result from an assembled
// aggregate. The aggregate is scratch storage owned by the accumulator
// and is only valid for the duration of the call.
type ExtractFunc func(Aggregate) any

// Accumulator is the write/read contract shared by all retention modes.
type Accumulator interface {
	// Record stores a single sample. It never fails for valid numeric
	// input and never blocks on readers.
	Record(value, expectedInterval int64)
	// Snapshot assembles the currently retained data and applies
	// extract to it, returning the result.
	Snapshot(extract ExtractFunc) any
	// EstimatedFootprintBytes reports the approximate memory held,
	// proportional to the number of internal aggregates.
	EstimatedFootprintBytes() int
}
