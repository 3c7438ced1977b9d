package hdr

import (
	"testing"
	"time"

	"github.com/wesleyorama2/rollstat/retention"
	"github.com/wesleyorama2/rollstat/rolling"
)

func TestHistogram_RecordAndExtract(t *testing.T) {
	r := NewIntervalRecorder(DefaultConfig())

	for i := int64(1); i <= 100; i++ {
		r.RecordValue(i*1000, 0) // 1ms..100ms in µs
	}

	agg := r.IntervalAggregate(nil).(*Histogram)
	if got := agg.TotalCount(); got != 100 {
		t.Errorf("TotalCount() = %d, want 100", got)
	}

	// HDR binning at 3 significant figures keeps ~1% precision.
	p50 := agg.ValueAtQuantile(50)
	if p50 < 45000 || p50 > 55000 {
		t.Errorf("p50 = %d, want ~50000", p50)
	}
	p99 := agg.ValueAtQuantile(99)
	if p99 < 95000 || p99 > 105000 {
		t.Errorf("p99 = %d, want ~99000-100000", p99)
	}
}

func TestIntervalRecorder_DrainsOnExtract(t *testing.T) {
	r := NewIntervalRecorder(DefaultConfig())
	r.RecordValue(1000, 0)

	first := r.IntervalAggregate(nil).(*Histogram)
	if got := first.TotalCount(); got != 1 {
		t.Fatalf("first interval count = %d, want 1", got)
	}

	second := r.IntervalAggregate(nil).(*Histogram)
	if got := second.TotalCount(); got != 0 {
		t.Errorf("second interval count = %d, want 0 (recorder drained)", got)
	}
}

func TestIntervalRecorder_ReusesScratch(t *testing.T) {
	r := NewIntervalRecorder(DefaultConfig())
	r.RecordValue(1000, 0)

	scratch := NewHistogram(DefaultConfig())
	scratch.Unwrap().RecordValue(99)

	out := r.IntervalAggregate(scratch)
	if out.(*Histogram) != scratch {
		t.Error("IntervalAggregate did not reuse the provided scratch")
	}
	// Prior scratch contents are discarded, not merged.
	if got := scratch.TotalCount(); got != 1 {
		t.Errorf("reused scratch count = %d, want 1", got)
	}
}

func TestIntervalRecorder_ClampsOutOfRange(t *testing.T) {
	cfg := Config{MinValue: 10, MaxValue: 1000, SigFigs: 3}
	r := NewIntervalRecorder(cfg)

	r.RecordValue(1, 0)       // below range
	r.RecordValue(5000000, 0) // above range

	agg := r.IntervalAggregate(nil).(*Histogram)
	if got := agg.TotalCount(); got != 2 {
		t.Fatalf("TotalCount() = %d, want 2 (values clamped, not dropped)", got)
	}
	if got := agg.Min(); got < 10 {
		t.Errorf("Min() = %d, want >= 10", got)
	}
	if got := agg.Max(); got > 1000 {
		t.Errorf("Max() = %d, want <= 1000", got)
	}
}

func TestHistogram_AddResetCopy(t *testing.T) {
	a := NewHistogram(DefaultConfig())
	b := NewHistogram(DefaultConfig())
	a.Unwrap().RecordValue(100)
	b.Unwrap().RecordValue(200)

	a.Add(b)
	if got := a.TotalCount(); got != 2 {
		t.Errorf("count after Add = %d, want 2", got)
	}

	c := a.Copy().(*Histogram)
	a.Reset()
	if got := a.TotalCount(); got != 0 {
		t.Errorf("count after Reset = %d, want 0", got)
	}
	if got := c.TotalCount(); got != 2 {
		t.Errorf("copy count = %d, want 2 (independent of original)", got)
	}

	if a.EstimatedFootprintBytes() <= 0 {
		t.Error("EstimatedFootprintBytes() should be positive")
	}
}

func TestFactory_WorksWithChunkedAccumulator(t *testing.T) {
	acc, err := rolling.New(
		retention.NewResetPeriodicallyByChunks(time.Minute, 6),
		Factory(DefaultConfig()),
	)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 1000; i++ {
		acc.Record(int64(i+1)*100, 0)
	}

	stats := acc.Snapshot(func(agg rolling.Aggregate) any {
		return Stats(agg.(*Histogram))
	}).(LatencyStats)

	if stats.Count != 1000 {
		t.Errorf("Count = %d, want 1000", stats.Count)
	}
	if stats.P99 < stats.P50 {
		t.Errorf("P99 (%v) < P50 (%v)", stats.P99, stats.P50)
	}
	if stats.Max < stats.Min {
		t.Errorf("Max (%v) < Min (%v)", stats.Max, stats.Min)
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	want := DefaultConfig()
	if cfg != want {
		t.Errorf("withDefaults() = %+v, want %+v", cfg, want)
	}

	partial := Config{MinValue: 5, MaxValue: 2, SigFigs: 9}.withDefaults()
	if partial.MinValue != 5 {
		t.Errorf("MinValue = %d, want 5", partial.MinValue)
	}
	if partial.MaxValue != want.MaxValue {
		t.Errorf("MaxValue = %d, want default", partial.MaxValue)
	}
	if partial.SigFigs != want.SigFigs {
		t.Errorf("SigFigs = %d, want default", partial.SigFigs)
	}
}
