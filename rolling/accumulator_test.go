package rolling

import (
	"testing"
	"time"

	"github.com/wesleyorama2/rollstat/clock"
	"github.com/wesleyorama2/rollstat/retention"
)

func TestUniform_KeepsEverything(t *testing.T) {
	acc, err := NewUniform(testFactory)
	if err != nil {
		t.Fatal(err)
	}

	acc.Record(1, 0)
	acc.Record(2, 0)
	if got := acc.Snapshot(extractSum).(int64); got != 3 {
		t.Errorf("sum = %d, want 3", got)
	}

	acc.Record(4, 0)
	if got := acc.Snapshot(extractSum).(int64); got != 7 {
		t.Errorf("sum after more data = %d, want 7", got)
	}

	// Repeated snapshots with no new data are stable.
	if got := acc.Snapshot(extractSum).(int64); got != 7 {
		t.Errorf("repeated snapshot sum = %d, want 7", got)
	}

	if acc.EstimatedFootprintBytes() <= 0 {
		t.Error("EstimatedFootprintBytes() should be positive")
	}
}

func TestUniform_NilFactory(t *testing.T) {
	if _, err := NewUniform(nil); err == nil {
		t.Error("NewUniform(nil) should fail")
	}
	if _, err := NewResetOnSnapshot(nil); err == nil {
		t.Error("NewResetOnSnapshot(nil) should fail")
	}
}

func TestResetOnSnapshot_ReportsOnlySinceLastRead(t *testing.T) {
	acc, err := NewResetOnSnapshot(testFactory)
	if err != nil {
		t.Fatal(err)
	}

	acc.Record(5, 0)
	acc.Record(6, 0)
	if got := acc.Snapshot(extractSum).(int64); got != 11 {
		t.Errorf("first snapshot sum = %d, want 11", got)
	}
	if got := acc.Snapshot(extractSum).(int64); got != 0 {
		t.Errorf("drained snapshot sum = %d, want 0", got)
	}

	acc.Record(7, 0)
	if got := acc.Snapshot(extractSum).(int64); got != 7 {
		t.Errorf("sum after fresh data = %d, want 7", got)
	}
}

func TestCaching_ReusesSnapshotWithinTTL(t *testing.T) {
	mock := clock.NewMock(time.Unix(0, 0))
	inner, err := NewUniform(testFactory)
	if err != nil {
		t.Fatal(err)
	}
	acc := NewCaching(inner, 10*time.Second, mock)

	acc.Record(3, 0)
	if got := acc.Snapshot(extractSum).(int64); got != 3 {
		t.Fatalf("sum = %d, want 3", got)
	}

	acc.Record(4, 0)
	if got := acc.Snapshot(extractSum).(int64); got != 3 {
		t.Errorf("cached sum = %d, want 3", got)
	}

	mock.Advance(10 * time.Second)
	if got := acc.Snapshot(extractSum).(int64); got != 7 {
		t.Errorf("sum after TTL = %d, want 7", got)
	}
}

func TestNew_PolicyDispatch(t *testing.T) {
	mock := clock.NewMock(time.Unix(0, 0))

	if _, err := New(retention.NewResetPeriodically(0), testFactory); err == nil {
		t.Error("New with invalid policy should fail")
	}

	uniform, err := New(retention.NewUniform(), testFactory)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := uniform.(*UniformAccumulator); !ok {
		t.Errorf("uniform policy built %T", uniform)
	}

	drained, err := New(retention.NewResetOnSnapshot(), testFactory)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := drained.(*ResetOnSnapshotAccumulator); !ok {
		t.Errorf("reset-on-snapshot policy built %T", drained)
	}

	periodic, err := New(retention.NewResetPeriodically(time.Minute).WithClock(mock), testFactory)
	if err != nil {
		t.Fatal(err)
	}
	chunked, ok := periodic.(*ChunkedAccumulator)
	if !ok {
		t.Fatalf("periodic policy built %T", periodic)
	}
	if len(chunked.chunks) != 1 {
		t.Errorf("periodic policy ring size = %d, want 1", len(chunked.chunks))
	}

	ring, err := New(retention.NewResetPeriodicallyByChunks(time.Minute, 6).WithClock(mock), testFactory)
	if err != nil {
		t.Fatal(err)
	}
	chunked, ok = ring.(*ChunkedAccumulator)
	if !ok {
		t.Fatalf("chunked policy built %T", ring)
	}
	if len(chunked.chunks) != 6 {
		t.Errorf("chunked policy ring size = %d, want 6", len(chunked.chunks))
	}
	if chunked.sched.Interval != int64(10*time.Second) {
		t.Errorf("chunk interval = %d, want 10s", chunked.sched.Interval)
	}

	cached, err := New(retention.NewUniform().WithSnapshotCaching(time.Second).WithClock(mock), testFactory)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cached.(*snapshotCachingAccumulator); !ok {
		t.Errorf("caching policy built %T", cached)
	}
}
