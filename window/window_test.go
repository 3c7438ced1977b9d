package window

import (
	"testing"
	"time"
)

func TestNewSchedule_Validation(t *testing.T) {
	t0 := time.Unix(0, 0)

	if _, err := NewSchedule(t0, 0, 3); err == nil {
		t.Error("NewSchedule with zero interval should fail")
	}
	if _, err := NewSchedule(t0, -time.Second, 3); err == nil {
		t.Error("NewSchedule with negative interval should fail")
	}
	if _, err := NewSchedule(t0, time.Second, 0); err == nil {
		t.Error("NewSchedule with zero chunks should fail")
	}
	if _, err := NewSchedule(t0, time.Second, 1); err != nil {
		t.Errorf("NewSchedule(1s, 1 chunk) failed: %v", err)
	}
}

func TestSchedule_IntervalsSince(t *testing.T) {
	s, err := NewSchedule(time.Unix(0, 100), 10, 3)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		now  int64
		want int64
	}{
		{100, 0},
		{109, 0},
		{110, 1},
		{129, 2},
		{130, 3},
		{160, 6},
	}
	for _, c := range cases {
		if got := s.IntervalsSince(c.now); got != c.want {
			t.Errorf("IntervalsSince(%d) = %d, want %d", c.now, got, c.want)
		}
	}
}

func TestSchedule_ChunkIndexAgreesWithRecycling(t *testing.T) {
	s, err := NewSchedule(time.Unix(0, 0), 10, 3)
	if err != nil {
		t.Fatal(err)
	}

	// The slot recycled at interval j must be the slot that receives
	// interval-j data at the next rotation (phase expiring at Boundary(j)
	// maps to interval j+1, whose preceding interval is j).
	for j := int64(0); j < 12; j++ {
		recycled := s.ChunkIndex(j)
		phaseNumber := s.IntervalsSince(s.Boundary(j))
		receiving := s.ChunkIndex(phaseNumber - 1)
		if recycled != receiving {
			t.Errorf("interval %d: recycled slot %d, receiving slot %d", j, recycled, receiving)
		}
	}
}

func TestSchedule_ExpiryMonotone(t *testing.T) {
	s, err := NewSchedule(time.Unix(0, 0), 10, 4)
	if err != nil {
		t.Fatal(err)
	}

	// Initial expiry for slot i equals the recycled expiry at j = i, and
	// every later recycle of the same slot strictly increases it.
	for i := 0; i < s.Chunks; i++ {
		if got, want := s.InitialChunkExpiry(i), s.RecycledChunkExpiry(int64(i)); got != want {
			t.Errorf("slot %d: initial expiry %d, recycled-at-%d expiry %d", i, got, i, want)
		}
		prev := s.InitialChunkExpiry(i)
		for j := int64(i) + int64(s.Chunks); j < 40; j += int64(s.Chunks) {
			next := s.RecycledChunkExpiry(j)
			if next <= prev {
				t.Errorf("slot %d: expiry not strictly increasing at interval %d (%d -> %d)", i, j, prev, next)
			}
			prev = next
		}
	}
}
