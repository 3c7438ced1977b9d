// Package bench drives synthetic load through a rolling accumulator and
// hit ratio counter, sampling snapshots while writers record.
package bench

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/rollstat/hdr"
	"github.com/wesleyorama2/rollstat/hitratio"
	"github.com/wesleyorama2/rollstat/internal/config"
	"github.com/wesleyorama2/rollstat/retention"
	"github.com/wesleyorama2/rollstat/rolling"
)

// Point is one reader snapshot taken during the run.
type Point struct {
	Elapsed  time.Duration    `json:"elapsed"`
	Latency  hdr.LatencyStats `json:"latency"`
	HitRatio float64          `json:"hitRatio"`
}

// Result summarizes a completed run.
type Result struct {
	Name          string           `json:"name"`
	StartedAt     time.Time        `json:"startedAt"`
	Elapsed       time.Duration    `json:"elapsed"`
	Writers       int              `json:"writers"`
	TotalRecords  int64            `json:"totalRecords"`
	RecordsPerSec float64          `json:"recordsPerSec"`
	Latency       hdr.LatencyStats `json:"latency"`
	HitRatio      float64          `json:"hitRatio"`
	Points        []Point          `json:"points,omitempty"`
}

// Runner executes a configured bench run.
type Runner struct {
	cfg config.BenchConfig
}

// NewRunner returns a runner for the given configuration. The
// configuration must already be validated.
func NewRunner(cfg config.BenchConfig) *Runner {
	return &Runner{cfg: cfg}
}

// Run executes the bench until the configured duration elapses or ctx is
// cancelled. Each snapshot taken along the way is reported through
// onPoint when it is non-nil.
func (r *Runner) Run(ctx context.Context, onPoint func(Point)) (*Result, error) {
	policy := retention.NewResetPeriodicallyByChunks(r.cfg.Window.Std(), r.cfg.Chunks)

	acc, err := rolling.New(policy, hdr.Factory(hdr.Config{
		MinValue: r.cfg.ValueMin,
		MaxValue: r.cfg.ValueMax,
		SigFigs:  r.cfg.SigFigs,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to build accumulator: %w", err)
	}

	ratio, err := hitratio.New(policy)
	if err != nil {
		return nil, fmt.Errorf("failed to build hit ratio: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Duration.Std())
	defer cancel()

	var totalRecords atomic.Int64
	started := time.Now()

	var writerWg sync.WaitGroup
	for w := 0; w < r.cfg.Writers; w++ {
		writerWg.Add(1)
		go func(seed int64) {
			defer writerWg.Done()
			r.writeLoop(runCtx, rand.New(rand.NewSource(seed)), acc, ratio, &totalRecords)
		}(started.UnixNano() + int64(w))
	}

	result := &Result{
		Name:      r.cfg.Name,
		StartedAt: started,
		Writers:   r.cfg.Writers,
	}

	ticker := time.NewTicker(r.cfg.SnapshotEvery.Std())
	defer ticker.Stop()

sampling:
	for {
		select {
		case <-runCtx.Done():
			break sampling
		case <-ticker.C:
			point := Point{
				Elapsed:  time.Since(started),
				Latency:  snapshotStats(acc),
				HitRatio: ratio.Ratio(),
			}
			result.Points = append(result.Points, point)
			if onPoint != nil {
				onPoint(point)
			}
		}
	}

	writerWg.Wait()

	result.Elapsed = time.Since(started)
	result.TotalRecords = totalRecords.Load()
	result.Latency = snapshotStats(acc)
	result.HitRatio = ratio.Ratio()
	if secs := result.Elapsed.Seconds(); secs > 0 {
		result.RecordsPerSec = float64(result.TotalRecords) / secs
	}

	if err := ctx.Err(); err != nil && err != context.DeadlineExceeded {
		return result, err
	}
	return result, nil
}

// writeLoop records synthetic latency samples and hit/miss outcomes
// until the run context is cancelled.
func (r *Runner) writeLoop(
	ctx context.Context,
	rng *rand.Rand,
	acc rolling.Accumulator,
	ratio hitratio.HitRatio,
	totalRecords *atomic.Int64,
) {
	span := r.cfg.ValueMax - r.cfg.ValueMin + 1
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		acc.Record(r.cfg.ValueMin+rng.Int63n(span), r.cfg.ExpectedInterval)

		hits := 0
		if rng.Float64() < r.cfg.HitProbability {
			hits = 1
		}
		_ = ratio.Update(hits, 1)

		totalRecords.Add(1)
	}
}

func snapshotStats(acc rolling.Accumulator) hdr.LatencyStats {
	return acc.Snapshot(func(agg rolling.Aggregate) any {
		return hdr.Stats(agg.(*hdr.Histogram))
	}).(hdr.LatencyStats)
}
