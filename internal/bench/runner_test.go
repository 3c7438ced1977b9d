package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/rollstat/internal/config"
)

func testConfig() config.BenchConfig {
	cfg := config.DefaultBenchConfig()
	cfg.Writers = 2
	cfg.Duration = config.Duration(200 * time.Millisecond)
	cfg.Window = config.Duration(time.Second)
	cfg.Chunks = 4
	cfg.SnapshotEvery = config.Duration(50 * time.Millisecond)
	return cfg
}

func TestRunner_Run(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	var points []Point
	result, err := NewRunner(cfg).Run(context.Background(), func(p Point) {
		points = append(points, p)
	})
	require.NoError(t, err)

	assert.Equal(t, cfg.Name, result.Name)
	assert.Equal(t, cfg.Writers, result.Writers)
	assert.Greater(t, result.TotalRecords, int64(0))
	assert.Greater(t, result.RecordsPerSec, 0.0)
	assert.Greater(t, result.Latency.Count, int64(0))
	assert.GreaterOrEqual(t, result.HitRatio, 0.0)
	assert.LessOrEqual(t, result.HitRatio, 1.0)
	assert.GreaterOrEqual(t, result.Elapsed, cfg.Duration.Std())

	// Samples within the histogram's configured range.
	assert.GreaterOrEqual(t, result.Latency.Min, time.Duration(cfg.ValueMin)*time.Microsecond)
	assert.LessOrEqual(t, result.Latency.Max, time.Duration(cfg.ValueMax)*time.Microsecond)

	assert.NotEmpty(t, result.Points)
	assert.Equal(t, result.Points, points)
}

func TestRunner_AllHits(t *testing.T) {
	cfg := testConfig()
	cfg.HitProbability = 1.0

	result, err := NewRunner(cfg).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.HitRatio)
}

func TestRunner_CancelledContext(t *testing.T) {
	cfg := testConfig()
	cfg.Duration = config.Duration(10 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result, err := NewRunner(cfg).Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunner_InvalidPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Chunks = 0 // rejected by the retention policy

	_, err := NewRunner(cfg).Run(context.Background(), nil)
	assert.Error(t, err)
}
