// Package config provides configuration parsing and validation for the
// rollstat bench harness.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so configs can say "30s" or "1m".
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.from(v)
}

// UnmarshalYAML accepts either a duration string or nanoseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.from(v)
}

func (d *Duration) from(v interface{}) error {
	switch val := v.(type) {
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		*d = Duration(parsed)
		return nil
	case float64:
		*d = Duration(time.Duration(val))
		return nil
	case int:
		*d = Duration(time.Duration(val))
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
}

// MarshalJSON renders the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// BenchConfig is the root configuration for a bench run.
//
// Example YAML:
//
//	name: "checkout latency soak"
//	writers: 8
//	duration: 30s
//	window: 1m
//	chunks: 6
//	snapshotEvery: 1s
//	hitProbability: 0.9
//	valueMin: 100
//	valueMax: 500000
//	sigFigs: 3
type BenchConfig struct {
	// Name of the run (for reporting)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Writers is the number of concurrent writer goroutines.
	Writers int `json:"writers,omitempty" yaml:"writers,omitempty"`

	// Duration is how long the run lasts.
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty"`

	// Window is the rolling retention window.
	Window Duration `json:"window,omitempty" yaml:"window,omitempty"`

	// Chunks is the ring size the window is divided into.
	Chunks int `json:"chunks,omitempty" yaml:"chunks,omitempty"`

	// SnapshotEvery is the interval between reader snapshots.
	SnapshotEvery Duration `json:"snapshotEvery,omitempty" yaml:"snapshotEvery,omitempty"`

	// HitProbability drives the synthetic hit ratio stream (0..1).
	HitProbability float64 `json:"hitProbability,omitempty" yaml:"hitProbability,omitempty"`

	// ValueMin and ValueMax bound the synthetic recorded values
	// (microseconds).
	ValueMin int64 `json:"valueMin,omitempty" yaml:"valueMin,omitempty"`
	ValueMax int64 `json:"valueMax,omitempty" yaml:"valueMax,omitempty"`

	// SigFigs is the histogram precision in significant figures (1-5).
	SigFigs int `json:"sigFigs,omitempty" yaml:"sigFigs,omitempty"`

	// ExpectedInterval enables coordinated-omission compensation when
	// positive (microseconds between samples).
	ExpectedInterval int64 `json:"expectedInterval,omitempty" yaml:"expectedInterval,omitempty"`
}

// DefaultBenchConfig returns the defaults applied over missing fields.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Name:           "rollstat bench",
		Writers:        4,
		Duration:       Duration(10 * time.Second),
		Window:         Duration(time.Minute),
		Chunks:         6,
		SnapshotEvery:  Duration(time.Second),
		HitProbability: 0.9,
		ValueMin:       100,
		ValueMax:       500000,
		SigFigs:        3,
	}
}

// withDefaults fills unset fields from DefaultBenchConfig.
func (c BenchConfig) withDefaults() BenchConfig {
	d := DefaultBenchConfig()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Writers == 0 {
		c.Writers = d.Writers
	}
	if c.Duration == 0 {
		c.Duration = d.Duration
	}
	if c.Window == 0 {
		c.Window = d.Window
	}
	if c.Chunks == 0 {
		c.Chunks = d.Chunks
	}
	if c.SnapshotEvery == 0 {
		c.SnapshotEvery = d.SnapshotEvery
	}
	if c.HitProbability == 0 {
		c.HitProbability = d.HitProbability
	}
	if c.ValueMin == 0 {
		c.ValueMin = d.ValueMin
	}
	if c.ValueMax == 0 {
		c.ValueMax = d.ValueMax
	}
	if c.SigFigs == 0 {
		c.SigFigs = d.SigFigs
	}
	return c
}
