package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects validation errors across fields
type ValidationErrors struct {
	Errors []ValidationError
}

// Add appends a validation error
func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

// HasErrors reports whether any errors were collected
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Error returns all errors joined
func (ve *ValidationErrors) Error() string {
	if !ve.HasErrors() {
		return ""
	}
	msgs := make([]string, len(ve.Errors))
	for i, e := range ve.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("configuration validation failed: %s", strings.Join(msgs, "; "))
}

// Validate checks that the configuration describes a runnable bench.
func (c BenchConfig) Validate() error {
	errs := &ValidationErrors{}

	if c.Writers < 1 {
		errs.Add("writers", "must be at least 1")
	}
	if c.Writers > 1024 {
		errs.Add("writers", "cannot exceed 1024")
	}
	if c.Duration <= 0 {
		errs.Add("duration", "must be positive")
	}
	if c.Window <= 0 {
		errs.Add("window", "must be positive")
	}
	if c.Chunks < 1 {
		errs.Add("chunks", "must be at least 1")
	}
	if c.Chunks > 1000 {
		errs.Add("chunks", "cannot exceed 1000")
	}
	if c.Chunks > 0 && c.Window > 0 && c.Window.Std()%time.Duration(c.Chunks) != 0 {
		errs.Add("window", "must be evenly divisible by chunks")
	}
	if c.SnapshotEvery <= 0 {
		errs.Add("snapshotEvery", "must be positive")
	}
	if c.HitProbability < 0 || c.HitProbability > 1 {
		errs.Add("hitProbability", "must be between 0 and 1")
	}
	if c.ValueMin < 1 {
		errs.Add("valueMin", "must be at least 1")
	}
	if c.ValueMax < c.ValueMin {
		errs.Add("valueMax", "must be >= valueMin")
	}
	if c.SigFigs < 1 || c.SigFigs > 5 {
		errs.Add("sigFigs", "must be between 1 and 5")
	}
	if c.ExpectedInterval < 0 {
		errs.Add("expectedInterval", "cannot be negative")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
