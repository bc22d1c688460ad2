// Package core defines the step and result types shared by the probe harness.
package core

import "time"

// Status is the lifecycle state of a single step.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusErrored Status = "errored" // counted as failed in aggregates
)

// TimestampLayout is the ISO-8601 layout used for StepResult timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// StepResult is one recorded outcome. Results are append-only and kept in
// execution order.
type StepResult struct {
	Step       string `json:"step"`
	Success    bool   `json:"success"`
	Status     Status `json:"status"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Timestamp  string `json:"timestamp"`
	DurationMS int64  `json:"duration_ms"`
}

// Time parses the result timestamp.
func (r StepResult) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, r.Timestamp)
}

// Sink receives step results as they are produced.
type Sink interface {
	Append(StepResult) StepResult
}
