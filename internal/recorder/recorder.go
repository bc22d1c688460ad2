// Package recorder keeps the append-only log of step results for a run.
package recorder

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"ritzprobe/internal/core"
	"ritzprobe/internal/style"
)

// Counts aggregates recorded results.
type Counts struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Recorder appends one StepResult per attempted step and prints one console
// line per result. It is not safe for concurrent use; runs are sequential.
type Recorder struct {
	out     io.Writer
	clock   core.Clock
	marker  style.Marker
	results []core.StepResult
	last    time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock sets the clock used for timestamps.
func WithClock(c core.Clock) Option {
	return func(r *Recorder) { r.clock = c }
}

// WithMarker sets the pass/fail marker style.
func WithMarker(m style.Marker) Option {
	return func(r *Recorder) { r.marker = m }
}

// New creates a Recorder writing console lines to out.
func New(out io.Writer, opts ...Option) *Recorder {
	r := &Recorder{
		out:    out,
		clock:  core.RealClock{},
		marker: style.New(false),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends a result for step with the current timestamp.
func (r *Recorder) Record(step string, success bool, message string, details any) core.StepResult {
	status := core.StatusPassed
	if !success {
		status = core.StatusFailed
	}
	return r.Append(core.StepResult{
		Step:    step,
		Success: success,
		Status:  status,
		Message: message,
		Details: details,
	})
}

// Append stores res, filling in the timestamp and a missing status, and
// prints it. Timestamps never go backwards across the log.
func (r *Recorder) Append(res core.StepResult) core.StepResult {
	if res.Status == "" || res.Status == core.StatusPending || res.Status == core.StatusRunning {
		res.Status = core.StatusPassed
		if !res.Success {
			res.Status = core.StatusFailed
		}
	}
	if res.Status == core.StatusErrored {
		res.Success = false
	}
	if res.Timestamp == "" {
		now := r.clock.Now()
		if now.Before(r.last) {
			now = r.last
		}
		r.last = now
		res.Timestamp = now.Format(core.TimestampLayout)
	}

	r.results = append(r.results, res)
	r.print(res)
	return res
}

func (r *Recorder) print(res core.StepResult) {
	if r.out == nil {
		return
	}
	fmt.Fprintf(r.out, "%s: %s%s%s\n", r.marker.Status(res.Success), res.Step, r.marker.Separator(), res.Message)
	if !res.Success && res.Details != nil {
		fmt.Fprintf(r.out, "    Details: %s\n", FormatDetails(res.Details))
	}
}

// Results returns a copy of the recorded results in execution order.
func (r *Recorder) Results() []core.StepResult {
	out := make([]core.StepResult, len(r.results))
	copy(out, r.results)
	return out
}

// Counts tallies the recorded results. Errored steps count as failed.
func (r *Recorder) Counts() Counts {
	return Count(r.results)
}

// Count tallies results.
func Count(results []core.StepResult) Counts {
	c := Counts{Total: len(results)}
	for _, res := range results {
		if res.Success {
			c.Passed++
		} else {
			c.Failed++
		}
	}
	return c
}

// FormatDetails renders a details value on one line.
func FormatDetails(details any) string {
	switch d := details.(type) {
	case nil:
		return ""
	case string:
		return d
	case error:
		return d.Error()
	case fmt.Stringer:
		return d.String()
	}
	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Sprintf("%v", details)
	}
	return string(data)
}
