// Package runner executes an ordered list of steps and records one result
// per attempted step.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ritzprobe/internal/core"
)

// Result describes how far a run got. The step results themselves live in
// the sink.
type Result struct {
	Attempted int
	Skipped   int
	// Aborted is set when a short-circuit step failed or ctx was cancelled.
	Aborted   bool
	AbortedBy string
}

// Runner executes steps sequentially. Later steps run even when earlier ones
// fail, unless the failed step is marked ShortCircuit.
type Runner struct {
	sink   core.Sink
	clock  core.Clock
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

func WithClock(c core.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func New(sink core.Sink, opts ...Option) *Runner {
	r := &Runner{
		sink:   sink,
		clock:  core.RealClock{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes steps in order. It never returns an error: failures, errors
// and panics inside steps become failed results.
func (r *Runner) Run(ctx context.Context, steps []core.Step) Result {
	var res Result
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			res.Aborted = true
			res.AbortedBy = "interrupted: " + err.Error()
			res.Skipped = len(steps) - i
			r.logger.Warn("run interrupted", "remaining", res.Skipped)
			return res
		}

		r.logger.Debug("step running", "step", step.Name, "index", i+1, "total", len(steps))
		recorded := r.sink.Append(r.execute(ctx, step))
		res.Attempted++
		r.logger.Debug("step finished", "step", step.Name, "status", recorded.Status)

		if !recorded.Success && step.ShortCircuit {
			res.Aborted = true
			res.AbortedBy = step.Name
			res.Skipped = len(steps) - i - 1
			r.logger.Warn("prerequisite failed, stopping run", "step", step.Name, "skipped", res.Skipped)
			return res
		}
	}
	return res
}

func (r *Runner) execute(ctx context.Context, step core.Step) (result core.StepResult) {
	start := r.clock.Now()
	result = core.StepResult{Step: step.Name, Status: core.StatusRunning}

	defer func() {
		result.DurationMS = r.clock.Since(start).Milliseconds()
		if p := recover(); p != nil {
			result.Success = false
			result.Status = core.StatusErrored
			result.Message = "step panicked"
			result.Details = fmt.Sprintf("panic: %v", p)
		}
	}()

	if step.Run == nil {
		result.Status = core.StatusErrored
		result.Message = "step has no function"
		return result
	}

	outcome, err := step.Run(ctx)
	if err != nil {
		result.Status = core.StatusErrored
		result.Message = outcome.Message
		if result.Message == "" {
			result.Message = "step raised an error"
		}
		result.Details = ErrorDetails(err)
		return result
	}

	result.Success = outcome.Passed
	result.Message = outcome.Message
	result.Details = outcome.Details
	if outcome.Passed {
		result.Status = core.StatusPassed
	} else {
		result.Status = core.StatusFailed
	}
	return result
}

type kinded interface {
	Kind() string
}

// ErrorDetails renders err as "<Kind>: <message>". Errors without a kind are
// reported as StepError.
func ErrorDetails(err error) string {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind() + ": " + err.Error()
	}
	return "StepError: " + err.Error()
}
