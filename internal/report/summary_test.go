package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ritzprobe/internal/core"
	"ritzprobe/internal/runner"
)

var defaultThresholds = Thresholds{Pass: 60, Excellent: 80}

func results(outcomes ...bool) []core.StepResult {
	out := make([]core.StepResult, len(outcomes))
	for i, ok := range outcomes {
		status := core.StatusPassed
		if !ok {
			status = core.StatusFailed
		}
		out[i] = core.StepResult{Step: "step", Success: ok, Status: status, DurationMS: int64(i + 1)}
	}
	return out
}

func TestSummarize_PartialFailure(t *testing.T) {
	s := Summarize(results(true, true, false, true, true, false, true, true), defaultThresholds)

	assert.Equal(t, 8, s.Total)
	assert.Equal(t, 6, s.Passed)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 75.0, s.SuccessRate)
	assert.Equal(t, VerdictMostlyWorking, s.Verdict)
	assert.True(t, s.ThresholdMet)
	assert.Len(t, s.Results, 8)

	strict := Summarize(results(true, true, false, true, true, false, true, true), Thresholds{Pass: 80, Excellent: 80})
	assert.False(t, strict.ThresholdMet)
	assert.Equal(t, VerdictMostlyWorking, strict.Verdict)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, Thresholds{Pass: 0, Excellent: 80})

	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.SuccessRate)
	assert.True(t, s.ThresholdMet)
	assert.Equal(t, Timing{}, s.Timing)

	assert.False(t, Summarize(nil, defaultThresholds).ThresholdMet)
}

func TestSummarize_CountsInvariant(t *testing.T) {
	for n := 0; n < 12; n++ {
		outcomes := make([]bool, n)
		for i := range outcomes {
			outcomes[i] = i%3 != 0
		}
		s := Summarize(results(outcomes...), defaultThresholds)
		assert.Equal(t, n, len(s.Results))
		assert.Equal(t, s.Total, s.Passed+s.Failed)
	}
}

func TestSummarize_ErroredCountsAsFailed(t *testing.T) {
	rs := []core.StepResult{
		{Step: "a", Success: true, Status: core.StatusPassed},
		{Step: "b", Success: false, Status: core.StatusErrored, Details: "StepError: x"},
	}
	s := Summarize(rs, defaultThresholds)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 50.0, s.SuccessRate)
	assert.Equal(t, VerdictCritical, s.Verdict)
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		passed, total int
		want          float64
	}{
		{0, 0, 0},
		{3, 3, 100},
		{2, 3, 66.7},
		{1, 3, 33.3},
		{6, 8, 75},
		{1, 7, 14.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuccessRate(tt.passed, tt.total), "%d/%d", tt.passed, tt.total)
	}
}

func TestVerdictFor(t *testing.T) {
	assert.Equal(t, VerdictExcellent, VerdictFor(100, 80))
	assert.Equal(t, VerdictExcellent, VerdictFor(80, 80))
	assert.Equal(t, VerdictMostlyWorking, VerdictFor(79.9, 80))
	assert.Equal(t, VerdictMostlyWorking, VerdictFor(60, 80))
	assert.Equal(t, VerdictCritical, VerdictFor(59.9, 80))
	assert.Equal(t, VerdictCritical, VerdictFor(0, 80))
	assert.Equal(t, VerdictExcellent, VerdictFor(95, 90))
	assert.Equal(t, VerdictMostlyWorking, VerdictFor(85, 90))
}

func TestMeetsThreshold(t *testing.T) {
	assert.True(t, MeetsThreshold(60, 60))
	assert.False(t, MeetsThreshold(59.9, 60))
	assert.True(t, MeetsThreshold(0, 0))
}

func TestSummarize_Timing(t *testing.T) {
	rs := []core.StepResult{{DurationMS: 40}, {DurationMS: 10}, {DurationMS: 20}, {DurationMS: 30}}
	s := Summarize(rs, defaultThresholds)

	assert.Equal(t, 10*time.Millisecond, s.Timing.Min)
	assert.Equal(t, 25*time.Millisecond, s.Timing.Avg)
	assert.Equal(t, 30*time.Millisecond, s.Timing.P95)
	assert.Equal(t, 40*time.Millisecond, s.Timing.Max)
}

func TestApplyRun(t *testing.T) {
	s := Summarize(results(false), defaultThresholds)
	s.ApplyRun(runner.Result{Attempted: 1, Skipped: 4, Aborted: true, AbortedBy: "Backend Health Check"})

	assert.True(t, s.Aborted)
	assert.Equal(t, "Backend Health Check", s.AbortedBy)
	assert.Equal(t, 4, s.Skipped)
}
