// Package report aggregates recorded step results into a run summary and
// prints it.
package report

import (
	"math"
	"sort"
	"time"

	"ritzprobe/internal/core"
	"ritzprobe/internal/recorder"
	"ritzprobe/internal/runner"
)

// Verdict is the tier a run falls into by success rate.
type Verdict string

const (
	VerdictExcellent     Verdict = "excellent"
	VerdictMostlyWorking Verdict = "mostly working"
	VerdictCritical      Verdict = "critical"
)

// MostlyWorkingAt is the lowest rate that is not critical.
const MostlyWorkingAt = 60.0

// Thresholds holds the percentages a summary is judged against.
type Thresholds struct {
	Pass      float64 `json:"pass"`
	Excellent float64 `json:"excellent"`
}

// Timing summarises step wall times.
type Timing struct {
	Min time.Duration
	Avg time.Duration
	P95 time.Duration
	Max time.Duration
}

// Summary is the aggregate of one run.
type Summary struct {
	Suite       string
	Total       int
	Passed      int
	Failed      int
	SuccessRate float64
	Verdict     Verdict
	Thresholds  Thresholds
	// ThresholdMet decides the exit code.
	ThresholdMet bool
	Aborted      bool
	AbortedBy    string
	Skipped      int
	Timing       Timing
	Results      []core.StepResult
}

// Summarize derives a Summary from results. Results are copied.
func Summarize(results []core.StepResult, th Thresholds) *Summary {
	counts := recorder.Count(results)
	s := &Summary{
		Total:      counts.Total,
		Passed:     counts.Passed,
		Failed:     counts.Failed,
		Thresholds: th,
		Results:    append([]core.StepResult(nil), results...),
	}
	s.SuccessRate = SuccessRate(s.Passed, s.Total)
	s.Verdict = VerdictFor(s.SuccessRate, th.Excellent)
	s.ThresholdMet = MeetsThreshold(s.SuccessRate, th.Pass)
	s.Timing = computeTiming(results)
	return s
}

// ApplyRun copies the abort state of a run into the summary.
func (s *Summary) ApplyRun(r runner.Result) {
	s.Aborted = r.Aborted
	s.AbortedBy = r.AbortedBy
	s.Skipped = r.Skipped
}

// SuccessRate returns passed/total as a percentage rounded to one decimal.
// An empty run has a rate of 0.
func SuccessRate(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(passed)/float64(total)*1000) / 10
}

// VerdictFor maps a rate to its tier.
func VerdictFor(rate, excellent float64) Verdict {
	switch {
	case rate >= excellent:
		return VerdictExcellent
	case rate >= MostlyWorkingAt:
		return VerdictMostlyWorking
	default:
		return VerdictCritical
	}
}

// MeetsThreshold reports whether rate is at or above the pass threshold.
func MeetsThreshold(rate, threshold float64) bool {
	return rate >= threshold
}

func computeTiming(results []core.StepResult) Timing {
	if len(results) == 0 {
		return Timing{}
	}
	sorted := make([]time.Duration, 0, len(results))
	var total time.Duration
	for _, r := range results {
		d := time.Duration(r.DurationMS) * time.Millisecond
		sorted = append(sorted, d)
		total += d
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return Timing{
		Min: sorted[0],
		Avg: total / time.Duration(len(sorted)),
		P95: percentile(sorted, 0.95),
		Max: sorted[len(sorted)-1],
	}
}

// percentile uses the nearest-rank method on a sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
