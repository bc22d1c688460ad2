package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"ritzprobe/internal/core"
	"ritzprobe/internal/recorder"
	"ritzprobe/internal/style"
)

const ruleWidth = 60

var verdictLabels = map[Verdict]string{
	VerdictExcellent:     "EXCELLENT - backend is working well",
	VerdictMostlyWorking: "MOSTLY WORKING - some features need attention",
	VerdictCritical:      "CRITICAL - major functionality is broken",
}

// FormatText writes the human-readable summary. It always prints, even for
// an empty or aborted run.
func FormatText(w io.Writer, s *Summary, m style.Marker) {
	title := "RitZone Probe Summary"
	if s.Suite != "" {
		title += " (suite: " + s.Suite + ")"
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, m.Rule(ruleWidth))
	fmt.Fprintln(w, m.Heading(title))
	fmt.Fprintln(w, m.Rule(ruleWidth))
	fmt.Fprintf(w, "Total Tests:   %d\n", s.Total)
	fmt.Fprintf(w, "Passed:        %d\n", s.Passed)
	fmt.Fprintf(w, "Failed:        %d\n", s.Failed)
	fmt.Fprintf(w, "Success Rate:  %.1f%%\n", s.SuccessRate)

	met := "met"
	if !s.ThresholdMet {
		met = "not met"
	}
	fmt.Fprintf(w, "Pass Bar:      %.1f%% (%s)\n", s.Thresholds.Pass, met)
	fmt.Fprintf(w, "Verdict:       %s\n", m.Tier(verdictLabels[s.Verdict], tierLevel(s.Verdict)))
	if s.Total > 0 {
		fmt.Fprintf(w, "Step Times:    min=%s avg=%s p95=%s max=%s\n",
			FormatDuration(s.Timing.Min), FormatDuration(s.Timing.Avg),
			FormatDuration(s.Timing.P95), FormatDuration(s.Timing.Max))
	}
	if s.Aborted {
		fmt.Fprintf(w, "Aborted:       %q failed, %d step(s) skipped\n", s.AbortedBy, s.Skipped)
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Results:")
	if len(s.Results) == 0 {
		fmt.Fprintln(w, "  (no steps recorded)")
	}
	for _, r := range s.Results {
		name := r.Step
		if r.Status == core.StatusErrored {
			name += " (errored)"
		}
		fmt.Fprintf(w, "  %s  %s\n", m.Status(r.Success), name)
		if !r.Success && r.Details != nil {
			fmt.Fprintf(w, "      Details: %s\n", recorder.FormatDetails(r.Details))
		}
	}
	fmt.Fprintln(w, m.Rule(ruleWidth))
}

func tierLevel(v Verdict) int {
	switch v {
	case VerdictExcellent:
		return 0
	case VerdictMostlyWorking:
		return 1
	default:
		return 2
	}
}

type jsonTiming struct {
	Min string `json:"min"`
	Avg string `json:"avg"`
	P95 string `json:"p95"`
	Max string `json:"max"`
}

type jsonSummary struct {
	Suite        string            `json:"suite,omitempty"`
	Total        int               `json:"total"`
	Passed       int               `json:"passed"`
	Failed       int               `json:"failed"`
	SuccessRate  float64           `json:"success_rate"`
	Verdict      Verdict           `json:"verdict"`
	Thresholds   Thresholds        `json:"thresholds"`
	ThresholdMet bool              `json:"threshold_met"`
	Aborted      bool              `json:"aborted,omitempty"`
	AbortedBy    string            `json:"aborted_by,omitempty"`
	Skipped      int               `json:"skipped,omitempty"`
	Timing       jsonTiming        `json:"timing"`
	Results      []core.StepResult `json:"results"`
}

// FormatJSON writes the summary as indented JSON.
func FormatJSON(w io.Writer, s *Summary) error {
	out := jsonSummary{
		Suite:        s.Suite,
		Total:        s.Total,
		Passed:       s.Passed,
		Failed:       s.Failed,
		SuccessRate:  s.SuccessRate,
		Verdict:      s.Verdict,
		Thresholds:   s.Thresholds,
		ThresholdMet: s.ThresholdMet,
		Aborted:      s.Aborted,
		AbortedBy:    s.AbortedBy,
		Skipped:      s.Skipped,
		Timing: jsonTiming{
			Min: FormatDuration(s.Timing.Min),
			Avg: FormatDuration(s.Timing.Avg),
			P95: FormatDuration(s.Timing.P95),
			Max: FormatDuration(s.Timing.Max),
		},
		Results: s.Results,
	}
	if out.Results == nil {
		out.Results = []core.StepResult{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
