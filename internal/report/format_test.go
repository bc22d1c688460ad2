package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritzprobe/internal/core"
	"ritzprobe/internal/runner"
	"ritzprobe/internal/style"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func step(name string, ok bool, ms int64, details any) core.StepResult {
	status := core.StatusPassed
	if !ok {
		status = core.StatusFailed
	}
	return core.StepResult{Step: name, Success: ok, Status: status, Details: details, DurationMS: ms}
}

func TestFormatText_PartialFailure(t *testing.T) {
	cart := step("Get Cart", false, 30, "NetworkFailure: GET http://api.test/cart: request failed: connection refused")
	cart.Status = core.StatusErrored

	s := Summarize([]core.StepResult{
		step("Backend Health Check", true, 5, nil),
		step("User Registration", true, 10, nil),
		step("User Login", false, 15, "status 401"),
		step("Get Products", true, 20, nil),
		step("Get Categories", true, 25, nil),
		cart,
		step("Search Products", true, 35, nil),
		step("Currency List", true, 40, nil),
	}, defaultThresholds)
	s.Suite = "smoke"

	var buf bytes.Buffer
	FormatText(&buf, s, style.New(false))

	newGoldie(t).Assert(t, "partial_failure_text", buf.Bytes())
}

func TestFormatText_Aborted(t *testing.T) {
	health := step("Backend Health Check", false, 3, "NetworkFailure: GET http://127.0.0.1:1/health: request failed: connection refused")
	health.Status = core.StatusErrored

	s := Summarize([]core.StepResult{health}, defaultThresholds)
	s.ApplyRun(runner.Result{Attempted: 1, Skipped: 2, Aborted: true, AbortedBy: "Backend Health Check"})

	var buf bytes.Buffer
	FormatText(&buf, s, style.New(false))

	newGoldie(t).Assert(t, "aborted_text", buf.Bytes())
}

func TestFormatText_Empty(t *testing.T) {
	s := Summarize(nil, Thresholds{Pass: 0, Excellent: 80})

	var buf bytes.Buffer
	FormatText(&buf, s, style.New(false))

	newGoldie(t).Assert(t, "empty_text", buf.Bytes())
}

func TestFormatText_DetailsOnlyOnFailure(t *testing.T) {
	s := Summarize([]core.StepResult{
		step("a", true, 1, "hidden detail"),
		step("b", false, 1, map[string]int{"status": 500}),
	}, defaultThresholds)

	var buf bytes.Buffer
	FormatText(&buf, s, style.New(false))
	out := buf.String()

	assert.NotContains(t, out, "hidden detail")
	assert.Contains(t, out, `      Details: {"status":500}`)
}

func TestFormatText_Fancy(t *testing.T) {
	s := Summarize([]core.StepResult{step("a", true, 1, nil)}, defaultThresholds)

	var buf bytes.Buffer
	FormatText(&buf, s, style.New(true))
	out := buf.String()

	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "═")
	assert.Contains(t, out, "EXCELLENT")
}

func TestFormatJSON_PartialFailure(t *testing.T) {
	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	ts := func(ms int) string {
		return base.Add(time.Duration(ms) * time.Millisecond).Format(core.TimestampLayout)
	}

	rs := []core.StepResult{
		step("Backend Health Check", true, 5, nil),
		step("User Login", false, 10, "status 401"),
		step("Get Products", true, 15, nil),
	}
	rs[0].Message, rs[0].Timestamp = "backend running", ts(0)
	rs[1].Message, rs[1].Timestamp = "login failed", ts(1)
	rs[2].Message, rs[2].Timestamp = "1 product returned", ts(2)

	s := Summarize(rs, defaultThresholds)
	s.Suite = "smoke"

	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, s))

	newGoldie(t).Assert(t, "partial_failure_json", buf.Bytes())
}

func TestFormatJSON_EmptyResultsIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, Summarize(nil, defaultThresholds)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []any{}, decoded["results"])
	assert.NotContains(t, decoded, "aborted")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{15 * time.Millisecond, "15ms"},
		{2500 * time.Millisecond, "2.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}
