package core

import (
	"testing"
	"time"
)

func TestMapVariables(t *testing.T) {
	vars := NewVariables()
	vars.Set("key", "value")
	val, ok := vars.Get("key")
	if !ok || val != "value" {
		t.Errorf("expected 'value', got %v", val)
	}
	_, ok = vars.Get("missing")
	if ok {
		t.Error("expected not found")
	}
}

func TestMapVariables_GetString(t *testing.T) {
	vars := NewVariables()
	vars.Set("n", 42)
	vars.Set("s", "p1")
	if got := vars.GetString("n"); got != "42" {
		t.Errorf("expected '42', got %q", got)
	}
	if got := vars.GetString("s"); got != "p1" {
		t.Errorf("expected 'p1', got %q", got)
	}
	if got := vars.GetString("missing"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestOutcomeHelpers(t *testing.T) {
	p := Pass("got %d items", 3)
	if !p.Passed || p.Message != "got 3 items" {
		t.Errorf("unexpected pass outcome: %+v", p)
	}
	f := Fail("boom", "status 500")
	if f.Passed || f.Details != "status 500" {
		t.Errorf("unexpected fail outcome: %+v", f)
	}
	if c := Check(false, "ok", "bad", 1); c.Passed || c.Message != "bad" {
		t.Errorf("unexpected check outcome: %+v", c)
	}
	if c := Check(true, "ok", "bad", 1); !c.Passed || c.Details != nil {
		t.Errorf("unexpected check outcome: %+v", c)
	}
}

func TestStepResult_Time(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC)
	r := StepResult{Timestamp: ts.Format(TimestampLayout)}
	got, err := r.Time()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(ts) {
		t.Errorf("expected %v, got %v", ts, got)
	}
}
