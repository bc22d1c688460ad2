package core

import (
	"context"
	"fmt"
	"strconv"
)

// StepFunc runs one probe. A non-nil error marks the step as errored; the
// outcome is then ignored except for its message.
type StepFunc func(ctx context.Context) (Outcome, error)

// Step is a named unit of work executed by the runner.
type Step struct {
	Name string
	Run  StepFunc
	// ShortCircuit aborts the remaining steps when this one fails.
	ShortCircuit bool
}

// Outcome is what a step reports back on a normal return.
type Outcome struct {
	Passed  bool
	Message string
	Details any
}

// Pass builds a passing outcome.
func Pass(format string, args ...any) Outcome {
	return Outcome{Passed: true, Message: fmt.Sprintf(format, args...)}
}

// Fail builds a failing outcome with optional details.
func Fail(message string, details any) Outcome {
	return Outcome{Passed: false, Message: message, Details: details}
}

// Check turns a condition into an outcome.
func Check(ok bool, passMsg, failMsg string, details any) Outcome {
	if ok {
		return Outcome{Passed: true, Message: passMsg}
	}
	return Fail(failMsg, details)
}

// Variables provides state shared between the steps of one scenario.
type Variables interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MapVariables is a simple map-based Variables implementation.
type MapVariables struct {
	data map[string]any
}

func NewVariables() *MapVariables {
	return &MapVariables{data: make(map[string]any)}
}

func (v *MapVariables) Get(key string) (any, bool) {
	val, ok := v.data[key]
	return val, ok
}

// GetString returns the value formatted as a string, or "" when unset.
func (v *MapVariables) GetString(key string) string {
	val, ok := v.data[key]
	if !ok || val == nil {
		return ""
	}
	switch x := val.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", val)
}

func (v *MapVariables) Set(key string, value any) {
	v.data[key] = value
}
