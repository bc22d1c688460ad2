package session

import (
	"fmt"
	"strconv"
	"strings"
)

// NetworkFailure reports a request that never produced an HTTP response:
// connection refused, DNS failure or timeout.
type NetworkFailure struct {
	Method  string
	URL     string
	Err     error
	Timeout bool
}

func (e *NetworkFailure) Error() string {
	kind := "request failed"
	if e.Timeout {
		kind = "request timed out"
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, kind, e.Err)
}

func (e *NetworkFailure) Unwrap() error {
	return e.Err
}

// Kind names the failure class in recorded details.
func (e *NetworkFailure) Kind() string {
	return "NetworkFailure"
}

// UnexpectedStatus reports a response whose status did not match what the
// step expected. It is recorded as details, so it carries JSON tags.
type UnexpectedStatus struct {
	Method  string `json:"method"`
	URL     string `json:"url"`
	Status  int    `json:"status"`
	Want    []int  `json:"want,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

func (e *UnexpectedStatus) Error() string {
	want := "2xx"
	if len(e.Want) > 0 {
		want = joinInts(e.Want)
	}
	msg := fmt.Sprintf("%s %s: status %d, want %s", e.Method, e.URL, e.Status, want)
	if e.Excerpt != "" {
		msg += ": " + e.Excerpt
	}
	return msg
}

func (e *UnexpectedStatus) Kind() string {
	return "HttpUnexpectedStatus"
}

// ShapeMismatch reports a body that was not JSON or lacked an expected field.
type ShapeMismatch struct {
	Method  string `json:"method"`
	URL     string `json:"url"`
	Reason  string `json:"reason"`
	Excerpt string `json:"excerpt,omitempty"`
}

func (e *ShapeMismatch) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Reason)
	if e.Excerpt != "" {
		msg += ": " + e.Excerpt
	}
	return msg
}

func (e *ShapeMismatch) Kind() string {
	return "BodyShapeMismatch"
}

func joinInts(codes []int) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, "|")
}
