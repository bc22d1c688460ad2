package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// MaxExcerpt is the number of characters of a body kept in failure details.
const MaxExcerpt = 200

// Response is a fully read HTTP response.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// IsJSON reports whether the body is valid JSON.
func (r *Response) IsJSON() bool {
	return gjson.ValidBytes(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", r.Method, r.URL, err)
	}
	return nil
}

// Get looks up a gjson path in the body. Invalid JSON yields a missing result.
func (r *Response) Get(path string) gjson.Result {
	if !r.IsJSON() {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Body, path)
}

// Success2xx reports whether the status is in the 2xx range.
func (r *Response) Success2xx() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusIn reports whether the status is one of codes.
func (r *Response) StatusIn(codes ...int) bool {
	for _, c := range codes {
		if r.StatusCode == c {
			return true
		}
	}
	return false
}

// ExpectStatus returns *UnexpectedStatus unless the status is one of codes.
// With no codes any 2xx is accepted.
func (r *Response) ExpectStatus(codes ...int) error {
	if len(codes) == 0 && r.Success2xx() {
		return nil
	}
	if len(codes) > 0 && r.StatusIn(codes...) {
		return nil
	}
	return &UnexpectedStatus{
		Method:  r.Method,
		URL:     r.URL,
		Status:  r.StatusCode,
		Want:    codes,
		Excerpt: r.Excerpt(),
	}
}

// ShapeError builds a *ShapeMismatch for this response.
func (r *Response) ShapeError(format string, args ...any) *ShapeMismatch {
	return &ShapeMismatch{
		Method:  r.Method,
		URL:     r.URL,
		Reason:  fmt.Sprintf(format, args...),
		Excerpt: r.Excerpt(),
	}
}

// Require returns the value at path, or a *ShapeMismatch when the body is
// not JSON or the path is missing.
func (r *Response) Require(path string) (gjson.Result, error) {
	if !r.IsJSON() {
		return gjson.Result{}, r.ShapeError("response is not JSON")
	}
	v := gjson.GetBytes(r.Body, path)
	if !v.Exists() {
		return gjson.Result{}, r.ShapeError("missing field %q", path)
	}
	return v, nil
}

// Excerpt returns at most MaxExcerpt characters of the body.
func (r *Response) Excerpt() string {
	return Excerpt(r.Text(), MaxExcerpt)
}

// Excerpt truncates s to at most n characters without splitting a rune.
func Excerpt(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
