package scenarios

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"ritzprobe/internal/core"
	"ritzprobe/internal/session"
)

// failed builds a failing outcome; details is usually a typed response error.
func failed(message string, details any) core.Outcome {
	return core.Fail(message, details)
}

// statusFailure is the outcome for a response with the wrong status.
func statusFailure(resp *session.Response, err error) core.Outcome {
	return failed(fmt.Sprintf("unexpected status %d", resp.StatusCode), err)
}

// firstString returns the first non-empty string found at paths.
func firstString(resp *session.Response, paths ...string) string {
	for _, p := range paths {
		if v := resp.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// requireArray returns the array at path, failing on a missing or
// non-array value.
func requireArray(resp *session.Response, path string) ([]gjson.Result, error) {
	v, err := resp.Require(path)
	if err != nil {
		return nil, err
	}
	if !v.IsArray() {
		return nil, resp.ShapeError("field %q is not an array", path)
	}
	return v.Array(), nil
}

// requireSuccess checks the conventional {"success": true} envelope.
func requireSuccess(resp *session.Response) error {
	v, err := resp.Require("success")
	if err != nil {
		return err
	}
	if !v.Bool() {
		return resp.ShapeError("success is %s", v.Raw)
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	switch {
	case strings.HasSuffix(word, "y"):
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(word, "y"))
	case strings.HasSuffix(word, "s"):
		return fmt.Sprintf("%d %ses", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// searchTerm picks a query from a product name.
func searchTerm(name string) string {
	for _, f := range strings.Fields(name) {
		if len(f) >= 3 {
			return strings.ToLower(f)
		}
	}
	return "a"
}

func isNetwork(err error) bool {
	var nf *session.NetworkFailure
	return errors.As(err, &nf)
}
