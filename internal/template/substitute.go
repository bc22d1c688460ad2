// Package template expands placeholders in workflow steps and reads values
// back out of JSON responses.
package template

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"ritzprobe/internal/core"
)

// placeholder matches ${name}, ${env:NAME} and ${func(args)}.
var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Substitute expands every placeholder in text. Unresolved placeholders are
// reported together; text without "${" is returned as-is.
func Substitute(text string, vars core.Variables) (string, error) {
	if !strings.Contains(text, "${") {
		return text, nil
	}

	var errs []error
	out := placeholder.ReplaceAllStringFunc(text, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-1])

		if name, ok := strings.CutPrefix(expr, "env:"); ok {
			if val, ok := os.LookupEnv(name); ok {
				return val
			}
			errs = append(errs, fmt.Errorf("env var %q not set", name))
			return match
		}

		if val, isFunc, err := evalFunction(expr); isFunc {
			if err != nil {
				errs = append(errs, err)
				return match
			}
			return val
		}

		if vars != nil {
			if val, ok := vars.Get(expr); ok {
				return format(val)
			}
		}
		errs = append(errs, fmt.Errorf("variable %q not found", expr))
		return match
	})

	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return out, nil
}

// format renders a variable value. Floats never use exponent notation.
func format(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprint(val)
}

// SubstituteMap expands every value of m. The key is named in errors.
func SubstituteMap(m map[string]string, vars core.Variables) (map[string]string, error) {
	if m == nil {
		return nil, nil
	}

	out := make(map[string]string, len(m))
	var errs []error
	for k, v := range m {
		s, err := Substitute(v, vars)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			continue
		}
		out[k] = s
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
