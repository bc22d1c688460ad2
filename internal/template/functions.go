package template

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// now is replaced in tests.
var now = time.Now

var functions = map[string]func(args string) (string, error){
	"uuid":          fnUUID,
	"timestamp":     fnTimestamp,
	"timestamp_ms":  fnTimestampMs,
	"random":        fnRandom,
	"random_string": fnRandomString,
	"date":          fnDate,
	"email":         fnEmail,
}

// evalFunction runs a registered function call such as random(1,10).
// isFunc is false when expr is not a call to a known function.
func evalFunction(expr string) (val string, isFunc bool, err error) {
	open := strings.IndexByte(expr, '(')
	if open <= 0 || !strings.HasSuffix(expr, ")") {
		return "", false, nil
	}
	name := expr[:open]
	fn, ok := functions[name]
	if !ok {
		return "", false, nil
	}
	val, err = fn(expr[open+1 : len(expr)-1])
	if err != nil {
		return "", true, fmt.Errorf("function %s: %w", name, err)
	}
	return val, true, nil
}

func noArgs(name, args string) error {
	if strings.TrimSpace(args) != "" {
		return fmt.Errorf("%s() takes no arguments", name)
	}
	return nil
}

func fnUUID(args string) (string, error) {
	if err := noArgs("uuid", args); err != nil {
		return "", err
	}
	return uuid.NewString(), nil
}

func fnTimestamp(args string) (string, error) {
	if err := noArgs("timestamp", args); err != nil {
		return "", err
	}
	return strconv.FormatInt(now().Unix(), 10), nil
}

func fnTimestampMs(args string) (string, error) {
	if err := noArgs("timestamp_ms", args); err != nil {
		return "", err
	}
	return strconv.FormatInt(now().UnixMilli(), 10), nil
}

// fnRandom returns an integer in [min,max]. Usage: random(1,100)
func fnRandom(args string) (string, error) {
	lo, hi, ok := strings.Cut(args, ",")
	if !ok || strings.Contains(hi, ",") {
		return "", fmt.Errorf("random(min,max) requires exactly 2 arguments")
	}
	min, err := strconv.ParseInt(strings.TrimSpace(lo), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid min value: %w", err)
	}
	max, err := strconv.ParseInt(strings.TrimSpace(hi), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid max value: %w", err)
	}
	if min > max {
		return "", fmt.Errorf("min (%d) must be <= max (%d)", min, max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(min+n.Int64(), 10), nil
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// fnRandomString returns length alphanumeric characters. Usage: random_string(8)
func fnRandomString(args string) (string, error) {
	length, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return "", fmt.Errorf("invalid length: %w", err)
	}
	if length <= 0 || length > 1000 {
		return "", fmt.Errorf("length must be between 1 and 1000")
	}
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphanumeric))))
		if err != nil {
			return "", err
		}
		buf[i] = alphanumeric[n.Int64()]
	}
	return string(buf), nil
}

// fnDate formats the current time with a Go layout, RFC 3339 by default.
func fnDate(args string) (string, error) {
	layout := strings.TrimSpace(args)
	if layout == "" {
		layout = time.RFC3339
	}
	return now().Format(layout), nil
}

// fnEmail returns a fresh address under example.com, e.g. for a second
// registration inside one workflow.
func fnEmail(args string) (string, error) {
	if err := noArgs("email", args); err != nil {
		return "", err
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("probe.%d.%s@example.com", now().UnixMilli(), suffix), nil
}
