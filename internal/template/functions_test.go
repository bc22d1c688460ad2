package template

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

func withFixedNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestFnUUID(t *testing.T) {
	a, err := fnUUID("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !uuidPattern.MatchString(a) {
		t.Errorf("not a v4 uuid: %q", a)
	}
	b, _ := fnUUID("")
	if a == b {
		t.Error("expected distinct uuids")
	}
	if _, err := fnUUID("x"); err == nil {
		t.Error("expected error for arguments")
	}
}

func TestFnTimestamps(t *testing.T) {
	withFixedNow(t, time.Date(2025, 1, 15, 10, 0, 0, 5_000_000, time.UTC))

	if got, _ := fnTimestamp(""); got != "1736935200" {
		t.Errorf("timestamp: got %s", got)
	}
	if got, _ := fnTimestampMs(""); got != "1736935200005" {
		t.Errorf("timestamp_ms: got %s", got)
	}
}

func TestFnRandom(t *testing.T) {
	for i := 0; i < 50; i++ {
		got, err := fnRandom(" 3 , 7 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, _ := strconv.Atoi(got)
		if n < 3 || n > 7 {
			t.Fatalf("out of range: %d", n)
		}
	}
	if got, _ := fnRandom("4,4"); got != "4" {
		t.Errorf("single value: got %s", got)
	}
	for _, args := range []string{"", "1", "1,2,3", "a,2", "1,b", "9,1"} {
		if _, err := fnRandom(args); err == nil {
			t.Errorf("random(%s): expected error", args)
		}
	}
}

func TestFnRandomString(t *testing.T) {
	got, err := fnRandomString("12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 12 || strings.Trim(got, alphanumeric) != "" {
		t.Errorf("got %q", got)
	}
	for _, args := range []string{"", "0", "-1", "1001", "x"} {
		if _, err := fnRandomString(args); err == nil {
			t.Errorf("random_string(%s): expected error", args)
		}
	}
}

func TestFnDate(t *testing.T) {
	withFixedNow(t, time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))

	if got, _ := fnDate("2006-01-02"); got != "2025-01-15" {
		t.Errorf("got %s", got)
	}
	if got, _ := fnDate(""); got != "2025-01-15T10:30:00Z" {
		t.Errorf("default layout: got %s", got)
	}
}

func TestFnEmail(t *testing.T) {
	withFixedNow(t, time.UnixMilli(1736935200000))

	got, err := fnEmail("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !regexp.MustCompile(`^probe\.1736935200000\.[0-9a-f]{6}@example\.com$`).MatchString(got) {
		t.Errorf("got %q", got)
	}
}

func TestSubstitute_Functions(t *testing.T) {
	withFixedNow(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	got, err := Substitute(`{"ref":"order-${date(20060102)}-${random(1,1)}","id":"${ uuid() }"}`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, `{"ref":"order-20250115-1","id":"`) {
		t.Errorf("got %q", got)
	}
}
