package session

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestResponse_JSONAccess(t *testing.T) {
	r := &Response{StatusCode: 200, Body: []byte(`{"success":true,"data":[{"id":"p1"}]}`)}

	if !r.IsJSON() {
		t.Fatal("expected valid JSON")
	}
	if !r.Get("success").Bool() {
		t.Error("expected success true")
	}
	if r.Get("data.0.id").String() != "p1" {
		t.Errorf("expected p1, got %q", r.Get("data.0.id").String())
	}

	var decoded struct {
		Data []struct{ ID string } `json:"data"`
	}
	if err := r.JSON(&decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded.Data) != 1 {
		t.Errorf("expected 1 item, got %d", len(decoded.Data))
	}
}

func TestResponse_NonJSON(t *testing.T) {
	r := &Response{Method: "GET", URL: "http://x/health", Body: []byte("<html>oops</html>")}

	if r.IsJSON() {
		t.Error("expected invalid JSON")
	}
	if r.Get("success").Exists() {
		t.Error("expected missing field on non-JSON body")
	}
	var v map[string]any
	if err := r.JSON(&v); err == nil {
		t.Error("expected decode error")
	}
}

func TestResponse_StatusIn(t *testing.T) {
	r := &Response{StatusCode: 204}
	if !r.StatusIn(200, 204) {
		t.Error("expected 204 to match")
	}
	if r.StatusIn(401, 403) {
		t.Error("expected no match")
	}
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("x", 5000)
	if got := Excerpt(long, MaxExcerpt); len(got) != 200 {
		t.Errorf("expected exactly 200 characters, got %d", len(got))
	}
	if got := Excerpt("short", MaxExcerpt); got != "short" {
		t.Errorf("expected unchanged, got %q", got)
	}

	multi := strings.Repeat("é", 300)
	got := Excerpt(multi, MaxExcerpt)
	if utf8.RuneCountInString(got) != 200 || !utf8.ValidString(got) {
		t.Errorf("expected 200 valid runes, got %d", utf8.RuneCountInString(got))
	}

	if Excerpt("abc", 0) != "" {
		t.Error("expected empty excerpt for n=0")
	}

	r := &Response{Body: []byte(long)}
	if len(r.Excerpt()) != MaxExcerpt {
		t.Errorf("expected response excerpt of %d, got %d", MaxExcerpt, len(r.Excerpt()))
	}
}

func TestResponse_ExpectStatus(t *testing.T) {
	r := &Response{Method: "POST", URL: "http://x/payments/paypal/create-order", StatusCode: 200, Body: []byte(`{"id":"O-1"}`)}

	if err := r.ExpectStatus(); err != nil {
		t.Errorf("2xx with no codes: %v", err)
	}
	if err := r.ExpectStatus(200, 201); err != nil {
		t.Errorf("listed code: %v", err)
	}

	err := r.ExpectStatus(401, 403)
	var us *UnexpectedStatus
	if !errors.As(err, &us) {
		t.Fatalf("expected *UnexpectedStatus, got %T", err)
	}
	if us.Status != 200 || us.Kind() != "HttpUnexpectedStatus" {
		t.Errorf("got %+v", us)
	}
	want := `POST http://x/payments/paypal/create-order: status 200, want 401|403: {"id":"O-1"}`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	r.StatusCode = 500
	r.Body = nil
	if got := r.ExpectStatus().Error(); got != "POST http://x/payments/paypal/create-order: status 500, want 2xx" {
		t.Errorf("got %q", got)
	}
}

func TestResponse_ExpectStatusExcerptIsBounded(t *testing.T) {
	r := &Response{Method: "GET", URL: "u", StatusCode: 502, Body: []byte(strings.Repeat("x", 5000))}

	var us *UnexpectedStatus
	if !errors.As(r.ExpectStatus(), &us) {
		t.Fatal("expected *UnexpectedStatus")
	}
	if len(us.Excerpt) != MaxExcerpt {
		t.Errorf("expected excerpt of %d chars, got %d", MaxExcerpt, len(us.Excerpt))
	}
}

func TestResponse_Require(t *testing.T) {
	r := &Response{Method: "GET", URL: "http://x/health", StatusCode: 200, Body: []byte(`{"success":true}`)}

	v, err := r.Require("success")
	if err != nil || !v.Bool() {
		t.Errorf("got %v, %v", v, err)
	}

	_, err = r.Require("data")
	var sm *ShapeMismatch
	if !errors.As(err, &sm) || sm.Reason != `missing field "data"` {
		t.Errorf("got %v", err)
	}
	if sm.Kind() != "BodyShapeMismatch" {
		t.Errorf("kind %q", sm.Kind())
	}

	r.Body = []byte("<html>")
	_, err = r.Require("success")
	if err == nil || err.Error() != "GET http://x/health: response is not JSON: <html>" {
		t.Errorf("got %v", err)
	}
}
