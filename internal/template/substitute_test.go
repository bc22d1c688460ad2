package template

import (
	"strings"
	"testing"

	"ritzprobe/internal/core"
)

func TestSubstitute_NoPlaceholders(t *testing.T) {
	got, err := Substitute("Bearer static-token", core.NewVariables())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Bearer static-token" {
		t.Errorf("got %q", got)
	}
}

func TestSubstitute_Variables(t *testing.T) {
	vars := core.NewVariables()
	vars.Set("product_id", "p1")
	vars.Set("quantity", 2)
	vars.Set("price", 19.5)

	got, err := Substitute(`{"productId":"${product_id}","quantity":${quantity},"price":${price}}`, vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"productId":"p1","quantity":2,"price":19.5}`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSubstitute_FloatsWithoutExponent(t *testing.T) {
	vars := core.NewVariables()
	vars.Set("order", float64(12345678))
	vars.Set("huge", 1e21)
	vars.Set("small", 0.000001)

	got, err := Substitute("/orders/${order}?a=${huge}&b=${small}", vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "/orders/12345678?a=1000000000000000000000&b=0.000001"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSubstitute_Env(t *testing.T) {
	t.Setenv("RITZPROBE_TEST_ORIGIN", "http://localhost:3000")

	got, err := Substitute("${env:RITZPROBE_TEST_ORIGIN}/checkout", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "http://localhost:3000/checkout" {
		t.Errorf("got %q", got)
	}
}

func TestSubstitute_MissingReportsAll(t *testing.T) {
	_, err := Substitute("/cart/items/${item_id}?u=${user_id}&o=${env:RITZPROBE_UNSET_VAR}", core.NewVariables())
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{`"item_id"`, `"user_id"`, `"RITZPROBE_UNSET_VAR"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %s in %q", want, err)
		}
	}
}

func TestSubstitute_UnknownFunctionIsVariable(t *testing.T) {
	_, err := Substitute("${nope()}", core.NewVariables())
	if err == nil || !strings.Contains(err.Error(), `variable "nope()" not found`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSubstitute_FunctionError(t *testing.T) {
	_, err := Substitute("${random(5,1)}", nil)
	if err == nil || !strings.Contains(err.Error(), "function random") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSubstituteMap(t *testing.T) {
	vars := core.NewVariables()
	vars.Set("token", "abc")

	got, err := SubstituteMap(map[string]string{
		"Authorization": "Bearer ${token}",
		"X-Static":      "yes",
	}, vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["Authorization"] != "Bearer abc" || got["X-Static"] != "yes" {
		t.Errorf("got %v", got)
	}

	if m, err := SubstituteMap(nil, vars); m != nil || err != nil {
		t.Errorf("nil map: got %v, %v", m, err)
	}

	_, err = SubstituteMap(map[string]string{"X-Id": "${missing}"}, vars)
	if err == nil || !strings.Contains(err.Error(), "X-Id") {
		t.Errorf("expected error naming the key, got %v", err)
	}
}
