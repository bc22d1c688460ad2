package template

import (
	"encoding/json"
	"strings"
	"testing"
)

const productsBody = `{
	"success": true,
	"data": [
		{"id": "p1", "name": "Phone", "price": 199.99, "inStock": true},
		{"id": "p2", "name": "Case", "price": 9.5, "inStock": false}
	],
	"pagination": {"total": 2},
	"empty": [],
	"blank": "",
	"nothing": null
}`

func TestExtract(t *testing.T) {
	got, err := Extract([]byte(productsBody), map[string]string{
		"product_id": "$.data[0].id",
		"price":      "$.data[1].price",
		"in_stock":   "data.0.inStock",
		"total":      "$.pagination.total",
		"ids":        "$.data[*].id",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["product_id"] != "p1" {
		t.Errorf("product_id: got %v", got["product_id"])
	}
	if got["price"] != json.Number("9.5") {
		t.Errorf("price: got %v", got["price"])
	}
	if got["in_stock"] != true {
		t.Errorf("in_stock: got %v", got["in_stock"])
	}
	if got["total"] != json.Number("2") {
		t.Errorf("total: got %v", got["total"])
	}
	ids, ok := got["ids"].([]any)
	if !ok || len(ids) != 2 || ids[1] != "p2" {
		t.Errorf("ids: got %v", got["ids"])
	}
}

func TestExtract_NumbersKeepLiteralForm(t *testing.T) {
	body := []byte(`{"data":{"order_number":12345678,"big":9007199254740993,"rate":0.000001}}`)
	got, err := Extract(body, map[string]string{
		"num":  "$.data.order_number",
		"big":  "$.data.big",
		"rate": "$.data.rate",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"num":  json.Number("12345678"),
		"big":  json.Number("9007199254740993"),
		"rate": json.Number("0.000001"),
	}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("%s: got %v (%T), want %v", k, got[k], got[k], w)
		}
	}
}

func TestExtract_Errors(t *testing.T) {
	if got, err := Extract([]byte(productsBody), nil); got != nil || err != nil {
		t.Errorf("empty rules: got %v, %v", got, err)
	}

	if _, err := Extract([]byte("<html>"), map[string]string{"id": "$.id"}); err == nil {
		t.Error("expected error for invalid JSON")
	}

	_, err := Extract([]byte(productsBody), map[string]string{
		"a": "$.missing",
		"b": "$.data[5].id",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"a"`) || !strings.Contains(err.Error(), `"b"`) {
		t.Errorf("expected both variables reported, got %v", err)
	}
}

func TestMatch(t *testing.T) {
	body := []byte(productsBody)

	if err := Match(body, map[string]string{
		"$.success":          "true",
		"$.data":             "*",
		"$.data[0].name":     "Phone",
		"$.pagination.total": "2",
	}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := Match(body, map[string]string{
		"$.empty":   "*",
		"$.blank":   "*",
		"$.nothing": "*",
		"$.token":   "*",
		"$.success": "false",
	})
	if err == nil {
		t.Fatal("expected mismatch")
	}
	for _, want := range []string{"empty: empty", "blank: empty", "nothing: empty", "token: missing", `want "false"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}

	if err := Match([]byte("not json"), map[string]string{"$.a": "*"}); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if err := Match([]byte("not json"), nil); err != nil {
		t.Errorf("no expectations: %v", err)
	}
}

func TestToGJSON(t *testing.T) {
	tests := map[string]string{
		"$.foo.bar":            "foo.bar",
		"$.items[0].id":        "items.0.id",
		"$.data[*].name":       "data.#.name",
		"$.a[1][2]":            "a.1.2",
		"data.session.token":   "data.session.token",
		"$":                    "",
		"$.data.session.token": "data.session.token",
	}
	for in, want := range tests {
		if got := ToGJSON(in); got != want {
			t.Errorf("ToGJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
