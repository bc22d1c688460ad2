package data

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ritzprobe/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.csv", "email,password,phone\nalice@example.com,secret1,+1555\nbob@example.com,secret2\n")

	src, err := Load("users", "users.csv", ModeFirst, dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.Len() != 2 {
		t.Errorf("Len() = %d, want 2", src.Len())
	}
	row := src.Row()
	if row["email"] != "alice@example.com" || row["password"] != "secret1" {
		t.Errorf("Row() = %v, want alice's row", row)
	}
	if got := src.rows[1]["phone"]; got != "" {
		t.Errorf("padded field = %v, want empty", got)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "products.json", `[{"id":"p1","qty":2,"order":12345678},{"id":"p2","qty":1}]`)

	src, err := Load("products", path, "", "/ignored")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.Row()["id"] != "p1" {
		t.Errorf("Row()[id] = %v, want p1", src.Row()["id"])
	}
	if src.Row()["qty"] != json.Number("2") {
		t.Errorf("Row()[qty] = %v, want 2", src.Row()["qty"])
	}
	if src.Row()["order"] != json.Number("12345678") {
		t.Errorf("Row()[order] = %v, want 12345678", src.Row()["order"])
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "header.csv", "only,header\n")
	writeFile(t, dir, "object.json", `{"id":"p1"}`)
	writeFile(t, dir, "empty.json", `[]`)
	writeFile(t, dir, "rows.txt", "x")

	tests := []struct {
		name string
		file string
		mode Mode
	}{
		{"header only", "header.csv", ModeFirst},
		{"not an array", "object.json", ModeFirst},
		{"no rows", "empty.json", ModeFirst},
		{"unknown extension", "rows.txt", ModeFirst},
		{"missing file", "missing.csv", ModeFirst},
		{"unknown mode", "header.csv", "cycle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load("f", tt.file, tt.mode, dir); err == nil {
				t.Errorf("Load(%s) succeeded, want error", tt.file)
			}
		})
	}
}

func TestRandomMode(t *testing.T) {
	src := NewSource("s", []map[string]any{{"n": "a"}, {"n": "b"}, {"n": "c"}}, ModeRandom)
	src.intn = func(n int) int { return n - 1 }
	if got := src.Row()["n"]; got != "c" {
		t.Errorf("Row()[n] = %v, want c", got)
	}
}

func TestInject(t *testing.T) {
	sources := Sources{
		"user":    NewSource("user", []map[string]any{{"email": "a@example.com"}}, ModeFirst),
		"product": NewSource("product", []map[string]any{{"id": "p1", "name": "Shirt"}}, ModeFirst),
		"none":    NewSource("none", nil, ModeFirst),
	}
	vars := core.NewVariables()

	keys := sources.Inject(vars)

	want := []string{"data.product.id", "data.product.name", "data.user.email"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
	if got := vars.GetString("data.user.email"); got != "a@example.com" {
		t.Errorf("data.user.email = %q", got)
	}
}
