// Package data loads CSV and JSON fixture files. One row of each fixture
// seeds the variables of a workflow run as ${data.<name>.<field>}.
package data

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ritzprobe/internal/core"
)

// Mode selects which row of a fixture a run uses.
type Mode string

const (
	ModeFirst  Mode = "first"
	ModeRandom Mode = "random"
)

// ValidMode reports whether m is a known mode. Empty means ModeFirst.
func ValidMode(m Mode) bool {
	return m == "" || m == ModeFirst || m == ModeRandom
}

// Source is a loaded fixture.
type Source struct {
	name string
	rows []map[string]any
	mode Mode
	intn func(n int) int
}

func NewSource(name string, rows []map[string]any, mode Mode) *Source {
	if mode == "" {
		mode = ModeFirst
	}
	return &Source{name: name, rows: rows, mode: mode, intn: rand.IntN}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Len() int { return len(s.rows) }

// Row returns the row selected by the source's mode, or nil when empty.
func (s *Source) Row() map[string]any {
	if len(s.rows) == 0 {
		return nil
	}
	if s.mode == ModeRandom {
		return s.rows[s.intn(len(s.rows))]
	}
	return s.rows[0]
}

// Load reads a .csv or .json fixture. Relative paths are resolved against
// baseDir, normally the workflow file's directory.
func Load(name, path string, mode Mode, baseDir string) (*Source, error) {
	if !ValidMode(mode) {
		return nil, fmt.Errorf("fixture %s: unknown mode %q", name, mode)
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	var (
		rows []map[string]any
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = loadCSV(path)
	case ".json":
		rows, err = loadJSON(path)
	default:
		return nil, fmt.Errorf("fixture %s: unsupported file format %q (use .csv or .json)", name, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("fixture %s: loading %s: %w", name, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fixture %s: %s has no rows", name, path)
	}
	return NewSource(name, rows, mode), nil
}

// The header row names the fields; short records are padded with "".
func loadCSV(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV needs a header row and at least one data row")
	}

	headers := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func loadJSON(path string) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("JSON must be an array of objects: %w", err)
	}
	return rows, nil
}

// Sources are fixtures by name.
type Sources map[string]*Source

// Inject sets data.<name>.<field> for the selected row of every source and
// returns the keys it set, sorted.
func (s Sources) Inject(vars core.Variables) []string {
	var keys []string
	for name, src := range s {
		for field, value := range src.Row() {
			key := "data." + name + "." + field
			vars.Set(key, value)
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
