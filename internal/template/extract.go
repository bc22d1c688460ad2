package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract reads one value per rule from a JSON body. Rules map a variable
// name to a JSONPath such as $.data.items[0].id.
func Extract(body []byte, rules map[string]string) (map[string]any, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON in response body")
	}

	out := make(map[string]any, len(rules))
	var errs []error
	for _, name := range sortedKeys(rules) {
		path := rules[name]
		value := gjson.GetBytes(body, ToGJSON(path))
		if !value.Exists() {
			errs = append(errs, fmt.Errorf("path %q not found for variable %q", path, name))
			continue
		}
		out[name] = extractedValue(value)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// extractedValue keeps numbers in their literal form so that ids and order
// numbers substitute back unchanged.
func extractedValue(r gjson.Result) any {
	if r.Type == gjson.Number {
		return json.Number(r.String())
	}
	return r.Value()
}

// Match checks a JSON body against expectations keyed by JSONPath. The
// expected value "*" means present and non-empty; anything else is compared
// with the value's string form.
func Match(body []byte, expect map[string]string) error {
	if len(expect) == 0 {
		return nil
	}
	if !gjson.ValidBytes(body) {
		return errors.New("invalid JSON in response body")
	}

	var errs []error
	for _, path := range sortedKeys(expect) {
		want := expect[path]
		got := gjson.GetBytes(body, ToGJSON(path))
		switch {
		case !got.Exists():
			errs = append(errs, fmt.Errorf("%s: missing", path))
		case want == "*":
			if isEmpty(got) {
				errs = append(errs, fmt.Errorf("%s: empty", path))
			}
		case got.String() != want:
			errs = append(errs, fmt.Errorf("%s: got %q, want %q", path, got.String(), want))
		}
	}
	return errors.Join(errs...)
}

func isEmpty(r gjson.Result) bool {
	switch {
	case r.Type == gjson.Null:
		return true
	case r.IsArray():
		return len(r.Array()) == 0
	case r.IsObject():
		return len(r.Map()) == 0
	case r.Type == gjson.String:
		return r.Str == ""
	}
	return false
}

// ToGJSON converts JSONPath syntax to a gjson path.
//
//	$.foo.bar     -> foo.bar
//	$.items[0].id -> items.0.id
//	$.data[*].id  -> data.#.id
func ToGJSON(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")

	var b strings.Builder
	for i := 0; i < len(path); i++ {
		if path[i] == '[' {
			if end := strings.IndexByte(path[i:], ']'); end > 0 {
				idx := path[i+1 : i+end]
				if idx == "*" {
					idx = "#"
				}
				b.WriteByte('.')
				b.WriteString(idx)
				i += end
				continue
			}
		}
		b.WriteByte(path[i])
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
