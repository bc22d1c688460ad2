package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Workflow is a declarative list of request steps loaded from YAML.
type Workflow struct {
	Name string `yaml:"name"`
	// Authenticate prepends the register+login step.
	Authenticate bool         `yaml:"authenticate"`
	Steps        []StepConfig `yaml:"steps"`
	// Data names fixture files whose selected row seeds ${data.<name>.<field>}.
	Data map[string]Fixture `yaml:"data,omitempty"`

	// Dir is the directory of the loaded file; fixture paths are relative to it.
	Dir string `yaml:"-"`
}

// Fixture points at a CSV or JSON file of rows.
type Fixture struct {
	File string `yaml:"file"`
	// Mode is "first" (default) or "random".
	Mode string `yaml:"mode,omitempty"`
}

// StepConfig defines a single request step.
type StepConfig struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Query   map[string]string `yaml:"query,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Body    string            `yaml:"body,omitempty"`
	// ExpectStatus lists accepted status codes. Empty means any 2xx.
	ExpectStatus []int `yaml:"expect_status,omitempty"`
	// Expect maps JSONPath expressions to the expected value, "*" meaning
	// "present and non-empty".
	Expect       map[string]string `yaml:"expect,omitempty"`
	Extract      map[string]string `yaml:"extract,omitempty"` // JSONPath extraction rules
	ShortCircuit bool              `yaml:"short_circuit,omitempty"`
	// Anonymous sends the request without the bearer token.
	Anonymous bool `yaml:"anonymous,omitempty"`
}

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodHead:    true,
}

// LoadWorkflow reads and parses a YAML workflow file.
func LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file: %w", err)
	}
	wf, err := ParseWorkflow(data)
	if err != nil {
		return nil, err
	}
	wf.Dir = filepath.Dir(path)
	return wf, nil
}

// ParseWorkflow parses and validates workflow YAML.
func ParseWorkflow(data []byte) (*Workflow, error) {
	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parsing workflow file: %w", err)
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	return &wf, nil
}

// Validate normalises methods and reports every invalid step.
func (w *Workflow) Validate() error {
	if len(w.Steps) == 0 {
		return errors.New("workflow has no steps")
	}
	var errs []error
	seen := make(map[string]bool, len(w.Steps))
	for i := range w.Steps {
		s := &w.Steps[i]
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("step %d: name is required", i+1))
		} else if seen[s.Name] {
			errs = append(errs, fmt.Errorf("step %d: duplicate name %q", i+1, s.Name))
		}
		seen[s.Name] = true

		s.Method = strings.ToUpper(strings.TrimSpace(s.Method))
		if s.Method == "" {
			s.Method = http.MethodGet
		}
		if !allowedMethods[s.Method] {
			errs = append(errs, fmt.Errorf("step %d: unsupported method %q", i+1, s.Method))
		}
		if s.Path == "" {
			errs = append(errs, fmt.Errorf("step %d: path is required", i+1))
		}
		for _, code := range s.ExpectStatus {
			if code < 100 || code > 599 {
				errs = append(errs, fmt.Errorf("step %d: invalid expected status %d", i+1, code))
			}
		}
	}
	for name, fx := range w.Data {
		if fx.File == "" {
			errs = append(errs, fmt.Errorf("data %q: file is required", name))
		}
		if fx.Mode != "" && fx.Mode != "first" && fx.Mode != "random" {
			errs = append(errs, fmt.Errorf("data %q: unknown mode %q", name, fx.Mode))
		}
	}
	return errors.Join(errs...)
}
