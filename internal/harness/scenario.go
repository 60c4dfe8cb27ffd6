package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/trisynk/internal/demo"
)

// Scenario is a named list of operation steps and trace assertions.
type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []Step      `yaml:"steps"`
	Assertions  []Assertion `yaml:"assertions,omitempty"`
}

// Step invokes one operation. Only the input field matching Op is read.
type Step struct {
	Op string `yaml:"op"`

	// Values is the accumulate input.
	Values []int64 `yaml:"values,omitempty"`

	// Workload replaces Values with 0..Workload-1.
	Workload int `yaml:"workload,omitempty"`

	// Value is the increment input.
	Value int64 `yaml:"value,omitempty"`

	// Bytes is the consume_slice input; each element must fit in a byte.
	Bytes []int `yaml:"bytes,omitempty"`

	// Text is an alternative consume_slice input, taken as UTF-8 bytes.
	Text string `yaml:"text,omitempty"`

	// Expect is the required result. Nil skips the check.
	Expect *int64 `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
)

// Assertion checks the finished trace.
type Assertion struct {
	Type  string   `yaml:"type"`
	Op    string   `yaml:"op,omitempty"`
	Count int      `yaml:"count,omitempty"`
	Ops   []string `yaml:"ops,omitempty"`
}

// Args converts the step inputs into registry arguments.
func (s Step) Args() (demo.Args, error) {
	args := demo.Args{Value: s.Value, Values: s.Values}
	if s.Workload > 0 {
		args.Values = demo.SequentialInput(s.Workload)
	}

	if s.Text != "" {
		args.Bytes = []byte(s.Text)
	}
	for i, b := range s.Bytes {
		if b < 0 || b > 255 {
			return demo.Args{}, fmt.Errorf("bytes[%d]: %d out of byte range", i, b)
		}
		args.Bytes = append(args.Bytes, byte(b))
	}
	return args, nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml/.yml files under dir in lexical order.
// A non-empty filter is a glob matched against the file name without
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	known := make(map[string]bool)
	for _, op := range demo.Ops() {
		known[op] = true
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !known[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Workload < 0 {
			return fmt.Errorf("steps[%d]: workload must be non-negative", i)
		}
		if step.Workload > 0 && len(step.Values) > 0 {
			return fmt.Errorf("steps[%d]: values and workload are mutually exclusive", i)
		}
		if step.Text != "" && len(step.Bytes) > 0 {
			return fmt.Errorf("steps[%d]: bytes and text are mutually exclusive", i)
		}
		if _, err := step.Args(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertTraceCount:
			if a.Op == "" {
				return fmt.Errorf("assertions[%d]: op is required for trace_count", i)
			}
			if a.Count < 0 {
				return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", i)
			}
		case AssertTraceOrder:
			if len(a.Ops) == 0 {
				return fmt.Errorf("assertions[%d]: ops list is required for trace_order", i)
			}
		case "":
			return fmt.Errorf("assertions[%d]: type is required", i)
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}
	return nil
}
