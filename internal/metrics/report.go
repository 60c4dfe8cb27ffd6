package metrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultReportPath is where CI writes the metrics report.
const DefaultReportPath = "reports/metrics.json"

// Defaults applied when a report omits a field. Both fail the default gate.
const (
	MissingCoverage       Percent = 0
	MissingLatencyPercent Percent = 100_00
)

// Report is one build's coverage and benchmark latency delta.
type Report struct {
	Coverage       Percent
	PerfLatencyPct Percent

	// Missing lists fields absent from the source and set to their defaults.
	Missing []string
}

// Format of a serialized report.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks a report format from a file extension. Anything
// other than .yaml/.yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadReport reads and parses the report at path.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeMissingFile, Path: path, Message: "missing metrics file"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidReport, Path: path, Message: "failed to read metrics file", Err: err}
	}

	report, err := ParseReport(data, FormatForPath(path))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidReport, Path: path, Message: "failed to parse metrics file", Err: err}
	}
	return report, nil
}

// ParseReport decodes a report. Unknown fields are ignored so CI can add
// fields without breaking the gate.
func ParseReport(data []byte, format Format) (*Report, error) {
	var raw reportFile
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}

	report := &Report{
		Coverage:       MissingCoverage,
		PerfLatencyPct: MissingLatencyPercent,
	}
	if raw.Coverage != nil {
		report.Coverage = raw.Coverage.value
	} else {
		report.Missing = append(report.Missing, "coverage")
	}
	if raw.PerfLatencyPct != nil {
		report.PerfLatencyPct = raw.PerfLatencyPct.value
	} else {
		report.Missing = append(report.Missing, "perf_latency_pct")
	}
	return report, nil
}

// MissingError returns an error wrapping ErrMissingField when any field
// was defaulted, or nil.
func (r *Report) MissingError() error {
	if len(r.Missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(r.Missing, ", "))
}

type reportFile struct {
	Coverage       *rawPercent `json:"coverage" yaml:"coverage"`
	PerfLatencyPct *rawPercent `json:"perf_latency_pct" yaml:"perf_latency_pct"`
}

// rawPercent accepts either a number or a numeric string.
type rawPercent struct {
	value Percent
}

func (r *rawPercent) UnmarshalJSON(data []byte) error {
	text := string(data)
	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return fmt.Errorf("invalid percentage %s: %w", text, err)
		}
		text = unquoted
	}
	p, err := ParsePercent(text)
	if err != nil {
		return err
	}
	r.value = p
	return nil
}

func (r *rawPercent) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: percentage must be a scalar", node.Line)
	}
	p, err := ParsePercent(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	r.value = p
	return nil
}
