package metrics

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed thresholds.cue
var thresholdsSchema string

// Thresholds bound an acceptable Report.
type Thresholds struct {
	CoverageMin   Percent
	LatencyMaxPct Percent
}

// DefaultThresholds returns the gate used when no configuration is given.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CoverageMin:   85_00,
		LatencyMaxPct: 5_00,
	}
}

// LoadThresholds reads a CUE thresholds file. Omitted fields take the
// schema defaults.
func LoadThresholds(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Thresholds{}, &LoadError{Code: ErrCodeMissingFile, Path: path, Message: "missing thresholds file"}
	}
	if err != nil {
		return Thresholds{}, &LoadError{Code: ErrCodeInvalidThresholds, Path: path, Message: "failed to read thresholds file", Err: err}
	}

	th, err := ParseThresholds(data, path)
	if err != nil {
		return Thresholds{}, &LoadError{Code: ErrCodeInvalidThresholds, Path: path, Message: "invalid thresholds", Err: err}
	}
	return th, nil
}

// ParseThresholds unifies CUE source with the embedded schema.
// filename is used only in error positions.
func ParseThresholds(src []byte, filename string) (Thresholds, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(thresholdsSchema, cue.Filename("thresholds.cue"))
	if err := schema.Err(); err != nil {
		return Thresholds{}, fmt.Errorf("compile schema: %w", err)
	}

	cfg := ctx.CompileBytes(src, cue.Filename(filename))
	if err := cfg.Err(); err != nil {
		return Thresholds{}, fmt.Errorf("compile %s: %s", filename, cueerrors.Details(err, nil))
	}

	v := schema.LookupPath(cue.ParsePath("#Thresholds")).Unify(cfg)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Thresholds{}, fmt.Errorf("validate %s: %s", filename, cueerrors.Details(err, nil))
	}

	coverage, err := lookupPercent(v, "coverage_min")
	if err != nil {
		return Thresholds{}, err
	}
	latency, err := lookupPercent(v, "latency_max_pct")
	if err != nil {
		return Thresholds{}, err
	}

	return Thresholds{CoverageMin: coverage, LatencyMaxPct: latency}, nil
}

func lookupPercent(v cue.Value, field string) (Percent, error) {
	fv, _ := v.LookupPath(cue.ParsePath(field)).Default()
	f, err := fv.Float64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	p, err := PercentFromFloat(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return p, nil
}
