package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Percent is a percentage in basis points: 8750 is 87.50%.
type Percent int64

// MaxPercentMagnitude bounds accepted percentages to +/- one billion percent,
// well inside the int64 basis-point range.
const MaxPercentMagnitude = 1e9

// PercentFromFloat rounds f (in percent) to the nearest basis point. Values
// that are not finite or exceed MaxPercentMagnitude are rejected.
func PercentFromFloat(f float64) (Percent, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("percentage %v is not finite", f)
	}
	if math.Abs(f) > MaxPercentMagnitude {
		return 0, fmt.Errorf("percentage %v out of range (max magnitude %v)", f, float64(MaxPercentMagnitude))
	}
	return Percent(math.Round(f * 100)), nil
}

// ParsePercent parses a decimal percentage such as "87.5" or "5".
// A trailing "%" is accepted.
func ParsePercent(s string) (Percent, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	p, err := PercentFromFloat(f)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	return p, nil
}

// Float64 returns p in percent.
func (p Percent) Float64() float64 {
	return float64(p) / 100
}

// String renders p with two decimals, e.g. "87.50".
func (p Percent) String() string {
	sign := ""
	v := uint64(p)
	if p < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes p as a decimal number in percent.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}
