package metrics

import "fmt"

// Metric names used in violations.
const (
	MetricCoverage = "coverage"
	MetricLatency  = "perf_latency_pct"
)

// Violation is one limit a report failed.
type Violation struct {
	Metric  string  `json:"metric"`
	Actual  Percent `json:"actual"`
	Limit   Percent `json:"limit"`
	Message string  `json:"message"`
}

// Verdict is the outcome of Check.
type Verdict struct {
	OK         bool        `json:"ok"`
	Report     Report      `json:"-"`
	Thresholds Thresholds  `json:"-"`
	Violations []Violation `json:"violations,omitempty"`
}

// Check compares r against th. Values equal to a limit pass.
func Check(r Report, th Thresholds) Verdict {
	v := Verdict{Report: r, Thresholds: th}

	if r.Coverage < th.CoverageMin {
		v.Violations = append(v.Violations, Violation{
			Metric:  MetricCoverage,
			Actual:  r.Coverage,
			Limit:   th.CoverageMin,
			Message: fmt.Sprintf("Coverage %s%% < target %s%%", r.Coverage, th.CoverageMin),
		})
	}
	if r.PerfLatencyPct > th.LatencyMaxPct {
		v.Violations = append(v.Violations, Violation{
			Metric:  MetricLatency,
			Actual:  r.PerfLatencyPct,
			Limit:   th.LatencyMaxPct,
			Message: fmt.Sprintf("Perf latency delta %s%% > %s%%", r.PerfLatencyPct, th.LatencyMaxPct),
		})
	}

	v.OK = len(v.Violations) == 0
	return v
}

// Summary is the one-line text form of a passing verdict.
func (v Verdict) Summary() string {
	return fmt.Sprintf("OK - coverage=%s%%, perf_latency=%s%% (targets: >= %s%%, <= %s%%)",
		v.Report.Coverage, v.Report.PerfLatencyPct, v.Thresholds.CoverageMin, v.Thresholds.LatencyMaxPct)
}
