package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Pass(t *testing.T) {
	v := Check(Report{Coverage: 9000, PerfLatencyPct: 100}, DefaultThresholds())
	assert.True(t, v.OK)
	assert.Empty(t, v.Violations)
	assert.Equal(t, "OK - coverage=90.00%, perf_latency=1.00% (targets: >= 85.00%, <= 5.00%)", v.Summary())
}

func TestCheck_BoundariesPass(t *testing.T) {
	v := Check(Report{Coverage: 8500, PerfLatencyPct: 500}, DefaultThresholds())
	assert.True(t, v.OK)
}

func TestCheck_CoverageBelowTarget(t *testing.T) {
	v := Check(Report{Coverage: 8499, PerfLatencyPct: 0}, DefaultThresholds())
	assert.False(t, v.OK)
	require.Len(t, v.Violations, 1)
	assert.Equal(t, MetricCoverage, v.Violations[0].Metric)
	assert.Equal(t, "Coverage 84.99% < target 85.00%", v.Violations[0].Message)
}

func TestCheck_LatencyOverBudget(t *testing.T) {
	v := Check(Report{Coverage: 9900, PerfLatencyPct: 501}, DefaultThresholds())
	assert.False(t, v.OK)
	require.Len(t, v.Violations, 1)
	assert.Equal(t, MetricLatency, v.Violations[0].Metric)
	assert.Equal(t, Percent(501), v.Violations[0].Actual)
	assert.Equal(t, Percent(500), v.Violations[0].Limit)
}

func TestCheck_BothViolationsReported(t *testing.T) {
	v := Check(Report{Coverage: 1000, PerfLatencyPct: 9000}, Thresholds{CoverageMin: 5000, LatencyMaxPct: 0})
	assert.False(t, v.OK)
	require.Len(t, v.Violations, 2)
	assert.Equal(t, MetricCoverage, v.Violations[0].Metric)
	assert.Equal(t, MetricLatency, v.Violations[1].Metric)
}
