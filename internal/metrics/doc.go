// Package metrics implements the coverage and performance guard rail.
//
// A Report carries the two numbers CI produces for a build: statement
// coverage and the latency delta of the benchmark against its baseline,
// both in percent. Check compares a Report against Thresholds and returns a
// Verdict listing every violated limit.
//
// Percentages are parsed once at the boundary into Percent, an integer count
// of basis points, so comparisons are exact and canonical output never
// carries floats.
//
// Thresholds are configured in CUE. The embedded schema supplies defaults
// (coverage >= 85%, latency delta <= 5%) and rejects unknown fields and
// out-of-range values.
package metrics
