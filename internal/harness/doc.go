// Package harness runs YAML scenarios against the trisynk operations.
//
// # Scenario Format
//
//	name: accumulate_small
//	description: "Sum of a short sequence"
//	steps:
//	  - op: accumulate
//	    values: [1, 2, 3]
//	    expect: 6
//	  - op: accumulate
//	    workload: 10000
//	    expect: 49995000
//	  - op: increment
//	    value: 41
//	    expect: 42
//	  - op: consume_slice
//	    bytes: [1, 2, 3, 4]
//	    expect: 4
//	assertions:
//	  - type: trace_count
//	    op: accumulate
//	    count: 2
//	  - type: trace_order
//	    ops: [accumulate, increment]
//
// Steps run in file order. Each step is dispatched through demo.Invoke and
// appended to the trace with a logical seq starting at 1. A step whose
// result differs from expect marks the scenario failed but does not stop
// the remaining steps.
//
// # Golden Files
//
// RunWithGolden compares the canonical JSON trace against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
