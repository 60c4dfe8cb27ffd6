package harness

import (
	"fmt"
	"strings"
)

// EvaluateAssertions checks every assertion against trace and returns one
// message per failure.
func EvaluateAssertions(trace []TraceEvent, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceCount:
			err = assertTraceCount(trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d] %s: %v", i, a.Type, err))
		}
	}
	return failures
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	n := 0
	for _, ev := range trace {
		if ev.Op == a.Op {
			n++
		}
	}
	if n != a.Count {
		return fmt.Errorf("expected %s %d time(s), found %d", a.Op, a.Count, n)
	}
	return nil
}

// assertTraceOrder requires a.Ops to appear as a subsequence of the trace.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(a.Ops) && ev.Op == a.Ops[next] {
			next++
		}
	}
	if next < len(a.Ops) {
		return fmt.Errorf("expected order [%s], missing %s after position %d",
			strings.Join(a.Ops, ", "), a.Ops[next], next)
	}
	return nil
}
