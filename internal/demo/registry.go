package demo

import (
	"errors"
	"fmt"
	"sort"
)

// Operation names accepted by Invoke.
const (
	OpAccumulate   = "accumulate"
	OpIncrement    = "increment"
	OpConsumeSlice = "consume_slice"
)

// ErrUnknownOp is returned by Invoke for names not in the registry.
var ErrUnknownOp = errors.New("unknown operation")

// Args carries the inputs for a dispatched operation. Each operation reads
// only the field it needs.
type Args struct {
	Values []int64 // accumulate
	Value  int64   // increment
	Bytes  []byte  // consume_slice
}

// Result is the value produced by a dispatched operation. ConsumeSlice
// results are unsigned and reported through Count.
type Result struct {
	Op    string
	Int   int64
	Count uint
}

// Unsigned reports whether the result lives in Count.
func (r Result) Unsigned() bool {
	return r.Op == OpConsumeSlice
}

// String renders the result value without its operation name.
func (r Result) String() string {
	if r.Unsigned() {
		return fmt.Sprintf("%d", r.Count)
	}
	return fmt.Sprintf("%d", r.Int)
}

type handler func(Args) Result

var registry = map[string]handler{
	OpAccumulate: func(a Args) Result {
		return Result{Op: OpAccumulate, Int: Accumulate(a.Values)}
	},
	OpIncrement: func(a Args) Result {
		return Result{Op: OpIncrement, Int: Increment(a.Value)}
	},
	OpConsumeSlice: func(a Args) Result {
		return Result{Op: OpConsumeSlice, Count: ConsumeSlice(a.Bytes)}
	},
}

// Invoke dispatches op with args. Only an unknown op can fail.
func Invoke(op string, args Args) (Result, error) {
	h, ok := registry[op]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	return h(args), nil
}

// Ops returns the registered operation names in sorted order.
func Ops() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
