package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/trisynk/internal/demo"
	"github.com/roach88/trisynk/internal/testutil"
)

// Harness executes scenarios with a deterministic logical clock.
type Harness struct {
	clock  *testutil.DeterministicClock
	logger *slog.Logger
}

// New creates a Harness. A nil logger discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{
		clock:  testutil.NewDeterministicClock(),
		logger: logger,
	}
}

// Run executes scenario with a fresh discarding Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes every step, then evaluates the assertions. The returned
// error is reserved for scenarios that cannot execute at all; failed
// expectations are reported in the Result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	h.clock.Reset()
	result := NewResult()

	for i, step := range scenario.Steps {
		args, err := step.Args()
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}

		out, err := demo.Invoke(step.Op, args)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}

		seq := h.clock.Next()
		result.AddTrace(seq, step.Op, out.String())
		h.logger.Debug("step executed",
			"scenario", scenario.Name,
			"seq", seq,
			"op", step.Op,
			"result", out.String(),
		)

		if step.Expect == nil {
			continue
		}
		if got := resultValue(out); got != *step.Expect {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected %d, got %s", i, step.Op, *step.Expect, out))
		}
	}

	for _, msg := range EvaluateAssertions(result.Trace, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"steps", len(result.Trace),
		"pass", result.Pass,
	)
	return result, nil
}

// resultValue maps a registry result onto the int64 expect domain.
func resultValue(r demo.Result) int64 {
	if r.Unsigned() {
		return int64(r.Count)
	}
	return r.Int
}
