package cli

import (
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"github.com/roach88/trisynk/internal/demo"
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	*RootOptions
	Size int
}

// BenchResult is the outcome of one benchmark run.
type BenchResult struct {
	Size        int     `json:"size"`
	Sum         int64   `json:"sum"`
	Iterations  int     `json:"iterations"`
	NsPerOp     int64   `json:"ns_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
	MBPerSec    float64 `json:"mb_per_sec"`
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark accumulate over a sequential workload",
		Long: `Benchmark accumulate over 0..size-1 using the Go benchmark runner.
The input is built once; each iteration sums it once.

Examples:
  trisynk bench
  trisynk bench --size 1000000 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Size, "size", demo.BenchmarkWorkloadSize, "number of sequential integers to sum")

	return cmd
}

func runBench(opts *BenchOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Size < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("size must be non-negative, got %d", opts.Size), nil)
	}

	data := demo.SequentialInput(opts.Size)
	work := demo.AccumulateWorkloadOf(data)

	formatter.VerboseLog("benchmarking accumulate over %d value(s)", len(data))
	res := testing.Benchmark(func(b *testing.B) {
		b.ReportAllocs()
		b.SetBytes(int64(len(data)) * 8)
		for i := 0; i < b.N; i++ {
			work()
		}
	})

	result := BenchResult{
		Size:        opts.Size,
		Sum:         demo.Accumulate(data),
		Iterations:  res.N,
		NsPerOp:     res.NsPerOp(),
		AllocsPerOp: res.AllocsPerOp(),
	}
	if res.T > 0 {
		result.MBPerSec = float64(res.Bytes) * float64(res.N) / 1e6 / res.T.Seconds()
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "accumulate/%d\t%d\t%d ns/op\t%.2f MB/s\t%d allocs/op\n",
		result.Size, result.Iterations, result.NsPerOp, result.MBPerSec, result.AllocsPerOp)
	fmt.Fprintf(w, "sum = %d\n", result.Sum)
	return nil
}
