package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/trisynk/internal/demo"
)

// OpResult is the JSON payload for the operation commands.
type OpResult struct {
	Op     string `json:"op"`
	Result any    `json:"result"`
	Inputs int    `json:"inputs"`
}

// AccumulateOptions holds flags for the accumulate command.
type AccumulateOptions struct {
	*RootOptions
	Workload int
}

// NewAccumulateCommand creates the accumulate command.
func NewAccumulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AccumulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "accumulate [--] <int>...",
		Short: "Sum 64-bit integers with wrap-around",
		Long: `Sum the given signed 64-bit integers left to right. Overflow wraps
around (two's complement). No arguments sums to 0.

Put negative numbers after "--" so they are not read as flags.

Examples:
  trisynk accumulate 1 2 3
  trisynk accumulate -- -5 5
  trisynk accumulate --workload 10000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccumulate(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Workload, "workload", 0, "sum 0..n-1 instead of arguments")

	return cmd
}

func runAccumulate(opts *AccumulateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Workload > 0 && len(args) > 0 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "--workload cannot be combined with arguments", nil)
	}

	values := demo.SequentialInput(opts.Workload)
	if opts.Workload <= 0 {
		var err error
		values, err = parseInt64s(args)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid integer argument", err)
		}
	}

	formatter.VerboseLog("accumulating %d value(s)", len(values))
	return outputOp(formatter, demo.OpAccumulate, demo.Args{Values: values}, len(values))
}

// NewIncrementCommand creates the increment command.
func NewIncrementCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "increment [--] <int>",
		Short: "Print the successor of a 64-bit integer",
		Long: `Print value+1. 9223372036854775807 wraps to -9223372036854775808.

Examples:
  trisynk increment 41
  trisynk increment -- -1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			value, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid integer argument", err)
			}
			return outputOp(formatter, demo.OpIncrement, demo.Args{Value: value}, 1)
		},
	}

	return cmd
}

// ConsumeSliceOptions holds flags for the consume-slice command.
type ConsumeSliceOptions struct {
	*RootOptions
	Text string
	File string
}

// NewConsumeSliceCommand creates the consume-slice command.
func NewConsumeSliceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConsumeSliceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "consume-slice [<byte>...]",
		Short: "Print the length of a byte sequence",
		Long: `Print the number of bytes in the input. Bytes come from decimal
arguments (0-255), from --text as UTF-8, or from the contents of --file.

Examples:
  trisynk consume-slice 1 2 3 4
  trisynk consume-slice --text "héllo"
  trisynk consume-slice --file go.mod`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsumeSlice(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Text, "text", "", "use the UTF-8 bytes of this text")
	cmd.Flags().StringVar(&opts.File, "file", "", "use the contents of this file")
	cmd.MarkFlagsMutuallyExclusive("text", "file")

	return cmd
}

func runConsumeSlice(opts *ConsumeSliceOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if (opts.Text != "" || opts.File != "") && len(args) > 0 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "byte arguments cannot be combined with --text or --file", nil)
	}

	var data []byte
	switch {
	case opts.File != "":
		b, err := os.ReadFile(opts.File)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("cannot read %s", opts.File), err)
		}
		data = b
	case opts.Text != "":
		data = []byte(opts.Text)
	default:
		b, err := parseBytes(args)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid byte argument", err)
		}
		data = b
	}

	return outputOp(formatter, demo.OpConsumeSlice, demo.Args{Bytes: data}, len(data))
}

func outputOp(formatter *OutputFormatter, op string, args demo.Args, inputs int) error {
	res, err := demo.Invoke(op, args)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "operation failed", err)
	}

	if formatter.Format == "json" {
		var value any = res.Int
		if res.Unsigned() {
			value = res.Count
		}
		return formatter.Success(OpResult{Op: op, Result: value, Inputs: inputs})
	}
	return formatter.Success(res.String())
}

func parseInt64s(args []string) ([]int64, error) {
	values := make([]int64, 0, len(args))
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func parseBytes(args []string) ([]byte, error) {
	data := make([]byte, 0, len(args))
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		data = append(data, byte(v))
	}
	return data, nil
}
