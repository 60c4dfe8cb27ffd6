package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/trisynk/internal/history"
	"github.com/roach88/trisynk/internal/metrics"
)

// MetricsOptions holds flags shared by the metrics subcommands.
type MetricsOptions struct {
	*RootOptions
	MetricsPath    string
	ThresholdsPath string
	Database       string
}

// CheckResult is the JSON payload of metrics check.
type CheckResult struct {
	OK             bool                `json:"ok"`
	Coverage       metrics.Percent     `json:"coverage"`
	PerfLatencyPct metrics.Percent     `json:"perf_latency_pct"`
	CoverageMin    metrics.Percent     `json:"coverage_min"`
	LatencyMaxPct  metrics.Percent     `json:"latency_max_pct"`
	Missing        []string            `json:"missing,omitempty"`
	Violations     []metrics.Violation `json:"violations,omitempty"`
}

// RecordResult is the JSON payload of metrics record.
type RecordResult struct {
	ID             string          `json:"id"`
	Seq            int64           `json:"seq"`
	RecordedAt     string          `json:"recorded_at"`
	Coverage       metrics.Percent `json:"coverage"`
	PerfLatencyPct metrics.Percent `json:"perf_latency_pct"`
}

// NewMetricsCommand creates the metrics command group.
func NewMetricsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MetricsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Gate and record coverage and benchmark latency",
		Long: `Check a metrics report against coverage and latency thresholds, and keep
a history of reports for the dashboard.

The report is JSON (or YAML by extension) with "coverage" and
"perf_latency_pct" fields in percent.`,
	}

	cmd.PersistentFlags().StringVar(&opts.MetricsPath, "metrics", metrics.DefaultReportPath, "metrics report path")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", history.DefaultPath, "history database path")

	check := &cobra.Command{
		Use:   "check",
		Short: "Fail when coverage or latency misses its threshold",
		Long: `Check the metrics report against thresholds.

Exit codes:
  0 - Report within thresholds
  1 - One or more thresholds violated
  2 - Command error (missing or malformed report or thresholds)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetricsCheck(opts, cmd)
		},
	}
	check.Flags().StringVar(&opts.ThresholdsPath, "thresholds", "", "CUE thresholds file (defaults: coverage >= 85, latency <= 5)")

	record := &cobra.Command{
		Use:           "record",
		Short:         "Append the metrics report to the history database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetricsRecord(opts, cmd)
		},
	}

	export := &cobra.Command{
		Use:           "export",
		Short:         "Write the history as JSON lines to stdout",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetricsExport(opts, cmd)
		},
	}

	importCmd := &cobra.Command{
		Use:           "import <history.jsonl>",
		Short:         "Append entries from a JSON lines history file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetricsImport(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(check, record, export, importCmd)
	return cmd
}

func runMetricsCheck(opts *MetricsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	report, err := metrics.LoadReport(opts.MetricsPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, metrics.ErrorCode(err), "failed to load metrics report", err)
	}
	if err := report.MissingError(); err != nil {
		slog.Warn("metrics report incomplete", "path", opts.MetricsPath, "error", err)
	}

	thresholds := metrics.DefaultThresholds()
	if opts.ThresholdsPath != "" {
		thresholds, err = metrics.LoadThresholds(opts.ThresholdsPath)
		if err != nil {
			return formatter.Fail(ExitCommandError, metrics.ErrorCode(err), "failed to load thresholds", err)
		}
	}

	verdict := metrics.Check(*report, thresholds)

	if formatter.Format == "json" {
		result := CheckResult{
			OK:             verdict.OK,
			Coverage:       report.Coverage,
			PerfLatencyPct: report.PerfLatencyPct,
			CoverageMin:    thresholds.CoverageMin,
			LatencyMaxPct:  thresholds.LatencyMaxPct,
			Missing:        report.Missing,
			Violations:     verdict.Violations,
		}
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, v := range verdict.Violations {
			fmt.Fprintf(formatter.Writer, "[metrics] %s\n", v.Message)
		}
		if verdict.OK {
			fmt.Fprintf(formatter.Writer, "[metrics] %s\n", verdict.Summary())
		}
	}

	if !verdict.OK {
		exitErr := NewExitError(ExitFailure, fmt.Sprintf("%s: %d threshold(s) violated", ErrCodeGateFailed, len(verdict.Violations)))
		exitErr.Reported = true
		return exitErr
	}
	return nil
}

func runMetricsRecord(opts *MetricsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	report, err := metrics.LoadReport(opts.MetricsPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, metrics.ErrorCode(err), "failed to load metrics report", err)
	}

	st, err := openHistory(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open history database", err)
	}
	defer closeHistory(st)

	entry, err := st.Append(commandContext(cmd), *report)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to record metrics", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RecordResult{
			ID:             entry.ID,
			Seq:            entry.Seq,
			RecordedAt:     entry.RecordedAt.Format(time.RFC3339Nano),
			Coverage:       report.Coverage,
			PerfLatencyPct: report.PerfLatencyPct,
		})
	}
	fmt.Fprintf(formatter.Writer, "[metrics-history] appended entry %d, coverage=%s perf=%s\n",
		entry.Seq, report.Coverage, report.PerfLatencyPct)
	return nil
}

func runMetricsExport(opts *MetricsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("history database not found: %s", opts.Database), nil)
	}

	st, err := openHistory(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open history database", err)
	}
	defer closeHistory(st)

	if err := st.ExportJSONL(commandContext(cmd), formatter.Writer); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to export history", err)
	}
	return nil
}

func runMetricsImport(opts *MetricsOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	f, err := os.Open(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("cannot open %s", path), err)
	}
	defer f.Close()

	st, err := openHistory(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open history database", err)
	}
	defer closeHistory(st)

	n, err := st.ImportJSONL(commandContext(cmd), f)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to import history", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]int{"imported": n})
	}
	fmt.Fprintf(formatter.Writer, "[metrics-history] imported %d entr%s\n", n, plural(n, "y", "ies"))
	return nil
}

// openHistory opens the store, creating the database directory if needed.
func openHistory(path string) (*history.Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	return history.Open(path, history.WithLogger(slog.Default()))
}

func closeHistory(st *history.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
