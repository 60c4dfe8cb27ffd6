package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/trisynk/internal/dashboard"
	"github.com/roach88/trisynk/internal/history"
)

// DashboardOptions holds flags for the dashboard command.
type DashboardOptions struct {
	*RootOptions
	Database string
	Output   string
}

// DashboardResult is the JSON payload of the dashboard command.
type DashboardResult struct {
	Path   string `json:"path"`
	Points int    `json:"points"`
}

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DashboardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render the last 100 history entries as dashboard JSON",
		Long: `Render the most recent metrics history entries (up to 100) as a JSON
series for charting. A missing database yields an empty series.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", history.DefaultPath, "history database path")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", dashboard.DefaultPath, "dashboard output path")

	return cmd
}

func runDashboard(opts *DashboardOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var entries []history.Entry
	if _, err := os.Stat(opts.Database); err == nil {
		st, err := openHistory(opts.Database)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open history database", err)
		}
		defer closeHistory(st)

		entries, err = st.Recent(commandContext(cmd), dashboard.SeriesLimit)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read history", err)
		}
	} else {
		formatter.VerboseLog("history database %s not found, writing empty series", opts.Database)
	}

	d := dashboard.Build(entries)
	if err := dashboard.Write(opts.Output, d); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to write dashboard", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(DashboardResult{Path: opts.Output, Points: len(d.Series)})
	}
	fmt.Fprintf(formatter.Writer, "[dashboard] wrote %s (%d point(s))\n", opts.Output, len(d.Series))
	return nil
}
