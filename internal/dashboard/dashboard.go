// Package dashboard renders recent metrics history as a JSON series for
// charting.
package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/trisynk/internal/canonical"
	"github.com/roach88/trisynk/internal/history"
)

// SeriesLimit is the maximum number of points kept on the dashboard.
const SeriesLimit = 100

// DefaultPath is where the CLI writes the dashboard.
const DefaultPath = "reports/dashboard/metrics_dashboard.json"

// Point is one history entry on the dashboard.
type Point struct {
	ID             string
	Seq            int64
	Timestamp      time.Time
	Coverage       string
	PerfLatencyPct string
}

// Dashboard is the rendered series, oldest first.
type Dashboard struct {
	Series []Point
}

// Build keeps the last SeriesLimit entries. Entries must already be in
// ascending seq order, as history.Store.Recent returns them.
func Build(entries []history.Entry) Dashboard {
	if len(entries) > SeriesLimit {
		entries = entries[len(entries)-SeriesLimit:]
	}

	d := Dashboard{Series: make([]Point, 0, len(entries))}
	for _, e := range entries {
		d.Series = append(d.Series, Point{
			ID:             e.ID,
			Seq:            e.Seq,
			Timestamp:      e.RecordedAt.UTC(),
			Coverage:       e.Report.Coverage.String(),
			PerfLatencyPct: e.Report.PerfLatencyPct.String(),
		})
	}
	return d
}

// Marshal renders d as canonical JSON. Percentages are decimal strings.
func Marshal(d Dashboard) ([]byte, error) {
	series := make([]any, len(d.Series))
	for i, p := range d.Series {
		series[i] = map[string]any{
			"id":               p.ID,
			"seq":              p.Seq,
			"timestamp":        p.Timestamp.Format(time.RFC3339Nano),
			"coverage":         p.Coverage,
			"perf_latency_pct": p.PerfLatencyPct,
		}
	}
	return canonical.Marshal(map[string]any{"series": series})
}

// Write renders d to path, creating parent directories.
func Write(path string, d Dashboard) error {
	data, err := Marshal(d)
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dashboard directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}
	return nil
}
