package history

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/trisynk/internal/metrics"
	"github.com/roach88/trisynk/internal/testutil"
)

func TestExportJSONL(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, metrics.Report{Coverage: 8750, PerfLatencyPct: 125})
	require.NoError(t, err)
	_, err = s.Append(ctx, metrics.Report{Coverage: 9000, PerfLatencyPct: -50})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSONL(ctx, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t,
		`{"timestamp":"2024-01-01T00:00:01Z","id":"entry-0001","seq":1,"coverage":87.5,"perf_latency_pct":1.25}`,
		lines[0])
	assert.JSONEq(t,
		`{"timestamp":"2024-01-01T00:00:02Z","id":"entry-0002","seq":2,"coverage":90,"perf_latency_pct":-0.5}`,
		lines[1])
}

func TestImportJSONL(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	input := strings.Join([]string{
		`{"timestamp": "2023-05-01T10:00:00.123456+00:00", "coverage": 88.1, "perf_latency_pct": 2.0}`,
		``,
		`not json`,
		`{"timestamp": "yesterday", "coverage": 86}`,
		`{"coverage": "91", "perf_latency_pct": 0.5}`,
	}, "\n")

	n, err := s.ImportJSONL(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, metrics.Percent(8810), entries[0].Report.Coverage)
	assert.True(t, time.Date(2023, time.May, 1, 10, 0, 0, 123456000, time.UTC).Equal(entries[0].RecordedAt))

	// Unparseable timestamp falls back to the store clock.
	assert.True(t, testutil.Epoch.Add(time.Second).Equal(entries[1].RecordedAt))
	assert.Equal(t, []string{"perf_latency_pct"}, entries[1].Report.Missing)

	assert.Equal(t, metrics.Percent(9100), entries[2].Report.Coverage)
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := createTestStore(t)
	ctx := context.Background()
	for _, cov := range []metrics.Percent{8500, 8620, 9999} {
		_, err := src.Append(ctx, metrics.Report{Coverage: cov, PerfLatencyPct: 300})
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, src.ExportJSONL(ctx, &buf))

	dst := createTestStore(t)
	n, err := dst.ImportJSONL(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want, err := src.Recent(ctx, 0)
	require.NoError(t, err)
	got, err := dst.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Report, got[i].Report)
		assert.True(t, want[i].RecordedAt.Equal(got[i].RecordedAt))
	}
}

func TestImportJSONL_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	input := `{"timestamp": "2024-03-01T10:00:00Z", "coverage": 88, "perf_latency_pct": 2}
{"timestamp": "2024-03-02T10:00:00Z", "coverage": 89, "perf_latency_pct": 1}
`

	n, err := s.ImportJSONL(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.ImportJSONL(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImportJSONL_IdempotentWithoutTimestamps(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	input := `{"coverage": 88, "perf_latency_pct": 2}
{"timestamp": "not a time", "coverage": 89, "perf_latency_pct": 1}
{"timestamp": "2024-03-02T10:00:00Z", "coverage": 90, "perf_latency_pct": 1}
`

	n, err := s.ImportJSONL(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// The store clock has moved on; untimed lines must still match.
	n, err = s.ImportJSONL(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestImportJSONL_ReimportOwnExport(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.ImportJSONL(ctx, strings.NewReader(`{"coverage": 88, "perf_latency_pct": 2}`+"\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSONL(ctx, &buf))

	n, err := s.ImportJSONL(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
