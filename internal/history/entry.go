package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/roach88/trisynk/internal/canonical"
	"github.com/roach88/trisynk/internal/metrics"
)

// DomainEntry is the hash domain for entry content hashes.
const DomainEntry = "trisynk/history-entry/v1"

// ErrDuplicateEntry is returned when an entry with the same recording time
// and values is already stored.
var ErrDuplicateEntry = errors.New("duplicate history entry")

// Entry is one recorded report.
type Entry struct {
	ID         string
	Seq        int64
	RecordedAt time.Time
	Report     metrics.Report
	Hash       string // content hash, see ContentHash
}

// ContentHash identifies a report recorded at a given time. Missing-field
// markers are not part of the identity.
func ContentHash(r metrics.Report, at time.Time) (string, error) {
	return contentHash(r, at.UTC().Format(time.RFC3339Nano))
}

// untimedHash identifies an imported report that carried no timestamp of
// its own. The store clock time is left out so re-imports match.
func untimedHash(r metrics.Report) (string, error) {
	return contentHash(r, "")
}

func contentHash(r metrics.Report, recordedAt string) (string, error) {
	return canonical.Hash(DomainEntry, map[string]any{
		"recorded_at":     recordedAt,
		"coverage_bp":     int64(r.Coverage),
		"perf_latency_bp": int64(r.PerfLatencyPct),
	})
}

// Append records r at the current clock time.
func (s *Store) Append(ctx context.Context, r metrics.Report) (Entry, error) {
	return s.insert(ctx, r, s.clock.Now())
}

// AppendAt records r with an explicit recording time. Used when importing
// history produced elsewhere. Returns ErrDuplicateEntry if the same report
// was already recorded at that time.
func (s *Store) AppendAt(ctx context.Context, r metrics.Report, at time.Time) (Entry, error) {
	return s.insert(ctx, r, at)
}

func (s *Store) insert(ctx context.Context, r metrics.Report, at time.Time) (Entry, error) {
	hash, err := ContentHash(r, at)
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: %w", err)
	}
	return s.insertHashed(ctx, r, at, hash)
}

func (s *Store) insertHashed(ctx context.Context, r metrics.Report, at time.Time, hash string) (Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: %w", err)
	}
	defer tx.Rollback()

	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(seq) FROM metrics_history`).Scan(&last); err != nil {
		return Entry{}, fmt.Errorf("append entry: read seq: %w", err)
	}

	var existing string
	recordedAt := at.UTC().Format(time.RFC3339Nano)
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM metrics_history
		WHERE content_hash = ?
		   OR (recorded_at = ? AND coverage_bp = ? AND perf_latency_bp = ?)
		LIMIT 1
	`, hash, recordedAt, int64(r.Coverage), int64(r.PerfLatencyPct)).Scan(&existing)
	switch {
	case err == nil:
		return Entry{}, fmt.Errorf("%w: matches %s", ErrDuplicateEntry, existing)
	case !errors.Is(err, sql.ErrNoRows):
		return Entry{}, fmt.Errorf("append entry: check duplicate: %w", err)
	}

	e := Entry{
		ID:         s.ids.NewID(),
		Seq:        last.Int64 + 1,
		RecordedAt: at.UTC(),
		Report:     r,
		Hash:       hash,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO metrics_history
		(id, seq, recorded_at, coverage_bp, perf_latency_bp, missing, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.Seq,
		recordedAt,
		int64(r.Coverage),
		int64(r.PerfLatencyPct),
		strings.Join(r.Missing, ","),
		e.Hash,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("append entry: commit: %w", err)
	}

	s.logger.Debug("metrics entry recorded",
		"id", e.ID,
		"seq", e.Seq,
		"coverage", r.Coverage.String(),
		"perf_latency_pct", r.PerfLatencyPct.String(),
	)
	return e, nil
}

// Recent returns the last limit entries in ascending seq order.
// A limit <= 0 returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, seq, recorded_at, coverage_bp, perf_latency_bp, missing, content_hash
		FROM metrics_history
		ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	slices.Reverse(entries)
	return entries, nil
}

// Count returns the number of recorded entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM metrics_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e          Entry
		recordedAt string
		coverage   int64
		latency    int64
		missing    string
	)
	if err := rows.Scan(&e.ID, &e.Seq, &recordedAt, &coverage, &latency, &missing, &e.Hash); err != nil {
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: parse recorded_at: %w", e.ID, err)
	}
	e.RecordedAt = at
	e.Report = metrics.Report{
		Coverage:       metrics.Percent(coverage),
		PerfLatencyPct: metrics.Percent(latency),
	}
	if missing != "" {
		e.Report.Missing = strings.Split(missing, ",")
	}
	return e, nil
}
