package history

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/roach88/trisynk/internal/metrics"
)

// jsonlEntry is the line format of the exchanged history log.
type jsonlEntry struct {
	Timestamp      string          `json:"timestamp"`
	ID             string          `json:"id,omitempty"`
	Seq            int64           `json:"seq,omitempty"`
	Coverage       metrics.Percent `json:"coverage"`
	PerfLatencyPct metrics.Percent `json:"perf_latency_pct"`
}

// ExportJSONL writes every entry, oldest first, one JSON object per line.
func (s *Store) ExportJSONL(ctx context.Context, w io.Writer) error {
	entries, err := s.Recent(ctx, 0)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	for _, e := range entries {
		line := jsonlEntry{
			Timestamp:      e.RecordedAt.Format(time.RFC3339Nano),
			ID:             e.ID,
			Seq:            e.Seq,
			Coverage:       e.Report.Coverage,
			PerfLatencyPct: e.Report.PerfLatencyPct,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("export entry %s: %w", e.ID, err)
		}
	}
	return nil
}

// ImportJSONL appends every parseable line of r and returns how many were
// imported. Blank and malformed lines are skipped, as are lines already
// present in the store, so importing the same log twice is a no-op. Lines
// without a usable timestamp are stamped with the store clock; their identity
// is their values alone, so two such lines with equal values import once.
func (s *Store) ImportJSONL(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	imported := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		report, err := metrics.ParseReport(line, metrics.FormatJSON)
		if err != nil {
			s.logger.Warn("skipping malformed history line", "line", lineNo, "error", err)
			continue
		}

		if at, ok := lineTimestamp(line); ok {
			_, err = s.AppendAt(ctx, *report, at)
		} else {
			_, err = s.appendUntimed(ctx, *report)
		}
		if err != nil {
			if errors.Is(err, ErrDuplicateEntry) {
				s.logger.Debug("skipping duplicate history line", "line", lineNo)
				continue
			}
			return imported, fmt.Errorf("import line %d: %w", lineNo, err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, fmt.Errorf("read history: %w", err)
	}
	return imported, nil
}

func lineTimestamp(line []byte) (time.Time, bool) {
	var stamp struct {
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(line, &stamp); err != nil || stamp.Timestamp == "" {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339Nano, stamp.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

func (s *Store) appendUntimed(ctx context.Context, r metrics.Report) (Entry, error) {
	hash, err := untimedHash(r)
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: %w", err)
	}
	return s.insertHashed(ctx, r, s.clock.Now(), hash)
}
