// Package history provides SQLite-backed storage for recorded metrics reports.
//
// Every call to Append stores one Entry with:
//   - a UUIDv7 identifier
//   - a seq that is strictly greater than every earlier entry's
//   - the wall-clock time it was recorded, in UTC
//
// Reads always order by seq so the dashboard series is stable regardless of
// clock skew between CI runners.
//
// ExportJSONL and ImportJSONL exchange entries with the line-delimited JSON
// history format, one object per line with a "timestamp" field alongside the
// report fields.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package history
