package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"churchsite/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB = (*sql.DB)(nil)
	_ SQLDB = (*TimedDB)(nil)
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB to log slow statements and feed the admin dashboard.
// Statements are grouped by verb and table ("SELECT event"), never by their
// arguments, so the collector does not hold visitor data.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// A non-positive slowMs uses DefaultSlowQueryMs; collector may be nil.
// PRE: db is a valid database connection
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowMs int) *TimedDB {
	if slowMs <= 0 {
		slowMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: float64(slowMs),
	}
}

func (t *TimedDB) observe(label string, start time.Time, err error) {
	ms := float64(time.Since(start).Microseconds()) / 1000.0

	ev := log.Debug()
	if ms >= t.threshold {
		ev = log.Warn()
	}
	ev = ev.Str("statement", label).Float64("duration_ms", ms)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		ev = ev.Err(err)
	}
	if ms >= t.threshold {
		ev.Msg("slow_query")
	} else {
		ev.Msg("query")
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       label,
			DurationMs: ms,
			Timestamp:  start,
		})
	}
}

// ExecContext times sql.DB.ExecContext.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(statementLabel(query), start, err)
	return result, err
}

// QueryContext times sql.DB.QueryContext up to the first row being available.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(statementLabel(query), start, err)
	return rows, err
}

// QueryRowContext times sql.DB.QueryRowContext. Errors surface on Scan.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(statementLabel(query), start, row.Err())
	return row
}

// BeginTx times acquiring a transaction, which includes waiting on the write lock.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe("BEGIN", start, err)
	return tx, err
}

// statementLabel reduces SQL to its verb and first table:
// "SELECT id FROM event WHERE ..." becomes "SELECT event".
func statementLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "EMPTY"
	}
	verb := strings.ToUpper(fields[0])
	var marker string
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT", "REPLACE":
		marker = "INTO"
	case "UPDATE":
		return labelWith(verb, fields, 1)
	default:
		return verb
	}
	for i := 1; i < len(fields)-1; i++ {
		if strings.EqualFold(fields[i], marker) {
			return labelWith(verb, fields, i+1)
		}
	}
	return verb
}

func labelWith(verb string, fields []string, i int) string {
	if i >= len(fields) {
		return verb
	}
	table := strings.Trim(fields[i], "`\"(),;")
	if j := strings.IndexByte(table, '('); j >= 0 {
		table = table[:j]
	}
	return verb + " " + strings.ToLower(table)
}
