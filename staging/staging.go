/*
Package staging reads whole tables from the staging database into frames.

PURPOSE:
  The pipeline treats the staging database as a query-by-table-name read:
  no predicates, no pagination, one full rectangular snapshot per table.
  This package owns that read, the driver-type sniffing that assigns a
  column kind to each result column, and the caller-supplied kind hints
  that override sniffing (e.g. forcing a status column to Category).

DRIVERS:
  Production uses the pgx stdlib driver against PostgreSQL. Tests use
  mattn/go-sqlite3 with an in-memory database; the reader only depends on
  database/sql, so the dialect difference never reaches the pipeline.

FAILURE POLICY:
  Connection failures map to recon.ErrConnection, read/query failures to
  recon.ErrReadFailure (as *recon.ReadError wrapping the cause). No
  retries: a failed read aborts the run at the caller's top-level
  boundary.
*/
package staging

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/allstake/payrecon/frame"
	"github.com/allstake/payrecon/recon"
)

// Reader reads full tables from a staging database.
type Reader struct {
	db *sql.DB
}

// Open establishes the database session and verifies it with a ping.
// The driver name must already be registered (blank import).
func Open(ctx context.Context, driver, dsn string) (*Reader, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recon.ErrConnection, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", recon.ErrConnection, err)
	}
	return &Reader{db: db}, nil
}

// NewReader wraps an existing connection. The caller keeps ownership of
// its lifecycle.
func NewReader(db *sql.DB) *Reader { return &Reader{db: db} }

// Close releases the database session.
func (r *Reader) Close() error { return r.db.Close() }

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ReadTable reads the full contents of the named table. hints overrides
// the sniffed kind per column; a Category hint marks an enumerated text
// column. Unknown hint columns are ignored.
func (r *Reader) ReadTable(ctx context.Context, table string, hints map[string]frame.Kind) (frame.Frame, error) {
	if !identPattern.MatchString(table) {
		return frame.Frame{}, &recon.ReadError{
			Source: "table " + table,
			Err:    fmt.Errorf("invalid table name"),
		}
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return frame.Frame{}, &recon.ReadError{Source: "table " + table, Err: err}
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return frame.Frame{}, &recon.ReadError{Source: "table " + table, Err: err}
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return frame.Frame{}, &recon.ReadError{Source: "table " + table, Err: err}
	}

	kinds := make([]frame.Kind, len(names))
	for i, name := range names {
		if k, ok := hints[name]; ok {
			kinds[i] = k
			continue
		}
		kinds[i] = sniffKind(types[i].DatabaseTypeName())
	}

	cells := make([][]any, len(names))
	scan := make([]any, len(names))
	for rows.Next() {
		vals := make([]any, len(names))
		for i := range vals {
			scan[i] = &vals[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return frame.Frame{}, &recon.ReadError{Source: "table " + table, Err: err}
		}
		for i, v := range vals {
			cells[i] = append(cells[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return frame.Frame{}, &recon.ReadError{Source: "table " + table, Err: err}
	}

	cols := make([]frame.Series, len(names))
	for i, name := range names {
		cols[i] = buildSeries(name, kinds[i], cells[i])
	}
	f, err := frame.New(cols...)
	if err != nil {
		return frame.Frame{}, &recon.ReadError{Source: "table " + table, Err: err}
	}
	return f, nil
}

// sniffKind maps a driver-reported column type to a frame kind. Anything
// unrecognized reads as text; the normalizers repair from there.
func sniffKind(dbType string) frame.Kind {
	t := strings.ToUpper(dbType)
	switch {
	case strings.Contains(t, "INT"),
		strings.Contains(t, "REAL"),
		strings.Contains(t, "FLOAT"),
		strings.Contains(t, "DOUBLE"),
		strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "DECIMAL"):
		return frame.KindFloat
	case strings.Contains(t, "TIMESTAMP"),
		strings.Contains(t, "DATE"):
		return frame.KindTime
	default:
		return frame.KindString
	}
}

// buildSeries coerces one column of driver values into a series of the
// decided kind. SQL NULLs, and values a kind cannot represent, become
// null cells.
func buildSeries(name string, kind frame.Kind, cells []any) frame.Series {
	n := len(cells)
	valid := make([]bool, n)
	switch kind {
	case frame.KindFloat:
		vals := make([]float64, n)
		for i, c := range cells {
			if v, ok := toFloat(c); ok {
				vals[i], valid[i] = v, true
			}
		}
		return frame.NullableFloats(name, vals, valid)
	case frame.KindTime:
		vals := make([]time.Time, n)
		for i, c := range cells {
			if v, ok := c.(time.Time); ok {
				vals[i], valid[i] = v, true
			}
		}
		return frame.Times(name, vals, valid)
	case frame.KindCategory:
		vals := make([]string, n)
		for i, c := range cells {
			if v, ok := toString(c); ok {
				vals[i], valid[i] = v, true
			}
		}
		return frame.Categories(name, vals, valid)
	default:
		vals := make([]string, n)
		for i, c := range cells {
			if v, ok := toString(c); ok {
				vals[i], valid[i] = v, true
			}
		}
		return frame.NullableStrings(name, vals, valid)
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case time.Time:
		return x.Format("2006-01-02 15:04:05"), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return fmt.Sprint(x), true
	}
}
