package db

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/imgajeed76/gridview/internal/dataset"
	"github.com/imgajeed76/gridview/internal/util"
)

var errNotConnected = util.ErrNotConnected

var writePrefixes = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "TRUNCATE", "GRANT", "REVOKE", "MERGE",
}

// IsWriteQuery reports whether sql starts with a data- or schema-changing
// keyword.
func IsWriteQuery(sql string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sql))
	for _, p := range writePrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

// QueryDataset runs a query in a read-only transaction and collects every
// row. Column order follows the result set; duplicate column names get a
// numeric suffix.
func (db *DB) QueryDataset(ctx context.Context, sql string, args ...any) (*dataset.Dataset, error) {
	var d *dataset.Dataset
	err := db.WithReadOnlyTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		d, err = collect(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func collect(rows pgx.Rows) (*dataset.Dataset, error) {
	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	seen := make(map[string]int, len(fields))
	for i, fd := range fields {
		name := fd.Name
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[fd.Name]++
		columns[i] = name
	}

	d := &dataset.Dataset{Name: "query", Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(dataset.Record, len(columns))
		for i, v := range values {
			rec[columns[i]] = NormalizeValue(v)
		}
		d.Records = append(d.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// NormalizeValue maps the Go types pgx decodes into the value set the grid
// sorts and exports natively.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint32:
		return int64(val)
	case float32:
		return float64(val)
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		if f, err := val.Float64Value(); err == nil && f.Valid {
			return f.Float64
		}
		return fmt.Sprintf("%v", val)
	case [16]byte:
		return formatUUID(val)
	case []byte:
		if isPrintable(val) {
			return string(val)
		}
		return fmt.Sprintf("[%d bytes]", len(val))
	case netip.Prefix:
		return val.String()
	case netip.Addr:
		return val.String()
	case time.Duration:
		return val.String()
	case pgtype.Interval:
		if !val.Valid {
			return nil
		}
		return fmt.Sprintf("%d months %d days %dµs", val.Months, val.Days, val.Microseconds)
	}
	return v
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 32 && c != '\n' && c != '\r' && c != '\t' {
			return false
		}
	}
	return true
}

func formatUUID(u [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}
