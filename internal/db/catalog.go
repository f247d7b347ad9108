package db

import (
	"context"

	"github.com/imgajeed76/gridview/internal/dataset"
)

// tablesQuery lists tables, partitioned tables and materialized views with
// the planner's row estimate and their size on disk including indexes and
// TOAST. reltuples is -1 for tables that were never analyzed.
const tablesQuery = `
	SELECT
		n.nspname AS schema,
		c.relname AS name,
		CASE c.relkind
			WHEN 'r' THEN 'table'
			WHEN 'p' THEN 'partitioned'
			WHEN 'm' THEN 'materialized view'
		END AS kind,
		NULLIF(GREATEST(c.reltuples, -1), -1)::bigint AS rows_estimate,
		pg_total_relation_size(c.oid) AS total_bytes,
		pg_size_pretty(pg_total_relation_size(c.oid)) AS size
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	WHERE c.relkind IN ('r', 'p', 'm')
		AND n.nspname NOT IN ('pg_catalog', 'information_schema')
		AND n.nspname NOT LIKE 'pg_toast%'
		AND ($1::text = '' OR n.nspname = $1::text)
	ORDER BY total_bytes DESC, schema, name`

// ListTables returns one record per table visible to the connected role,
// largest first. An empty schema lists every non-system schema.
func (db *DB) ListTables(ctx context.Context, schema string) (*dataset.Dataset, error) {
	d, err := db.QueryDataset(ctx, tablesQuery, schema)
	if err != nil {
		return nil, err
	}
	d.Name = "tables"
	return d, nil
}
