// Package dataset loads tabular records from data files and databases into
// an ordered, schema-less form the grid can display.
package dataset

import (
	"slices"

	"github.com/imgajeed76/gridview/internal/util"
)

// Record is one row: column name to value. Values are nil, bool, int64,
// float64, string, time.Time or nested JSON/YAML structures.
type Record map[string]any

// Dataset is an ordered collection of records.
type Dataset struct {
	// Name is shown in the title bar (usually the file name).
	Name string
	// Columns lists the column names in source order.
	Columns []string
	Records []Record
}

// Get reads key from r. Missing keys are nil.
func Get(r Record, key string) any {
	return r[key]
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.Columns, name)
}

// AssignKeys gives every record whose field is missing or null a fresh
// ULID, so rows without an identity can still be selected reliably. It
// returns the number of keys generated. The field is not added to Columns.
func (d *Dataset) AssignKeys(field string) int {
	n := 0
	for _, r := range d.Records {
		if v, ok := r[field]; ok && v != nil {
			continue
		}
		r[field] = util.NewULID()
		n++
	}
	return n
}

// Column returns the values of one column, in record order.
func (d *Dataset) Column(name string) []any {
	out := make([]any, len(d.Records))
	for i, r := range d.Records {
		out[i] = r[name]
	}
	return out
}

// columnSet collects column names in first-seen order.
type columnSet struct {
	names []string
	seen  map[string]bool
}

func (c *columnSet) add(name string) {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	if c.seen[name] {
		return
	}
	c.seen[name] = true
	c.names = append(c.names, name)
}
