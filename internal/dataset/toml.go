package dataset

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// readTOML reads records from a [[rows]] array of tables.
func readTOML(data []byte) (*Dataset, error) {
	var doc struct {
		Rows []map[string]any `toml:"rows"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}

	var cols columnSet
	for _, k := range md.Keys() {
		if len(k) == 2 && k[0] == "rows" {
			cols.add(k[1])
		}
	}

	records := make([]Record, len(doc.Rows))
	for i, row := range doc.Rows {
		rec := make(Record, len(row))
		extra := make([]string, 0)
		for k, v := range row {
			rec[k] = v
			if !cols.seen[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			cols.add(k)
		}
		records[i] = rec
	}
	return &Dataset{Columns: cols.names, Records: records}, nil
}
