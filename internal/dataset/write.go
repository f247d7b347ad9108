package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/imgajeed76/gridview/internal/grid"
)

// Write encodes d to w in the given format. Column order is kept wherever
// the format allows it (TOML tables are written with sorted keys).
func Write(w io.Writer, d *Dataset, format Format) error {
	switch format {
	case JSON:
		return writeJSON(w, d)
	case CSV:
		return writeCSV(w, d, ',')
	case TSV:
		return writeCSV(w, d, '\t')
	case YAML:
		return writeYAML(w, d)
	case TOML:
		return writeTOML(w, d)
	case Parquet:
		return writeParquet(w, d)
	}
	return fmt.Errorf("cannot write format %q", format)
}

// GridColumns returns one grid column per dataset column, titled by name.
func (d *Dataset) GridColumns() []grid.Column[Record] {
	cols := make([]grid.Column[Record], len(d.Columns))
	for i, name := range d.Columns {
		cols[i] = grid.Column[Record]{Key: name, Title: name}
	}
	return cols
}

func writeJSON(w io.Writer, d *Dataset) error {
	out, err := grid.EncodeJSON(d.GridColumns(), d.Records, Get)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}

func writeCSV(w io.Writer, d *Dataset, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(d.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(d.Columns))
	for _, r := range d.Records {
		for i, name := range d.Columns {
			row[i] = cellString(r[name])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeYAML(w io.Writer, d *Dataset) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range d.Records {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range d.Columns {
			var val yaml.Node
			if err := val.Encode(r[name]); err != nil {
				return fmt.Errorf("encode %q: %w", name, err)
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
				&val,
			)
		}
		seq.Content = append(seq.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

func writeTOML(w io.Writer, d *Dataset) error {
	rows := make([]map[string]any, len(d.Records))
	for i, r := range d.Records {
		row := make(map[string]any, len(r))
		for k, v := range r {
			if v != nil {
				row[k] = v
			}
		}
		rows[i] = row
	}
	return toml.NewEncoder(w).Encode(map[string]any{"rows": rows})
}

// cellString renders a value for text formats. Nested values become JSON.
func cellString(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err == nil {
			return string(b)
		}
	}
	return grid.Stringify(v)
}
