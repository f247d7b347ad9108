package dataset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// readYAML accepts a sequence of mappings, a mapping with a "rows"
// sequence, or a single mapping. Key order is preserved.
func readYAML(data []byte) (*Dataset, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &Dataset{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.MappingNode {
		if rows := yamlLookup(root, "rows"); rows != nil && rows.Kind == yaml.SequenceNode {
			root = rows
		}
	}

	var (
		cols    columnSet
		records []Record
	)
	switch root.Kind {
	case yaml.MappingNode:
		rec, err := yamlRecord(root, &cols)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	case yaml.SequenceNode:
		for i, item := range root.Content {
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("record %d: expected a mapping (line %d)", i+1, item.Line)
			}
			rec, err := yamlRecord(item, &cols)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
			records = append(records, rec)
		}
	default:
		return nil, fmt.Errorf("expected a list of mappings (line %d)", root.Line)
	}

	return &Dataset{Columns: cols.names, Records: records}, nil
}

func yamlLookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func yamlRecord(m *yaml.Node, cols *columnSet) (Record, error) {
	rec := make(Record, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		var v any
		if err := m.Content[i+1].Decode(&v); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		rec[key] = normalizeYAML(v)
		cols.add(key)
	}
	return rec, nil
}

func normalizeYAML(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case uint64:
		return float64(x)
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalizeYAML(x[k])
		}
		return x
	}
	return v
}
