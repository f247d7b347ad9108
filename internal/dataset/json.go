package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/imgajeed76/gridview/internal/util"
)

// readJSON accepts an array of objects, a single object or a stream of
// objects (JSON Lines). Column order follows the order keys are first seen.
func readJSON(data []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(util.StripBOM(data)))
	dec.UseNumber()

	var (
		cols    columnSet
		records []Record
	)

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	switch tok {
	case json.Delim('['):
		for dec.More() {
			rec, err := readJSONObject(dec, &cols)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
			}
			records = append(records, rec)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	case json.Delim('{'):
		rec, err := readJSONObjectBody(dec, &cols)
		if err != nil {
			return nil, fmt.Errorf("record 1: %w", err)
		}
		records = append(records, rec)
		for dec.More() {
			rec, err := readJSONObject(dec, &cols)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
			}
			records = append(records, rec)
		}
	default:
		return nil, fmt.Errorf("expected an array of objects, got %v", tok)
	}

	return &Dataset{Columns: cols.names, Records: records}, nil
}

func readJSONObject(dec *json.Decoder, cols *columnSet) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}
	return readJSONObjectBody(dec, cols)
}

// readJSONObjectBody reads key/value pairs after the opening brace.
func readJSONObjectBody(dec *json.Decoder, cols *columnSet) (Record, error) {
	rec := make(Record)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected a key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		rec[key] = normalizeJSON(v)
		cols.add(key)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

// normalizeJSON turns json.Number into int64 when integral, float64
// otherwise.
func normalizeJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i := range x {
			x[i] = normalizeJSON(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalizeJSON(x[k])
		}
		return x
	}
	return v
}
