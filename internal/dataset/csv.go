package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/imgajeed76/gridview/internal/util"
)

// separators are tried in this order; ties go to the earlier one.
var separators = []rune{',', ';', '\t', '|'}

// detectSeparator picks the separator that occurs most often in the first
// line, defaulting to a comma.
func detectSeparator(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	best, bestCount := ',', 0
	for _, sep := range separators {
		if n := bytes.Count(line, []byte(string(sep))); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}

// SeparatorName returns a human-readable name for sep.
func SeparatorName(sep rune) string {
	switch sep {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(sep)
	}
}

// readCSV parses delimited text with a header row. A zero sep is detected
// from the header. Non-UTF-8 input is read as Latin-1. Column types are
// inferred per column: int64, float64, bool or string; empty cells are nil.
func readCSV(data []byte, sep rune) (*Dataset, error) {
	data = util.ToValidUTF8Bytes(util.StripBOM(data))
	if sep == 0 {
		sep = detectSeparator(data)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s-separated values: %w", SeparatorName(sep), err)
	}
	if len(rows) == 0 {
		return &Dataset{}, nil
	}

	columns := headerNames(rows[0])
	body := rows[1:]

	kinds := make([]cellKind, len(columns))
	for j := range columns {
		kinds[j] = inferColumn(body, j)
	}

	records := make([]Record, len(body))
	for i, row := range body {
		rec := make(Record, len(columns))
		for j, name := range columns {
			var cell string
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			rec[name] = kinds[j].parse(cell)
		}
		records[i] = rec
	}
	return &Dataset{Columns: columns, Records: records}, nil
}

// headerNames trims header cells, names blank ones and makes duplicates
// unique. A suffixed name never collides with a header that already exists.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[strings.TrimSpace(h)] = true
	}
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if used[name] {
			base := name
			for n := 2; ; n++ {
				name = fmt.Sprintf("%s_%d", base, n)
				if !used[name] && !taken[name] {
					break
				}
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

type cellKind int

const (
	kindString cellKind = iota
	kindInt
	kindFloat
	kindBool
)

func inferColumn(rows [][]string, col int) cellKind {
	canInt, canFloat, canBool, nonEmpty := true, true, true, false
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		nonEmpty = true
		canInt = canInt && isInt(v)
		canFloat = canFloat && isFloat(v)
		canBool = canBool && isBool(v)
		if !canInt && !canFloat && !canBool {
			return kindString
		}
	}
	switch {
	case !nonEmpty:
		return kindString
	case canInt:
		return kindInt
	case canFloat:
		return kindFloat
	case canBool:
		return kindBool
	}
	return kindString
}

func (k cellKind) parse(v string) any {
	if v == "" {
		return nil
	}
	switch k {
	case kindInt:
		i, _ := strconv.ParseInt(v, 10, 64)
		return i
	case kindFloat:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case kindBool:
		return strings.EqualFold(v, "true")
	}
	return v
}

// hasLeadingZero spots codes like "007" that must stay text.
func hasLeadingZero(v string) bool {
	v = strings.TrimLeft(v, "+-")
	return len(v) > 1 && v[0] == '0' && v[1] != '.'
}

func isInt(v string) bool {
	if hasLeadingZero(v) {
		return false
	}
	_, err := strconv.ParseInt(v, 10, 64)
	return err == nil
}

func isFloat(v string) bool {
	if hasLeadingZero(v) || !strings.ContainsAny(v, "0123456789") {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

func isBool(v string) bool {
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "false")
}
