package grid

import "strings"

// Filter returns the rows where at least one column's value contains term,
// ignoring case. Null values never match. An empty or whitespace-only term
// returns rows unchanged. Matching rows keep their relative order.
func Filter[R any](rows []R, columns []Column[R], get FieldFunc[R], term string) []R {
	if strings.TrimSpace(term) == "" {
		return rows
	}

	needle := fold(term)
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if rowMatches(row, columns, get, needle) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches[R any](row R, columns []Column[R], get FieldFunc[R], needle string) bool {
	for _, col := range columns {
		v := get(row, col.Key)
		if IsNull(v) {
			continue
		}
		if strings.Contains(fold(Stringify(v)), needle) {
			return true
		}
	}
	return false
}
