package grid

import (
	"fmt"
	"slices"
	"strings"
)

// Order is a sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Order) UnmarshalText(b []byte) error {
	v, err := ParseOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOrder accepts "asc"/"ascending" and "desc"/"descending".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("invalid sort order %q", s)
}

// SortState is the active sort. A nil *SortState means the rows keep their
// original order.
type SortState struct {
	Field string `json:"field"`
	Order Order  `json:"order"`
}

func (s SortState) String() string {
	return s.Field + " " + s.Order.String()
}

// NextSort advances the sort for a header activation on field. Repeated
// activation of the same field cycles ascending, descending, unsorted; a
// different field starts at ascending.
func NextSort(cur *SortState, field string) *SortState {
	if cur == nil || cur.Field != field {
		return &SortState{Field: field, Order: Ascending}
	}
	if cur.Order == Ascending {
		return &SortState{Field: field, Order: Descending}
	}
	return nil
}

// Sort returns rows ordered by st. A nil st returns rows unchanged. The input
// slice is never modified, and rows that compare equal keep their input
// order.
func Sort[R any](rows []R, st *SortState, columns []Column[R], get FieldFunc[R]) []R {
	if st == nil {
		return rows
	}

	compare := Compare
	if col, ok := findColumn(columns, st.Field); ok && col.Compare != nil {
		custom := col.Compare
		compare = func(a, b any) int {
			an, bn := IsNull(a), IsNull(b)
			if an || bn {
				return Compare(a, b)
			}
			return custom(a, b)
		}
	}

	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b R) int {
		c := sign(compare(get(a, st.Field), get(b, st.Field)))
		if st.Order == Descending {
			return -c
		}
		return c
	})
	return out
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}
