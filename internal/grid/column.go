package grid

// Column describes one grid column.
type Column[R any] struct {
	// Key is the row field shown in this column.
	Key string
	// Title is the header text; it is also the CSV header.
	Title string
	// DisableSort turns off sorting for this column. Columns are sortable by
	// default.
	DisableSort bool
	// Compare replaces the default comparator when sorting by this column.
	// It only sees non-null values; nulls are ordered before it is called.
	Compare func(a, b any) int
	// Render formats a cell for display. Search, sort and export always use
	// the raw value.
	Render func(value any, row R) string
	// Width is a display hint in characters (0 = renderer default).
	Width int
	// Class is an opaque styling hint passed through to the renderer.
	Class string
}

// Sortable reports whether the column accepts sort requests.
func (c Column[R]) Sortable() bool {
	return !c.DisableSort
}

// Cell returns the display text for row in this column.
func (c Column[R]) Cell(row R, get FieldFunc[R]) string {
	v := get(row, c.Key)
	if c.Render != nil {
		return c.Render(v, row)
	}
	return Stringify(v)
}

func findColumn[R any](columns []Column[R], key string) (Column[R], bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[R]{}, false
}
