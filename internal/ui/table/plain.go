package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/ui/styles"
)

// cells renders the visible page as display strings. Null values become
// "NULL" so they stand out from empty strings.
func cells[R any](v grid.View[R], get grid.FieldFunc[R]) [][]string {
	out := make([][]string, len(v.Rows))
	for i, row := range v.Rows {
		line := make([]string, len(v.Columns))
		for j, col := range v.Columns {
			line[j] = cellText(col, row, get)
		}
		out[i] = line
	}
	return out
}

func cellText[R any](col grid.Column[R], row R, get grid.FieldFunc[R]) string {
	if col.Render == nil && grid.IsNull(get(row, col.Key)) {
		return "NULL"
	}
	return oneLine(col.Cell(row, get))
}

// oneLine keeps multi-line values on a single table row.
func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}

// headerTitle returns the column title with the sort marker when the grid
// is sorted by it.
func headerTitle[R any](v grid.View[R], col grid.Column[R]) (string, string) {
	if v.Sort != nil && v.Sort.Field == col.Key {
		return col.Title, v.Sort.Order.String()
	}
	return col.Title, ""
}

// PrintPlain prints the visible page as an aligned table, followed by the
// pagination summary. Cells wider than maxWidth are truncated; 0 disables
// truncation.
func PrintPlain[R any](w io.Writer, v grid.View[R], get grid.FieldFunc[R], selectable bool, maxWidth int) {
	if len(v.Columns) == 0 {
		fmt.Fprintln(w, "(0 columns)")
		return
	}

	rows := cells(v, get)

	colWidths := make([]int, len(v.Columns))
	for i, col := range v.Columns {
		title, order := headerTitle(v, col)
		colWidths[i] = ansi.StringWidth(title)
		if order != "" {
			colWidths[i] += 2
		}
	}
	for _, row := range rows {
		for i, val := range row {
			if n := ansi.StringWidth(val); n > colWidths[i] {
				colWidths[i] = n
			}
		}
	}
	if maxWidth > 0 {
		for i := range colWidths {
			colWidths[i] = min(colWidths[i], maxWidth)
		}
	}

	// Header
	var sb strings.Builder
	if selectable {
		sb.WriteString(styles.Checkbox(v.TriState.String()))
		sb.WriteString("  ")
	}
	for i, col := range v.Columns {
		if i > 0 {
			sb.WriteString("  ")
		}
		title, order := headerTitle(v, col)
		sb.WriteString(padRight(styles.Header(Truncate(title, colWidths[i]-markerWidth(order)), order), colWidths[i]))
	}
	fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))

	// Separator
	sb.Reset()
	if selectable {
		sb.WriteString("---  ")
	}
	for i, cw := range colWidths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("─", cw))
	}
	fmt.Fprintln(w, sb.String())

	// Rows
	for r, row := range rows {
		sb.Reset()
		if selectable {
			mark := "none"
			if v.Selected[r] {
				mark = "checked"
			}
			sb.WriteString(styles.Checkbox(mark))
			sb.WriteString("  ")
		}
		for i, val := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			text := PadOrTruncate(val, colWidths[i])
			if val == "NULL" {
				text = styles.Render(styles.NullStyle, text)
			}
			sb.WriteString(text)
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.MutedMsg(Footer(v, nil)))
}

// Footer is the line under the table: the pagination summary, or a row
// count when paging is off.
func Footer[R any](v grid.View[R], showTotal func(total, from, to int) string) string {
	var parts []string
	switch {
	case v.Pagination != nil:
		parts = append(parts, v.Pagination.Summary(showTotal))
		if v.Pagination.TotalPages > 1 {
			parts = append(parts, fmt.Sprintf("page %d/%d", v.Pagination.Current, v.Pagination.TotalPages))
		}
	case v.Total == 1:
		parts = append(parts, "(1 row)")
	default:
		parts = append(parts, fmt.Sprintf("(%d rows)", v.Total))
	}
	if v.Search != "" {
		parts = append(parts, fmt.Sprintf("filter %q matched %d of %d", v.Search, v.Total, v.DataLen))
	}
	if n := len(v.SelectedKeys); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	return strings.Join(parts, "  ·  ")
}

// PrintRaw prints the visible page as tab-separated values, one row per
// line, without a header.
func PrintRaw[R any](w io.Writer, v grid.View[R], get grid.FieldFunc[R]) {
	for _, row := range v.Rows {
		line := make([]string, len(v.Columns))
		for i, col := range v.Columns {
			line[i] = oneLine(grid.Stringify(get(row, col.Key)))
		}
		fmt.Fprintln(w, strings.Join(line, "\t"))
	}
}

// viewJSON is the machine-readable form of a view.
type viewJSON struct {
	Rows       json.RawMessage `json:"rows"`
	Pagination *grid.PageInfo  `json:"pagination,omitempty"`
	Sort       *grid.SortState `json:"sort,omitempty"`
	Search     string          `json:"search,omitempty"`
	Selected   []grid.Key      `json:"selected,omitempty"`
	Total      int             `json:"total"`
}

// PrintJSON writes the visible page and its grid state as one JSON object.
// Row objects keep column order.
func PrintJSON[R any](w io.Writer, v grid.View[R], get grid.FieldFunc[R]) error {
	rows, err := grid.EncodeJSON(v.Columns, v.Rows, get)
	if err != nil {
		return err
	}
	out := viewJSON{
		Rows:       json.RawMessage(rows),
		Pagination: v.Pagination,
		Sort:       v.Sort,
		Search:     v.Search,
		Selected:   v.SelectedKeys,
		Total:      v.Total,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func markerWidth(order string) int {
	if order == "" {
		return 0
	}
	return 2
}

// padRight pads a possibly styled string to width display cells.
func padRight(s string, width int) string {
	if n := ansi.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Truncate shortens a string to fit width, adding "..." if needed.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width > 3 {
		return ansi.Truncate(s, width, "...")
	}
	return ansi.Truncate(s, width, "")
}

// PadOrTruncate pads or truncates to exact width (for the TUI table).
func PadOrTruncate(s string, width int) string {
	return padRight(Truncate(s, width), width)
}
