package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportFormat names an export encoding.
type ExportFormat string

const (
	FormatCSV   ExportFormat = "csv"
	FormatJSON  ExportFormat = "json"
	FormatExcel ExportFormat = "excel"
)

// ParseExportFormat validates a user-supplied format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatExcel:
		return f, nil
	case "xlsx":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Downloader delivers exported content to the user: a file on disk, stdout,
// the clipboard.
type Downloader interface {
	Download(filename, content, mimeType string) error
}

// DownloaderFunc adapts a function to the Downloader interface.
type DownloaderFunc func(filename, content, mimeType string) error

func (f DownloaderFunc) Download(filename, content, mimeType string) error {
	return f(filename, content, mimeType)
}

// ExportFilename returns "data-YYYY-MM-DD.<ext>" for the day of now.
func ExportFilename(format ExportFormat, now time.Time) string {
	return fmt.Sprintf("data-%s.%s", now.Format(time.DateOnly), format)
}

// EncodeCSV renders rows as CSV: one header line of column titles, then one
// line per row with each column's stringified value. Every field is wrapped
// in double quotes with embedded quotes doubled, lines are joined with "\n"
// and there is no trailing newline.
func EncodeCSV[R any](columns []Column[R], rows []R, get FieldFunc[R]) string {
	lines := make([]string, 0, len(rows)+1)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = quoteCSV(col.Title)
	}
	lines = append(lines, strings.Join(header, ","))

	for _, row := range rows {
		fields := make([]string, len(columns))
		for i, col := range columns {
			fields[i] = quoteCSV(Stringify(get(row, col.Key)))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// EncodeJSON renders rows as an indented JSON array of objects. Object keys
// follow column order and values keep their JSON types where they have one.
func EncodeJSON[R any](columns []Column[R], rows []R, get FieldFunc[R]) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(col.Key)
			if err != nil {
				return "", fmt.Errorf("encode column %q: %w", col.Key, err)
			}
			buf.Write(name)
			buf.WriteByte(':')
			buf.Write(jsonValue(get(row, col.Key)))
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return "", fmt.Errorf("indent export: %w", err)
	}
	return out.String(), nil
}

func jsonValue(v any) []byte {
	if IsNull(v) {
		return []byte("null")
	}
	if b, err := json.Marshal(v); err == nil {
		return b
	}
	b, _ := json.Marshal(Stringify(v))
	return b
}
