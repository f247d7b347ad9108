package grid

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

// Pagination configures paging. A nil *Pagination in Config disables it and
// shows every row on one page.
type Pagination struct {
	// Current is the initial 1-based page (default 1).
	Current int
	// PageSize is the initial page size (default DefaultPageSize).
	PageSize int
	// PageSizes are the sizes offered by the size changer
	// (default DefaultPageSizes).
	PageSizes []int
	// ShowTotal replaces the "Showing a-b of n items" line when set.
	ShowTotal func(total, from, to int) string
	// ShowSizeChanger and ShowQuickJumper are presentation hints.
	ShowSizeChanger bool
	ShowQuickJumper bool
}

// Config assembles a grid. Build one with DefaultConfig and override fields.
type Config[R any] struct {
	Columns []Column[R]
	// Field reads a column value from a row. Required.
	Field FieldFunc[R]

	// RowKey is the field holding each row's identity (default "id").
	RowKey string
	// KeyFunc, when set, derives row identity instead of RowKey.
	KeyFunc KeyFunc[R]

	Sortable   bool
	Searchable bool
	Selectable bool
	Exportable bool
	Pagination *Pagination
	// Loading is a presentation hint; the pipeline ignores it.
	Loading bool
	// Actions are offered on every visible row.
	Actions []Action[R]

	OnSelectionChange func(rows []R, keys []Key)
	OnSortChange      func(sort *SortState)
	OnSearch          func(term string)
	OnPageChange      func(page, pageSize int)
	// OnExport, when set, receives every export request instead of the
	// built-in encoders.
	OnExport func(format ExportFormat, rows []R)

	// Downloader receives built-in exports.
	Downloader Downloader
	// Now stamps export filenames (default time.Now).
	Now    func() time.Time
	Logger *zap.Logger
}

// DefaultConfig returns a config with sorting, search and export enabled,
// selection and pagination disabled and rows keyed by their "id" field.
func DefaultConfig[R any](columns []Column[R], field FieldFunc[R]) Config[R] {
	return Config[R]{
		Columns:    columns,
		Field:      field,
		RowKey:     "id",
		Sortable:   true,
		Searchable: true,
		Exportable: true,
	}
}

// withDefaults fills zero values that have a sensible default.
func (c Config[R]) withDefaults() Config[R] {
	if c.Field == nil {
		panic("grid: Config.Field is required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Pagination != nil {
		p := *c.Pagination
		if p.Current < 1 {
			p.Current = 1
		}
		if p.PageSize < 1 {
			p.PageSize = DefaultPageSize
		}
		if len(p.PageSizes) == 0 {
			p.PageSizes = slices.Clone(DefaultPageSizes)
		}
		c.Pagination = &p
	}
	return c
}

func (c Config[R]) resolver() Resolver[R] {
	return Resolver[R]{Field: c.RowKey, Func: c.KeyFunc, Get: c.Field}
}

func (c Config[R]) sortableFields() map[string]bool {
	fields := make(map[string]bool, len(c.Columns))
	if !c.Sortable {
		return fields
	}
	for _, col := range c.Columns {
		if col.Sortable() {
			fields[col.Key] = true
		}
	}
	return fields
}
