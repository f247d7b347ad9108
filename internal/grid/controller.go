package grid

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// View is the render-ready snapshot of a grid.
type View[R any] struct {
	// Rows are the rows of the visible page, in display order.
	Rows []R
	// Keys[i] and Selected[i] describe Rows[i].
	Keys     []Key
	Selected []bool

	Columns []Column[R]
	Actions []Action[R]
	Sort    *SortState
	Search  string

	// SelectedKeys lists every selected key, in selection order, including
	// keys whose rows are filtered out or no longer in the dataset.
	SelectedKeys []Key
	// TriState is the select-all state of the visible page. It is always
	// SelectNone when selection is disabled.
	TriState TriState
	// Pagination is nil when paging is disabled.
	Pagination *PageInfo

	// Total is the number of rows matching the search.
	Total int
	// DataLen is the size of the unfiltered dataset.
	DataLen int
}

// Empty reports whether no row is visible.
func (v View[R]) Empty() bool {
	return len(v.Rows) == 0
}

// Controller owns a grid's state and runs the filter, sort, paginate
// pipeline whenever an event changes it.
type Controller[R any] struct {
	cfg      Config[R]
	resolver Resolver[R]
	log      *zap.Logger

	data  []R
	state State

	// order holds the dataset positions of the filtered, sorted rows.
	order  []int
	sorted []R
	view   View[R]
}

// New creates a controller over data.
func New[R any](data []R, cfg Config[R]) *Controller[R] {
	cfg = cfg.withDefaults()
	c := &Controller[R]{
		cfg:      cfg,
		resolver: cfg.resolver(),
		log:      cfg.Logger.Named("grid"),
		data:     data,
	}
	c.state.Page = 1
	if p := cfg.Pagination; p != nil {
		c.state.Page = p.Current
		c.state.PageSize = p.PageSize
	}
	c.recompute()
	return c
}

// WithLogger replaces the controller's logger. A nil logger disables
// logging.
func (c *Controller[R]) WithLogger(l *zap.Logger) *Controller[R] {
	if l == nil {
		l = zap.NewNop()
	}
	c.cfg.Logger = l
	c.log = l.Named("grid")
	return c
}

// ═══════════════════════════════════════════════════════════════════════════
// Events
// ═══════════════════════════════════════════════════════════════════════════

// Dispatch applies ev, recomputes the pipeline and fires the callbacks the
// event is due. Callbacks run synchronously, after the view is rebuilt.
func (c *Controller[R]) Dispatch(ev Event) View[R] {
	next, change := Reduce(c.env(), c.state, ev)
	if change == 0 {
		c.log.Debug("event ignored", zap.String("event", ev.eventName()))
		return c.view
	}

	c.state = next
	c.recompute()
	c.log.Debug("event applied",
		zap.String("event", ev.eventName()),
		zap.Stringer("change", change),
		zap.Int("page", c.state.Page),
		zap.Int("total", c.view.Total),
		zap.Int("selected", c.state.Selection.Len()),
	)
	c.notify(ev, change)
	return c.view
}

func (c *Controller[R]) env() Env {
	return Env{
		Searchable:     c.cfg.Searchable,
		Selectable:     c.cfg.Selectable,
		Paginated:      c.cfg.Pagination != nil,
		SortableFields: c.cfg.sortableFields(),
		Total:          len(c.order),
	}
}

func (c *Controller[R]) notify(ev Event, change Change) {
	if change.Has(ChangeSearch) && c.cfg.OnSearch != nil {
		c.cfg.OnSearch(c.state.Search)
	}
	if change.Has(ChangeSort) && c.cfg.OnSortChange != nil {
		var st *SortState
		if c.state.Sort != nil {
			cp := *c.state.Sort
			st = &cp
		}
		c.cfg.OnSortChange(st)
	}
	if change.Has(ChangePage) && c.cfg.OnPageChange != nil {
		c.cfg.OnPageChange(c.state.Page, c.state.PageSize)
	}
	if change.Has(ChangeSelection) && c.cfg.OnSelectionChange != nil {
		keys := c.state.Selection.Keys()
		if all, ok := ev.(SelectAllToggled); ok && all.Selected {
			c.cfg.OnSelectionChange(slices.Clone(c.view.Rows), keys)
			return
		}
		c.cfg.OnSelectionChange(c.SelectedRowsIn(c.data), keys)
	}
}

// Search replaces the search term and returns to page 1.
func (c *Controller[R]) Search(term string) View[R] {
	return c.Dispatch(SearchChanged{Term: term})
}

// RequestSort cycles the sort on field.
func (c *Controller[R]) RequestSort(field string) View[R] {
	return c.Dispatch(SortRequested{Field: field})
}

// SetPage moves to page, clamped to the available pages.
func (c *Controller[R]) SetPage(page int) View[R] {
	return c.Dispatch(PageChanged{Page: page})
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller[R]) SetPageSize(size int) View[R] {
	return c.Dispatch(PageSizeChanged{Size: size})
}

// ToggleRow selects or deselects row. index is the row's position in the
// dataset; it is only used when the row has no key.
func (c *Controller[R]) ToggleRow(row R, index int, selected bool) View[R] {
	return c.Dispatch(RowToggled{Key: c.resolver.Resolve(row, index), Selected: selected})
}

// ToggleVisible flips the selection of the i-th visible row.
func (c *Controller[R]) ToggleVisible(i int) View[R] {
	if i < 0 || i >= len(c.view.Rows) {
		return c.view
	}
	return c.Dispatch(RowToggled{Key: c.view.Keys[i], Selected: !c.view.Selected[i]})
}

// ToggleAllOnPage selects exactly the visible page, or clears the whole
// selection when selected is false.
func (c *Controller[R]) ToggleAllOnPage(selected bool) View[R] {
	return c.Dispatch(SelectAllToggled{Selected: selected, PageKeys: slices.Clone(c.view.Keys)})
}

// ClearSelection empties the selection.
func (c *Controller[R]) ClearSelection() View[R] {
	return c.Dispatch(SelectionCleared{})
}

// SetData replaces the dataset. State is kept; the page is clamped to the new
// row count. No callbacks fire.
func (c *Controller[R]) SetData(data []R) View[R] {
	c.data = data
	c.recompute()
	if c.cfg.Pagination != nil {
		if page := clampPage(c.state.Page, len(c.order), c.state.PageSize); page != c.state.Page {
			c.state.Page = page
			c.recompute()
		}
	}
	c.log.Debug("data replaced", zap.Int("rows", len(data)))
	return c.view
}

// ═══════════════════════════════════════════════════════════════════════════
// Queries
// ═══════════════════════════════════════════════════════════════════════════

// View returns the current snapshot.
func (c *Controller[R]) View() View[R] {
	return c.view
}

// State returns the current state.
func (c *Controller[R]) State() State {
	return c.state
}

// Config returns the effective configuration.
func (c *Controller[R]) Config() Config[R] {
	return c.cfg
}

// Sorted returns the filtered, sorted rows across all pages.
func (c *Controller[R]) Sorted() []R {
	return slices.Clone(c.sorted)
}

// Data returns the unfiltered dataset.
func (c *Controller[R]) Data() []R {
	return c.data
}

// SelectedRowsIn returns the rows of rows whose keys are selected, in the
// order of rows. Keys are resolved against each row's position in rows.
func (c *Controller[R]) SelectedRowsIn(rows []R) []R {
	out := make([]R, 0, c.state.Selection.Len())
	if c.state.Selection.Len() == 0 {
		return out
	}
	for i, row := range rows {
		if c.state.Selection.Has(c.resolver.Resolve(row, i)) {
			out = append(out, row)
		}
	}
	return out
}

// SelectedSorted returns the selected rows that match the search, in
// display order across every page.
func (c *Controller[R]) SelectedSorted() []R {
	out := make([]R, 0, c.state.Selection.Len())
	if c.state.Selection.Len() == 0 {
		return out
	}
	for _, pos := range c.order {
		if c.state.Selection.Has(c.resolver.Resolve(c.data[pos], pos)) {
			out = append(out, c.data[pos])
		}
	}
	return out
}

// KeyOf returns the key of row at position index.
func (c *Controller[R]) KeyOf(row R, index int) Key {
	return c.resolver.Resolve(row, index)
}

// ═══════════════════════════════════════════════════════════════════════════
// Row actions
// ═══════════════════════════════════════════════════════════════════════════

// EnabledActions returns the actions that can run on the i-th visible row,
// in configuration order.
func (c *Controller[R]) EnabledActions(i int) []Action[R] {
	if i < 0 || i >= len(c.view.Rows) {
		return nil
	}
	var out []Action[R]
	for _, a := range c.cfg.Actions {
		if a.Enabled(c.view.Rows[i]) {
			out = append(out, a)
		}
	}
	return out
}

// RunAction runs the action labelled label on the i-th visible row. State
// is not touched; the action decides what to do with the row.
func (c *Controller[R]) RunAction(label string, i int) error {
	if i < 0 || i >= len(c.view.Rows) {
		return fmt.Errorf("%w: %d", ErrNoRow, i)
	}
	idx := slices.IndexFunc(c.cfg.Actions, func(a Action[R]) bool { return a.Label == label })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAction, label)
	}
	action, row := c.cfg.Actions[idx], c.view.Rows[i]
	if !action.Enabled(row) {
		return fmt.Errorf("%w: %s", ErrActionDisabled, label)
	}
	c.log.Debug("action", zap.String("label", label), zap.Stringer("key", c.view.Keys[i]))
	action.Run(row)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Export
// ═══════════════════════════════════════════════════════════════════════════

// Export sends the filtered, sorted rows of every page to OnExport when it is
// set. Otherwise CSV and JSON are encoded in-house and handed to the
// Downloader under a dated filename.
func (c *Controller[R]) Export(format ExportFormat) error {
	if !c.cfg.Exportable {
		return ErrExportDisabled
	}
	rows := c.Sorted()
	if c.cfg.OnExport != nil {
		c.log.Debug("export delegated", zap.String("format", string(format)), zap.Int("rows", len(rows)))
		c.cfg.OnExport(format, rows)
		return nil
	}

	var (
		content string
		mime    string
	)
	switch format {
	case FormatCSV:
		content = EncodeCSV(c.cfg.Columns, rows, c.cfg.Field)
		mime = "text/csv"
	case FormatJSON:
		var err error
		if content, err = EncodeJSON(c.cfg.Columns, rows, c.cfg.Field); err != nil {
			return err
		}
		mime = "application/json"
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if c.cfg.Downloader == nil {
		return ErrNoDownloader
	}
	name := ExportFilename(format, c.cfg.Now())
	c.log.Debug("export", zap.String("file", name), zap.Int("rows", len(rows)))
	if err := c.cfg.Downloader.Download(name, content, mime); err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Pipeline
// ═══════════════════════════════════════════════════════════════════════════

func (c *Controller[R]) recompute() {
	// Filter and sort run over dataset positions, so a row without a key
	// resolves to the same positional key on every page and in callbacks.
	positions := make([]int, len(c.data))
	for i := range positions {
		positions[i] = i
	}
	cols := positionColumns(c.cfg.Columns)
	field := func(i int, key string) any { return c.cfg.Field(c.data[i], key) }
	if c.cfg.Searchable {
		positions = Filter(positions, cols, field, c.state.Search)
	}
	c.order = Sort(positions, c.state.Sort, cols, field)
	c.sorted = make([]R, len(c.order))
	for i, pos := range c.order {
		c.sorted[i] = c.data[pos]
	}

	visible := c.order
	var info *PageInfo
	if c.cfg.Pagination != nil {
		visible = Paginate(c.order, c.state.Page, c.state.PageSize)
		pi := NewPageInfo(c.state.Page, c.state.PageSize, len(c.order))
		info = &pi
	}

	rows := make([]R, len(visible))
	keys := make([]Key, len(visible))
	selected := make([]bool, len(visible))
	for i, pos := range visible {
		rows[i] = c.data[pos]
		keys[i] = c.resolver.Resolve(rows[i], pos)
		selected[i] = c.state.Selection.Has(keys[i])
	}

	tri := SelectNone
	if c.cfg.Selectable {
		tri = ComputeTriState(keys, c.state.Selection)
	}

	var sort *SortState
	if c.state.Sort != nil {
		cp := *c.state.Sort
		sort = &cp
	}

	c.view = View[R]{
		Rows:         rows,
		Keys:         keys,
		Selected:     selected,
		Columns:      c.cfg.Columns,
		Actions:      c.cfg.Actions,
		Sort:         sort,
		Search:       c.state.Search,
		SelectedKeys: c.state.Selection.Keys(),
		TriState:     tri,
		Pagination:   info,
		Total:        len(c.order),
		DataLen:      len(c.data),
	}
}

// positionColumns carries the keys and comparators of columns over to a
// pipeline that runs on dataset positions.
func positionColumns[R any](columns []Column[R]) []Column[int] {
	out := make([]Column[int], len(columns))
	for i, col := range columns {
		out[i] = Column[int]{Key: col.Key, Title: col.Title, DisableSort: col.DisableSort, Compare: col.Compare}
	}
	return out
}
