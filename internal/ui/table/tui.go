package table

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/ui/styles"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	defaultColWidth = 24
	minColWidth     = 3
	hiddenColWidth  = 3
	colGap          = 2
)

// Column display state
type colState int

const (
	colStateDefault  colState = iota // truncated to the column width limit
	colStateExpanded                 // full width
	colStateHidden                   // minimal width (just "...")
)

// Table mode
type tableMode int

const (
	tableModeNormal tableMode = iota
	tableModeSearch
	tableModeAction
)

// Exit mode - what to print after quitting the TUI
type exitMode int

const (
	exitNormal exitMode = iota
	exitJSON
	exitRaw
	exitPlain
)

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type gridModel[R any] struct {
	ctrl         *grid.Controller[R]
	get          grid.FieldFunc[R]
	title        string
	colLimit     int
	exportFormat grid.ExportFormat

	fullColWidths []int      // widest cell of each column over the whole dataset
	colLimits     []int      // default width cap per column
	colStates     []colState // display state for each column
	cursor        int        // row on the visible page
	colCursor     int        // selected column
	scrollX       int        // horizontal scroll offset in characters
	scrollY       int        // vertical scroll offset within the page
	width         int
	height        int
	ready         bool
	mode          tableMode
	searchInput   textinput.Model
	exitMode      exitMode

	// actionChoices are the row actions offered while picking one
	actionChoices []grid.Action[R]

	// Smooth horizontal scrolling
	animating   bool
	animTargetX int

	// Flash notification, e.g. after yank or export
	statusMsg   string
	statusErr   bool
	statusUntil time.Time
}

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type gridKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	ShiftLeft  key.Binding
	ShiftRight key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	GrowPage   key.Binding
	ShrinkPage key.Binding
	Home       key.Binding
	End        key.Binding
	Expand     key.Binding
	Hide       key.Binding
	Search     key.Binding
	Sort       key.Binding
	Toggle     key.Binding
	ToggleAll  key.Binding
	Clear      key.Binding
	Export     key.Binding
	ExportJSON key.Binding
	YankCell   key.Binding
	YankRows   key.Binding
	Actions    key.Binding
	PrintJSON  key.Binding
	PrintRaw   key.Binding
	PrintPlain key.Binding
	Quit       key.Binding
}

var gridKeys = gridKeyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev column")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next column")),
	ShiftLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "scroll half left")),
	ShiftRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "scroll half right")),
	PrevPage:   key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "prev page")),
	NextPage:   key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "next page")),
	GrowPage:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bigger pages")),
	ShrinkPage: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller pages")),
	Home:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
	End:        key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
	Expand:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/default")),
	Hide:       key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide/default")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
	Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "select row")),
	ToggleAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
	Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection")),
	Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	ExportJSON: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export json")),
	YankCell:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRows:   key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy rows")),
	Actions:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "row actions")),
	PrintJSON:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "print as JSON")),
	PrintRaw:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "print raw")),
	PrintPlain: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "print table")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

// RunGridTUI launches the interactive grid. It blocks until the user quits.
// If the user asked for J/R/P output, the current page is printed to stdout
// after the TUI exits.
func RunGridTUI[R any](c *grid.Controller[R], opts DisplayOptions) error {
	m := newGridModel(c, opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := finalModel.(gridModel[R]); ok {
		view := c.View()
		switch fm.exitMode {
		case exitJSON:
			return PrintJSON(os.Stdout, view, m.get)
		case exitRaw:
			PrintRaw(os.Stdout, view, m.get)
		case exitPlain:
			PrintPlain(os.Stdout, view, m.get, c.Config().Selectable, m.colLimit)
		}
	}
	return nil
}

func newGridModel[R any](c *grid.Controller[R], opts DisplayOptions) gridModel[R] {
	cfg := c.Config()
	limit := opts.ColWidth
	if limit < minColWidth {
		limit = defaultColWidth
	}
	format := opts.ExportFormat
	if format == "" {
		format = grid.FormatCSV
	}

	// Full widths over every row so columns do not jump while paging
	fullColWidths := make([]int, len(cfg.Columns))
	colLimits := make([]int, len(cfg.Columns))
	for i, col := range cfg.Columns {
		fullColWidths[i] = ansi.StringWidth(col.Title) + 2
		colLimits[i] = limit
		if col.Width > 0 {
			colLimits[i] = col.Width
		}
	}
	for _, row := range c.Data() {
		for i, col := range cfg.Columns {
			if n := ansi.StringWidth(cellText(col, row, cfg.Field)); n > fullColWidths[i] {
				fullColWidths[i] = n
			}
		}
	}

	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = 100
	ti.Width = 30
	ti.SetValue(c.State().Search)

	return gridModel[R]{
		ctrl:          c,
		get:           cfg.Field,
		title:         opts.Title,
		colLimit:      limit,
		exportFormat:  format,
		fullColWidths: fullColWidths,
		colLimits:     colLimits,
		colStates:     make([]colState, len(cfg.Columns)),
		searchInput:   ti,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m gridModel[R]) Init() tea.Cmd {
	return nil
}

func (m gridModel[R]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ensureRowVisible()

	case animTickMsg:
		cmd := m.updateAnimation()
		return m, cmd

	case statusClearMsg:
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}
		return m, nil

	case tea.KeyMsg:
		m.animating = false

		switch m.mode {
		case tableModeSearch:
			return m.updateSearch(msg)
		case tableModeAction:
			return m.updateAction(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m gridModel[R]) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := m.ctrl.Config()
	view := m.ctrl.View()

	switch {
	case key.Matches(msg, gridKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, gridKeys.Search):
		if !cfg.Searchable {
			return m, m.setError("search is disabled for this grid")
		}
		m.mode = tableModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, gridKeys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureRowVisible()
		}

	case key.Matches(msg, gridKeys.Down):
		if m.cursor < len(view.Rows)-1 {
			m.cursor++
			m.ensureRowVisible()
		}

	case key.Matches(msg, gridKeys.Left):
		colStartX := m.getColStartX(m.colCursor)
		if colStartX < m.scrollX {
			m.scrollX = max(colStartX, m.scrollX-3, 0)
		} else if m.colCursor > 0 {
			m.colCursor--
			m.ensureColVisible()
		}

	case key.Matches(msg, gridKeys.Right):
		colEndX := m.getColEndX(m.colCursor)
		if colEndX > m.scrollX+m.viewportWidth() {
			m.scrollX = min(m.scrollX+3, m.getMaxScrollX())
		} else if m.colCursor < len(m.colStates)-1 {
			m.colCursor++
			m.ensureColVisible()
		}

	case key.Matches(msg, gridKeys.ShiftLeft):
		return m, m.startAnimation(m.scrollX - max(m.width/2, 1))

	case key.Matches(msg, gridKeys.ShiftRight):
		return m, m.startAnimation(m.scrollX + max(m.width/2, 1))

	case key.Matches(msg, gridKeys.PrevPage):
		if view.Pagination != nil && view.Pagination.HasPrev() {
			m.ctrl.SetPage(view.Pagination.Current - 1)
			m.resetRows()
		}

	case key.Matches(msg, gridKeys.NextPage):
		if view.Pagination != nil && view.Pagination.HasNext() {
			m.ctrl.SetPage(view.Pagination.Current + 1)
			m.resetRows()
		}

	case key.Matches(msg, gridKeys.GrowPage), key.Matches(msg, gridKeys.ShrinkPage):
		if cfg.Pagination == nil || view.Pagination == nil {
			return m, m.setError("pagination is disabled for this grid")
		}
		grow := key.Matches(msg, gridKeys.GrowPage)
		size, ok := nextPageSize(cfg.Pagination.PageSizes, view.Pagination.PageSize, grow)
		if !ok {
			return m, nil
		}
		m.ctrl.SetPageSize(size)
		m.resetRows()
		return m, m.setStatus(fmt.Sprintf("%d rows per page", size))

	case key.Matches(msg, gridKeys.Home):
		m.cursor = 0
		m.scrollY = 0
		m.scrollX = 0

	case key.Matches(msg, gridKeys.End):
		if n := len(view.Rows); n > 0 {
			m.cursor = n - 1
			m.ensureRowVisible()
		}

	case key.Matches(msg, gridKeys.Expand):
		if m.colCursor < len(m.colStates) {
			if m.colStates[m.colCursor] == colStateExpanded {
				m.colStates[m.colCursor] = colStateDefault
			} else {
				m.colStates[m.colCursor] = colStateExpanded
			}
			m.ensureColVisible()
		}

	case key.Matches(msg, gridKeys.Hide):
		if m.colCursor < len(m.colStates) {
			if m.colStates[m.colCursor] == colStateHidden {
				m.colStates[m.colCursor] = colStateDefault
			} else {
				m.colStates[m.colCursor] = colStateHidden
			}
			m.ensureColVisible()
		}

	case key.Matches(msg, gridKeys.Sort):
		return m, m.sortColumn()

	case key.Matches(msg, gridKeys.Toggle):
		if !cfg.Selectable {
			return m, m.setError("selection is disabled for this grid")
		}
		m.ctrl.ToggleVisible(m.cursor)

	case key.Matches(msg, gridKeys.ToggleAll):
		if !cfg.Selectable {
			return m, m.setError("selection is disabled for this grid")
		}
		m.ctrl.ToggleAllOnPage(view.TriState != grid.SelectAll)

	case key.Matches(msg, gridKeys.Clear):
		if len(view.SelectedKeys) > 0 {
			m.ctrl.ClearSelection()
			return m, m.setStatus("Selection cleared")
		}

	case key.Matches(msg, gridKeys.Export):
		return m, m.export(m.exportFormat)

	case key.Matches(msg, gridKeys.ExportJSON):
		return m, m.export(grid.FormatJSON)

	case key.Matches(msg, gridKeys.YankCell):
		return m, m.yankCell()

	case key.Matches(msg, gridKeys.YankRows):
		return m, m.yankRows()

	case key.Matches(msg, gridKeys.Actions):
		return m, m.openActions()

	case key.Matches(msg, gridKeys.PrintJSON):
		m.exitMode = exitJSON
		return m, tea.Quit

	case key.Matches(msg, gridKeys.PrintRaw):
		m.exitMode = exitRaw
		return m, tea.Quit

	case key.Matches(msg, gridKeys.PrintPlain):
		m.exitMode = exitPlain
		return m, tea.Quit
	}

	return m, nil
}

// nextPageSize returns the next configured size above (grow) or below the
// current one.
func nextPageSize(sizes []int, current int, grow bool) (int, bool) {
	sorted := slices.Clone(sizes)
	slices.Sort(sorted)
	if grow {
		for _, s := range sorted {
			if s > current {
				return s, true
			}
		}
		return 0, false
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] < current {
			return sorted[i], true
		}
	}
	return 0, false
}

func (m *gridModel[R]) resetRows() {
	m.cursor = 0
	m.scrollY = 0
}

// ═══════════════════════════════════════════════════════════════════════════
// Search
// ═══════════════════════════════════════════════════════════════════════════

func (m gridModel[R]) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = tableModeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.ctrl.Search("")
		m.resetRows()
		return m, nil
	case tea.KeyEnter:
		m.mode = tableModeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filter as the user types
	if term := m.searchInput.Value(); term != m.ctrl.State().Search {
		m.ctrl.Search(term)
		m.resetRows()
	}
	return m, cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Grid actions
// ═══════════════════════════════════════════════════════════════════════════

func (m *gridModel[R]) currentColumn() (grid.Column[R], bool) {
	cols := m.ctrl.Config().Columns
	if m.colCursor < 0 || m.colCursor >= len(cols) {
		return grid.Column[R]{}, false
	}
	return cols[m.colCursor], true
}

func (m *gridModel[R]) sortColumn() tea.Cmd {
	col, ok := m.currentColumn()
	if !ok {
		return nil
	}
	if !m.ctrl.Config().Sortable || !col.Sortable() {
		return m.setError(fmt.Sprintf("%s is not sortable", col.Title))
	}
	view := m.ctrl.RequestSort(col.Key)
	m.resetRows()
	if view.Sort == nil {
		return m.setStatus("Sort cleared")
	}
	return m.setStatus(fmt.Sprintf("Sorted by %s (%s)", col.Title, view.Sort.Order))
}

// openActions runs the only action enabled on the cursor row, or offers the
// enabled ones for a numbered pick.
func (m *gridModel[R]) openActions() tea.Cmd {
	if len(m.ctrl.Config().Actions) == 0 {
		return m.setError("no actions for this grid")
	}
	actions := m.ctrl.EnabledActions(m.cursor)
	switch len(actions) {
	case 0:
		return m.setError("no actions available for this row")
	case 1:
		return m.runAction(actions[0].Label)
	}
	if len(actions) > 9 {
		actions = actions[:9]
	}
	m.actionChoices = actions
	m.mode = tableModeAction
	m.statusMsg = ""
	return nil
}

// updateAction handles the key pressed while picking an action. Anything
// but a listed number cancels.
func (m gridModel[R]) updateAction(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	choices := m.actionChoices
	m.mode = tableModeNormal
	m.actionChoices = nil
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return m, nil
	}
	n := int(msg.Runes[0] - '1')
	if n < 0 || n >= len(choices) {
		return m, nil
	}
	return m, m.runAction(choices[n].Label)
}

func (m *gridModel[R]) runAction(label string) tea.Cmd {
	if err := m.ctrl.RunAction(label, m.cursor); err != nil {
		return m.setError(err.Error())
	}
	return m.setStatus("Ran " + label)
}

func (m *gridModel[R]) export(format grid.ExportFormat) tea.Cmd {
	total := m.ctrl.View().Total
	if err := m.ctrl.Export(format); err != nil {
		return m.setError(fmt.Sprintf("export failed: %s", err))
	}
	return m.setStatus(fmt.Sprintf("Exported %d rows as %s", total, format))
}

// ═══════════════════════════════════════════════════════════════════════════
// Status Message (flash notification)
// ═══════════════════════════════════════════════════════════════════════════

type statusClearMsg struct{}

const statusDuration = 2 * time.Second

// setStatus sets a temporary status message that auto-clears.
func (m *gridModel[R]) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = false
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func (m *gridModel[R]) setError(msg string) tea.Cmd {
	cmd := m.setStatus(msg)
	m.statusErr = true
	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

// yankCell copies the cell under the cursor to the system clipboard.
func (m *gridModel[R]) yankCell() tea.Cmd {
	view := m.ctrl.View()
	col, ok := m.currentColumn()
	if !ok || m.cursor >= len(view.Rows) {
		return nil
	}
	val := grid.Stringify(m.get(view.Rows[m.cursor], col.Key))
	if err := clipboard.WriteAll(val); err != nil {
		return m.setError(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus(fmt.Sprintf("Copied: %s", Truncate(oneLine(val), 40)))
}

// yankRows copies the selected rows as CSV, or the cursor row when nothing
// is selected.
func (m *gridModel[R]) yankRows() tea.Cmd {
	view := m.ctrl.View()
	rows := m.ctrl.SelectedSorted()
	if len(rows) == 0 {
		if m.cursor >= len(view.Rows) {
			return nil
		}
		rows = []R{view.Rows[m.cursor]}
	}
	csv := grid.EncodeCSV(view.Columns, rows, m.get)
	if err := clipboard.WriteAll(csv); err != nil {
		return m.setError(fmt.Sprintf("clipboard error: %s", err))
	}
	if len(rows) == 1 {
		return m.setStatus("Copied 1 row as CSV")
	}
	return m.setStatus(fmt.Sprintf("Copied %d rows as CSV", len(rows)))
}

// ═══════════════════════════════════════════════════════════════════════════
// Animation
// ═══════════════════════════════════════════════════════════════════════════

type animTickMsg time.Time

const (
	animationFrameInterval = 16 * time.Millisecond
	animationFraction      = 0.25
	animationSnapThreshold = 1
)

func animTick() tea.Cmd {
	return tea.Tick(animationFrameInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func (m *gridModel[R]) startAnimation(targetX int) tea.Cmd {
	targetX = min(max(targetX, 0), m.getMaxScrollX())
	m.animTargetX = targetX

	if targetX == m.scrollX {
		m.animating = false
		return nil
	}
	if !m.animating {
		m.animating = true
		return animTick()
	}
	return nil
}

func (m *gridModel[R]) updateAnimation() tea.Cmd {
	if !m.animating {
		return nil
	}

	remaining := m.animTargetX - m.scrollX
	if remaining >= -animationSnapThreshold && remaining <= animationSnapThreshold {
		m.scrollX = m.animTargetX
		m.animating = false
		return nil
	}

	delta := int(float64(remaining) * animationFraction)
	if delta == 0 {
		delta = 1
		if remaining < 0 {
			delta = -1
		}
	}
	m.scrollX += delta
	return animTick()
}

// ═══════════════════════════════════════════════════════════════════════════
// Geometry
// ═══════════════════════════════════════════════════════════════════════════

// prefixWidth is the width of the checkbox column, when shown.
func (m gridModel[R]) prefixWidth() int {
	if m.ctrl.Config().Selectable {
		return 3 + colGap
	}
	return 0
}

func (m gridModel[R]) getColDisplayWidth(colIdx int) int {
	if colIdx >= len(m.colStates) {
		return m.colLimit
	}
	switch m.colStates[colIdx] {
	case colStateExpanded:
		return max(m.fullColWidths[colIdx], minColWidth)
	case colStateHidden:
		return hiddenColWidth
	default:
		return max(min(m.fullColWidths[colIdx], m.colLimits[colIdx]), minColWidth)
	}
}

func (m gridModel[R]) getColStartX(colIdx int) int {
	x := m.prefixWidth()
	for i := 0; i < colIdx && i < len(m.colStates); i++ {
		x += m.getColDisplayWidth(i) + colGap
	}
	return x
}

func (m gridModel[R]) getColEndX(colIdx int) int {
	return m.getColStartX(colIdx) + m.getColDisplayWidth(colIdx)
}

func (m gridModel[R]) getTotalWidth() int {
	return m.getColStartX(len(m.colStates))
}

func (m gridModel[R]) viewportWidth() int {
	return max(m.width-2, 1)
}

func (m gridModel[R]) getMaxScrollX() int {
	return max(m.getTotalWidth()-m.width+2, 0)
}

func (m *gridModel[R]) ensureColVisible() {
	colStartX := m.getColStartX(m.colCursor)
	colEndX := m.getColEndX(m.colCursor)
	viewport := m.viewportWidth()

	if colStartX < m.scrollX {
		m.scrollX = colStartX
	} else if colEndX > m.scrollX+viewport {
		if colEndX-colStartX <= viewport {
			m.scrollX = colEndX - viewport
		} else {
			m.scrollX = colStartX
		}
	}
	m.scrollX = min(max(m.scrollX, 0), m.getMaxScrollX())
}

func (m gridModel[R]) visibleRowCount() int {
	// title, search bar, header, separator / indicators, summary, help
	return max(m.height-7, 1)
}

func (m *gridModel[R]) ensureRowVisible() {
	visibleRows := m.visibleRowCount()
	if m.cursor < m.scrollY {
		m.scrollY = m.cursor
	} else if m.cursor >= m.scrollY+visibleRows {
		m.scrollY = m.cursor - visibleRows + 1
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m gridModel[R]) View() string {
	if !m.ready {
		return "Loading..."
	}

	view := m.ctrl.View()
	var sb strings.Builder

	// Title line
	title := m.title
	if title == "" {
		title = "gridview"
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	if view.Search != "" {
		sb.WriteString(styles.Render(headerStyle, fmt.Sprintf("%s: %d/%d rows, %d columns", title, view.Total, view.DataLen, len(view.Columns))))
	} else {
		sb.WriteString(styles.Render(headerStyle, fmt.Sprintf("%s: %d rows, %d columns", title, view.DataLen, len(view.Columns))))
	}

	var stateInfo []string
	for i, state := range m.colStates {
		switch state {
		case colStateExpanded:
			stateInfo = append(stateInfo, view.Columns[i].Title+"+")
		case colStateHidden:
			stateInfo = append(stateInfo, view.Columns[i].Title+"-")
		}
	}
	if len(stateInfo) > 0 {
		sb.WriteString(styles.MutedMsg(fmt.Sprintf("  [%s]", strings.Join(stateInfo, ", "))))
	}
	sb.WriteString("\n")

	// Search bar
	switch {
	case m.mode == tableModeSearch:
		sb.WriteString(fmt.Sprintf("/%s\n", m.searchInput.View()))
	case view.Search != "":
		sb.WriteString(styles.MutedMsg(fmt.Sprintf("filter: %s", view.Search)) + "\n")
	default:
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderTable(view))

	// Footer
	sb.WriteString("\n")
	var showTotal func(total, from, to int) string
	if p := m.ctrl.Config().Pagination; p != nil {
		showTotal = p.ShowTotal
	}
	sb.WriteString(styles.Render(styles.PaginationStyle, Footer(view, showTotal)))
	sb.WriteString("\n")
	switch {
	case m.mode == tableModeAction:
		sb.WriteString(styles.MutedMsg(actionMenu(m.actionChoices)))
	case m.statusMsg != "" && time.Now().Before(m.statusUntil):
		if m.statusErr {
			sb.WriteString(styles.WarningMsg(m.statusMsg))
		} else {
			sb.WriteString(styles.SuccessMsg(m.statusMsg))
		}
	case m.mode == tableModeSearch:
		sb.WriteString(styles.MutedMsg("enter confirm  esc clear"))
	default:
		sb.WriteString(styles.MutedMsg(m.helpLine()))
	}

	return sb.String()
}

func (m gridModel[R]) helpLine() string {
	cfg := m.ctrl.Config()
	parts := []string{"↑↓←→ nav"}
	if cfg.Searchable {
		parts = append(parts, "/ search")
	}
	if cfg.Sortable {
		parts = append(parts, "s sort")
	}
	if cfg.Pagination != nil {
		parts = append(parts, "[ ] page", "+/- size")
	}
	if cfg.Selectable {
		parts = append(parts, "space select", "a page", "c clear")
	}
	if cfg.Exportable {
		parts = append(parts, "e export")
	}
	if len(cfg.Actions) > 0 {
		parts = append(parts, "r actions")
	}
	parts = append(parts, "y/Y copy", "enter expand", "H hide", "q quit")
	return strings.Join(parts, "  ")
}

func actionMenu[R any](actions []grid.Action[R]) string {
	parts := make([]string, 0, len(actions)+1)
	for i, a := range actions {
		parts = append(parts, fmt.Sprintf("%d %s", i+1, a.Label))
	}
	parts = append(parts, "esc cancel")
	return strings.Join(parts, "  ")
}

// ═══════════════════════════════════════════════════════════════════════════
// Render Table
// ═══════════════════════════════════════════════════════════════════════════

func (m gridModel[R]) renderTable(view grid.View[R]) string {
	var sb strings.Builder

	if len(view.Columns) == 0 {
		return "No columns\n"
	}

	viewportWidth := m.viewportWidth()
	cut := func(line string) string {
		return padRight(ansi.Cut(line, m.scrollX, m.scrollX+viewportWidth), viewportWidth)
	}

	sb.WriteString(cut(m.buildHeaderLine(view)))
	sb.WriteString("\n")
	sb.WriteString(cut(m.buildSeparatorLine()))
	sb.WriteString("\n")

	if view.Empty() {
		msg := "No data"
		if view.Search != "" {
			msg = fmt.Sprintf("No rows match %q", view.Search)
		}
		sb.WriteString(styles.MutedMsg(msg))
		sb.WriteString("\n")
		return sb.String()
	}

	visibleRows := m.visibleRowCount()
	endRow := min(m.scrollY+visibleRows, len(view.Rows))
	for i := m.scrollY; i < endRow; i++ {
		sb.WriteString(cut(m.buildRowLine(view, i)))
		sb.WriteString("\n")
	}

	// Scroll indicators
	var indicators []string
	if m.scrollX > 0 {
		indicators = append(indicators, "◀")
	}
	if m.scrollX+viewportWidth < m.getTotalWidth() {
		indicators = append(indicators, "▶")
	}
	if m.scrollY > 0 {
		indicators = append(indicators, "▲")
	}
	if m.scrollY+visibleRows < len(view.Rows) {
		indicators = append(indicators, "▼")
	}
	if len(indicators) > 0 {
		sb.WriteString(styles.MutedMsg(strings.Join(indicators, " ")))
	}

	return sb.String()
}

func (m gridModel[R]) buildHeaderLine(view grid.View[R]) string {
	var sb strings.Builder

	if m.ctrl.Config().Selectable {
		sb.WriteString(styles.Checkbox(view.TriState.String()))
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent).Underline(true)
	for i, col := range view.Columns {
		colWidth := m.getColDisplayWidth(i)

		name := col.Title
		sorted := view.Sort != nil && view.Sort.Field == col.Key
		if sorted {
			marker := styles.SymbolAsc
			if view.Sort.Order == grid.Descending {
				marker = styles.SymbolDesc
			}
			name += " " + marker
		}
		if m.colStates[i] == colStateHidden {
			name = "..."
		}
		text := PadOrTruncate(name, colWidth)

		switch {
		case i == m.colCursor:
			sb.WriteString(styles.Render(selectedStyle, text))
		case sorted:
			sb.WriteString(styles.Render(styles.SortedStyle, text))
		default:
			sb.WriteString(styles.Render(styles.HeaderStyle, text))
		}
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	return sb.String()
}

func (m gridModel[R]) buildSeparatorLine() string {
	var sb strings.Builder

	if m.ctrl.Config().Selectable {
		sb.WriteString(styles.Mute("───"))
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	selectedSepStyle := lipgloss.NewStyle().Foreground(styles.Accent)
	for i := range m.colStates {
		sep := strings.Repeat("─", m.getColDisplayWidth(i))
		if i == m.colCursor {
			sb.WriteString(styles.Render(selectedSepStyle, sep))
		} else {
			sb.WriteString(styles.Mute(sep))
		}
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	return sb.String()
}

func (m gridModel[R]) buildRowLine(view grid.View[R], idx int) string {
	var sb strings.Builder

	row := view.Rows[idx]
	isCursorRow := idx == m.cursor
	isMarked := view.Selected[idx]

	selectedCellStyle := lipgloss.NewStyle().Background(styles.Accent).Foreground(lipgloss.Color("#000000"))
	search := strings.ToLower(view.Search)

	if m.ctrl.Config().Selectable {
		mark := "none"
		if isMarked {
			mark = "checked"
		}
		sb.WriteString(styles.Checkbox(mark))
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	for i, col := range view.Columns {
		colWidth := m.getColDisplayWidth(i)
		val := cellText(col, row, m.get)

		display := PadOrTruncate(val, colWidth)
		if m.colStates[i] == colStateHidden {
			display = PadOrTruncate("...", colWidth)
		}

		switch {
		case isCursorRow && i == m.colCursor:
			sb.WriteString(styles.Render(selectedCellStyle, display))
		case isCursorRow:
			sb.WriteString(styles.Render(styles.SelectedStyle, display))
		case isMarked:
			sb.WriteString(styles.Render(styles.MarkedStyle, display))
		case val == "NULL":
			sb.WriteString(styles.Render(styles.NullStyle, display))
		case search != "" && strings.Contains(strings.ToLower(val), search):
			sb.WriteString(styles.Render(styles.MatchStyle, display))
		default:
			sb.WriteString(display)
		}
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	return sb.String()
}
