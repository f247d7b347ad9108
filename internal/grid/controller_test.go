package grid

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func peopleColumns() []Column[rec] {
	return []Column[rec]{
		{Key: "name", Title: "Name"},
		{Key: "email", Title: "Email"},
		{Key: "age", Title: "Age"},
	}
}

type recorder struct {
	searches  []string
	sorts     []*SortState
	pages     [][2]int
	selRows   [][]rec
	selKeys   [][]Key
	downloads []string
	contents  []string
	mimes     []string
}

func newController(t *testing.T, data []rec, mutate func(*Config[rec])) (*Controller[rec], *recorder) {
	t.Helper()
	r := &recorder{}
	cfg := DefaultConfig(peopleColumns(), get)
	cfg.OnSearch = func(term string) { r.searches = append(r.searches, term) }
	cfg.OnSortChange = func(s *SortState) { r.sorts = append(r.sorts, s) }
	cfg.OnPageChange = func(page, size int) { r.pages = append(r.pages, [2]int{page, size}) }
	cfg.OnSelectionChange = func(rows []rec, keys []Key) {
		r.selRows = append(r.selRows, rows)
		r.selKeys = append(r.selKeys, keys)
	}
	cfg.Downloader = DownloaderFunc(func(name, content, mime string) error {
		r.downloads = append(r.downloads, name)
		r.contents = append(r.contents, content)
		r.mimes = append(r.mimes, mime)
		return nil
	})
	cfg.Now = func() time.Time { return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC) }
	if mutate != nil {
		mutate(&cfg)
	}
	return New(data, cfg), r
}

func TestControllerInitialView(t *testing.T) {
	c, _ := newController(t, people, nil)
	v := c.View()
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, []Key{IntKey(1), IntKey(2), IntKey(3)}, v.Keys)
	assert.Nil(t, v.Pagination)
	assert.Nil(t, v.Sort)
	assert.Equal(t, SelectNone, v.TriState)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 3, v.DataLen)
}

func TestControllerEmptyDataset(t *testing.T) {
	c, _ := newController(t, nil, func(cfg *Config[rec]) {
		cfg.Pagination = &Pagination{}
		cfg.Selectable = true
	})
	v := c.View()
	assert.True(t, v.Empty())
	require.NotNil(t, v.Pagination)
	assert.Equal(t, 0, v.Pagination.Total)
	assert.Equal(t, SelectNone, v.TriState)
}

func TestControllerSearch(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) {
		cfg.Pagination = &Pagination{Current: 2, PageSize: 1}
	})
	require.Equal(t, 2, c.State().Page)

	v := c.Search("john")
	assert.Equal(t, []any{"John Doe"}, names(v.Rows), "page reset shows the first match")
	assert.Equal(t, 1, c.State().Page)
	assert.Equal(t, []string{"john"}, r.searches)
	assert.Empty(t, r.pages, "search resets the page without a page notification")
	assert.Equal(t, 2, v.Total)
}

func TestControllerSearchDisabled(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) { cfg.Searchable = false })
	v := c.Search("john")
	assert.Len(t, v.Rows, 3)
	assert.Empty(t, r.searches)
	assert.Equal(t, "", c.State().Search)
}

func TestControllerSortCycle(t *testing.T) {
	c, r := newController(t, people, nil)

	v := c.RequestSort("name")
	require.Len(t, r.sorts, 1)
	assert.Equal(t, &SortState{Field: "name", Order: Ascending}, r.sorts[0])
	assert.Equal(t, []any{"Bob Johnson", "Jane Smith", "John Doe"}, names(v.Rows))

	v = c.RequestSort("name")
	assert.Equal(t, Descending, v.Sort.Order)
	assert.Equal(t, []any{"John Doe", "Jane Smith", "Bob Johnson"}, names(v.Rows))

	v = c.RequestSort("name")
	assert.Nil(t, v.Sort)
	require.Len(t, r.sorts, 3)
	assert.Nil(t, r.sorts[2])
	assert.Equal(t, names(people), names(v.Rows))
}

func TestControllerSortRespectsSortable(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) {
		cfg.Columns[1].DisableSort = true
	})
	c.RequestSort("email")
	c.RequestSort("missing")
	assert.Empty(t, r.sorts)

	c2, r2 := newController(t, people, func(cfg *Config[rec]) { cfg.Sortable = false })
	c2.RequestSort("name")
	assert.Empty(t, r2.sorts)
	assert.Nil(t, c2.View().Sort)
}

func TestControllerPagination(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) {
		cfg.Pagination = &Pagination{PageSize: 2}
	})
	v := c.View()
	require.NotNil(t, v.Pagination)
	assert.Equal(t, "Showing 1-2 of 3 items", v.Pagination.Summary(nil))
	assert.Len(t, v.Rows, 2)

	v = c.SetPage(2)
	assert.Equal(t, []any{"Bob Johnson"}, names(v.Rows))
	assert.Equal(t, [][2]int{{2, 2}}, r.pages)

	v = c.SetPage(99)
	assert.Equal(t, 2, v.Pagination.Current, "pages are clamped")
	v = c.SetPage(-4)
	assert.Equal(t, 1, v.Pagination.Current)

	v = c.SetPageSize(25)
	assert.Equal(t, [2]int{1, 25}, r.pages[len(r.pages)-1])
	assert.Len(t, v.Rows, 3)

	before := len(r.pages)
	c.SetPageSize(0)
	assert.Len(t, r.pages, before, "non-positive page sizes are ignored")
	assert.Equal(t, 25, c.State().PageSize)
}

func TestControllerPageRowsMatchSortedWindow(t *testing.T) {
	data := make([]rec, 23)
	for i := range data {
		data[i] = rec{"id": i, "name": string(rune('a' + (i*7)%23)), "age": i % 5}
	}
	c, _ := newController(t, data, func(cfg *Config[rec]) {
		cfg.Pagination = &Pagination{PageSize: 5}
	})
	c.RequestSort("age")
	sorted := c.Sorted()
	for page := 1; page <= 5; page++ {
		v := c.SetPage(page)
		assert.Equal(t, Paginate(sorted, page, 5), v.Rows, "page %d", page)
	}
}

func TestControllerRowSelection(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) { cfg.Selectable = true })

	v := c.ToggleRow(people[0], 0, true)
	require.Len(t, r.selRows, 1)
	assert.Equal(t, []rec{people[0]}, r.selRows[0])
	assert.Equal(t, []Key{IntKey(1)}, r.selKeys[0])
	assert.Equal(t, []bool{true, false, false}, v.Selected)
	assert.Equal(t, SelectSome, v.TriState)

	c.ToggleRow(people[2], 2, true)
	assert.Equal(t, []rec{people[0], people[2]}, r.selRows[1], "selected rows follow dataset order")

	v = c.ToggleRow(people[0], 0, false)
	assert.Equal(t, []rec{people[2]}, r.selRows[2])
	assert.Equal(t, []Key{IntKey(3)}, v.SelectedKeys)
}

func TestControllerSelectionSurvivesSearchAndSort(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) { cfg.Selectable = true })
	c.ToggleRow(people[1], 1, true)
	c.Search("bob")
	c.RequestSort("age")
	v := c.Search("")
	assert.Equal(t, []Key{IntKey(2)}, v.SelectedKeys)
	assert.Equal(t, []any{"Jane Smith", "John Doe", "Bob Johnson"}, names(v.Rows))
	assert.Equal(t, []bool{true, false, false}, v.Selected)
	assert.Len(t, r.selRows, 1)
}

func TestControllerSelectAllScopedToPage(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) {
		cfg.Selectable = true
		cfg.Pagination = &Pagination{PageSize: 2}
	})

	v := c.ToggleAllOnPage(true)
	assert.Equal(t, SelectAll, v.TriState)
	assert.Equal(t, []rec{people[0], people[1]}, r.selRows[0])
	assert.Equal(t, []Key{IntKey(1), IntKey(2)}, r.selKeys[0])

	v = c.SetPage(2)
	assert.Equal(t, SelectNone, v.TriState)

	v = c.ToggleAllOnPage(true)
	assert.Equal(t, []Key{IntKey(3)}, v.SelectedKeys, "select-all replaces the selection with the page")

	v = c.ToggleAllOnPage(false)
	assert.Empty(t, v.SelectedKeys)
	assert.Empty(t, r.selRows[len(r.selRows)-1])
}

func TestControllerSelectAllWholeDataset(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) { cfg.Selectable = true })
	c.ToggleAllOnPage(true)
	assert.Equal(t, people, r.selRows[0])
	assert.Equal(t, []Key{IntKey(1), IntKey(2), IntKey(3)}, r.selKeys[0])
}

func TestControllerSelectionDisabled(t *testing.T) {
	c, r := newController(t, people, nil)
	v := c.ToggleRow(people[0], 0, true)
	assert.Empty(t, v.SelectedKeys)
	c.ToggleAllOnPage(true)
	c.ClearSelection()
	assert.Empty(t, r.selRows)
}

func TestControllerStaleKeysPersist(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) { cfg.Selectable = true })
	c.ToggleRow(people[2], 2, true)

	v := c.SetData(people[:2])
	assert.Equal(t, []Key{IntKey(3)}, v.SelectedKeys)
	assert.Equal(t, SelectNone, v.TriState)

	c.ToggleRow(people[0], 0, true)
	assert.Equal(t, []rec{people[0]}, r.selRows[1], "rows derive from the current dataset")
	assert.Equal(t, []Key{IntKey(3), IntKey(1)}, r.selKeys[1])

	v = c.ClearSelection()
	assert.Empty(t, v.SelectedKeys)
}

func TestControllerToggleVisible(t *testing.T) {
	c, _ := newController(t, people, func(cfg *Config[rec]) { cfg.Selectable = true })
	c.RequestSort("age")
	v := c.ToggleVisible(0)
	assert.Equal(t, []Key{IntKey(2)}, v.SelectedKeys)
	v = c.ToggleVisible(0)
	assert.Empty(t, v.SelectedKeys)
	v = c.ToggleVisible(10)
	assert.Empty(t, v.SelectedKeys)
}

func TestControllerPositionalKeys(t *testing.T) {
	rows := []rec{{"name": "x"}, {"name": "y"}}
	c, r := newController(t, rows, func(cfg *Config[rec]) { cfg.Selectable = true })
	assert.Equal(t, []Key{IntKey(0), IntKey(1)}, c.View().Keys)
	c.ToggleRow(rows[1], 1, true)
	assert.Equal(t, []rec{rows[1]}, r.selRows[0])
}

func TestControllerPositionalKeysAcrossPages(t *testing.T) {
	rows := []rec{{"name": "a"}, {"name": "b"}, {"name": "c"}}
	c, r := newController(t, rows, func(cfg *Config[rec]) {
		cfg.Selectable = true
		cfg.Pagination = &Pagination{PageSize: 2}
	})

	v := c.SetPage(2)
	assert.Equal(t, []Key{IntKey(2)}, v.Keys, "keys are dataset positions, not page positions")

	c.ToggleVisible(0)
	require.Len(t, r.selRows, 1)
	assert.Equal(t, []rec{rows[2]}, r.selRows[0])
	assert.Equal(t, []Key{IntKey(2)}, r.selKeys[0])

	c.RequestSort("name")
	c.RequestSort("name")
	v = c.SetPage(1)
	require.Equal(t, Descending, v.Sort.Order)
	assert.Equal(t, []Key{IntKey(2), IntKey(1)}, v.Keys)
	assert.Equal(t, []bool{true, false}, v.Selected, "selection follows the row after sorting")
	assert.Equal(t, []rec{rows[2]}, c.SelectedSorted())
}

func TestControllerKeyFunc(t *testing.T) {
	c, _ := newController(t, people, func(cfg *Config[rec]) {
		cfg.Selectable = true
		cfg.KeyFunc = func(row rec) Key { return StringKey(Stringify(row["email"])) }
	})
	v := c.ToggleRow(people[1], 0, true)
	assert.Equal(t, []Key{StringKey("jane@example.com")}, v.SelectedKeys)
}

func TestControllerExportCSV(t *testing.T) {
	data := []rec{
		{"id": 1, "name": `Say "hi"`, "email": "a@b.c", "age": 0},
		{"id": 2, "name": "Jane", "email": nil, "age": 25},
	}
	c, r := newController(t, data, nil)
	require.NoError(t, c.Export(FormatCSV))

	require.Len(t, r.downloads, 1)
	assert.Equal(t, "data-2024-03-09.csv", r.downloads[0])
	assert.Equal(t, "text/csv", r.mimes[0])
	want := `"Name","Email","Age"` + "\n" +
		`"Say ""hi""","a@b.c","0"` + "\n" +
		`"Jane","","25"`
	assert.Equal(t, want, r.contents[0])
}

func TestControllerExportUsesSortedFilteredRows(t *testing.T) {
	c, r := newController(t, people, func(cfg *Config[rec]) {
		cfg.Pagination = &Pagination{PageSize: 1}
		cfg.OnExport = nil
	})
	c.Search("j")
	c.RequestSort("age")
	require.NoError(t, c.Export(FormatCSV))
	want := `"Name","Email","Age"` + "\n" +
		`"Jane Smith","jane@example.com","25"` + "\n" +
		`"John Doe","john@example.com","30"` + "\n" +
		`"Bob Johnson","bob@example.com","35"`
	assert.Equal(t, want, r.contents[0], "export spans every page")
}

func TestControllerExportHandler(t *testing.T) {
	var gotFormat ExportFormat
	var gotRows []rec
	c, r := newController(t, people, func(cfg *Config[rec]) {
		cfg.OnExport = func(f ExportFormat, rows []rec) {
			gotFormat, gotRows = f, rows
		}
	})
	require.NoError(t, c.Export(FormatCSV))
	assert.Equal(t, FormatCSV, gotFormat)
	assert.Equal(t, people, gotRows)
	assert.Empty(t, r.downloads)

	require.NoError(t, c.Export(FormatExcel))
	assert.Equal(t, FormatExcel, gotFormat)
}

func TestControllerExportErrors(t *testing.T) {
	c, _ := newController(t, people, nil)
	assert.ErrorIs(t, c.Export(FormatExcel), ErrUnsupportedFormat)

	c, _ = newController(t, people, func(cfg *Config[rec]) { cfg.Exportable = false })
	assert.ErrorIs(t, c.Export(FormatCSV), ErrExportDisabled)

	c, _ = newController(t, people, func(cfg *Config[rec]) { cfg.Downloader = nil })
	assert.ErrorIs(t, c.Export(FormatCSV), ErrNoDownloader)

	boom := errors.New("disk full")
	c, _ = newController(t, people, func(cfg *Config[rec]) {
		cfg.Downloader = DownloaderFunc(func(string, string, string) error { return boom })
	})
	assert.ErrorIs(t, c.Export(FormatCSV), boom)
}

func TestControllerExportJSON(t *testing.T) {
	c, r := newController(t, people[:1], nil)
	require.NoError(t, c.Export(FormatJSON))
	assert.Equal(t, "data-2024-03-09.json", r.downloads[0])
	assert.JSONEq(t, `[{"name":"John Doe","email":"john@example.com","age":30}]`, r.contents[0])
}

func TestReducePure(t *testing.T) {
	env := Env{Searchable: true, Selectable: true, Paginated: true, SortableFields: map[string]bool{"name": true}, Total: 30}
	st := State{Page: 2, PageSize: 10, Selection: NewSelection(IntKey(1))}

	next, change := Reduce(env, st, RowToggled{Key: IntKey(2), Selected: true})
	assert.Equal(t, ChangeSelection, change)
	assert.Equal(t, 1, st.Selection.Len(), "input state untouched")
	assert.Equal(t, 2, next.Selection.Len())

	next, change = Reduce(env, st, PageChanged{Page: 3})
	assert.Equal(t, ChangePage, change)
	assert.Equal(t, 3, next.Page)

	next, change = Reduce(env, st, PageChanged{Page: 4})
	assert.Equal(t, 3, next.Page)
	assert.True(t, change.Has(ChangePage))

	_, change = Reduce(env, st, SortRequested{Field: "age"})
	assert.Equal(t, Change(0), change)

	next, change = Reduce(env, st, SelectAllToggled{Selected: true, PageKeys: []Key{IntKey(5), IntKey(5)}})
	assert.Equal(t, ChangeSelection, change)
	assert.Equal(t, []Key{IntKey(5)}, next.Selection.Keys())

	assert.Equal(t, "search|page", (ChangeSearch | ChangePage).String())
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	f, err = ParseExportFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatExcel, f)
	_, err = ParseExportFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestControllerLogsEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, _ := newController(t, people, nil)
	c.WithLogger(zap.New(core))

	c.Search("jane")
	c.RequestSort("nope")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "event applied", entries[0].Message)
	assert.Equal(t, "grid", entries[0].LoggerName)
	assert.Equal(t, "search", entries[0].ContextMap()["event"])
	assert.Equal(t, "event ignored", entries[1].Message)

	c.WithLogger(nil)
	c.Search("")
	assert.Len(t, logs.All(), 2)
}

func TestControllerActions(t *testing.T) {
	var ran []string
	c, _ := newController(t, people, func(cfg *Config[rec]) {
		cfg.Actions = []Action[rec]{
			{Label: "Edit", Run: func(row rec) { ran = append(ran, "edit "+Stringify(row["name"])) }},
			{
				Label:    "Delete",
				Run:      func(row rec) { ran = append(ran, "delete "+Stringify(row["name"])) },
				Disabled: func(row rec) bool { return row["age"] == 35 },
			},
			{Label: "Broken"},
		}
	})
	require.Len(t, c.View().Actions, 3)

	labels := func(actions []Action[rec]) []string {
		out := make([]string, len(actions))
		for i, a := range actions {
			out[i] = a.Label
		}
		return out
	}
	assert.Equal(t, []string{"Edit", "Delete"}, labels(c.EnabledActions(0)))
	assert.Equal(t, []string{"Edit"}, labels(c.EnabledActions(2)), "disabled actions are skipped")
	assert.Nil(t, c.EnabledActions(5))

	require.NoError(t, c.RunAction("Edit", 1))
	require.NoError(t, c.RunAction("Delete", 0))
	assert.Equal(t, []string{"edit Jane Smith", "delete John Doe"}, ran)

	assert.ErrorIs(t, c.RunAction("Delete", 2), ErrActionDisabled)
	assert.ErrorIs(t, c.RunAction("Broken", 0), ErrActionDisabled)
	assert.ErrorIs(t, c.RunAction("Archive", 0), ErrUnknownAction)
	assert.ErrorIs(t, c.RunAction("Edit", 3), ErrNoRow)
	assert.Len(t, ran, 2)
}
