package grid

import "strings"

// State is everything the grid remembers between events.
type State struct {
	Search    string
	Sort      *SortState
	Page      int
	PageSize  int
	Selection Selection
}

// Event is a user interaction fed to Reduce.
type Event interface {
	eventName() string
}

type (
	// SearchChanged replaces the search term.
	SearchChanged struct{ Term string }
	// SortRequested is a header activation on Field.
	SortRequested struct{ Field string }
	// PageChanged requests a 1-based page.
	PageChanged struct{ Page int }
	// PageSizeChanged requests a new page size.
	PageSizeChanged struct{ Size int }
	// RowToggled selects or deselects one row key.
	RowToggled struct {
		Key      Key
		Selected bool
	}
	// SelectAllToggled selects exactly PageKeys, or clears the selection.
	SelectAllToggled struct {
		Selected bool
		PageKeys []Key
	}
	// SelectionCleared empties the selection.
	SelectionCleared struct{}
)

func (SearchChanged) eventName() string    { return "search" }
func (SortRequested) eventName() string    { return "sort" }
func (PageChanged) eventName() string      { return "page" }
func (PageSizeChanged) eventName() string  { return "page_size" }
func (RowToggled) eventName() string       { return "row_toggle" }
func (SelectAllToggled) eventName() string { return "select_all" }
func (SelectionCleared) eventName() string { return "clear_selection" }

// Env is the read-only context Reduce needs: feature switches and the number
// of rows that match the current search.
type Env struct {
	Searchable bool
	Selectable bool
	Paginated  bool
	// SortableFields lists the fields that accept sort requests.
	SortableFields map[string]bool
	// Total is the filtered row count under the current search term.
	Total int
}

// Change flags the notifications an event produced.
type Change uint8

const (
	ChangeSearch Change = 1 << iota
	ChangeSort
	ChangePage
	ChangeSelection
)

func (c Change) Has(flag Change) bool {
	return c&flag != 0
}

func (c Change) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		flag Change
		name string
	}{
		{ChangeSearch, "search"},
		{ChangeSort, "sort"},
		{ChangePage, "page"},
		{ChangeSelection, "selection"},
	} {
		if c.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Reduce applies ev to st. It is pure: the returned State shares no mutable
// data with st, and the returned Change says which callbacks are due.
// Events for disabled features leave the state untouched and report no
// change.
func Reduce(env Env, st State, ev Event) (State, Change) {
	switch e := ev.(type) {
	case SearchChanged:
		if !env.Searchable {
			return st, 0
		}
		st.Search = e.Term
		st.Page = 1
		return st, ChangeSearch

	case SortRequested:
		if !env.SortableFields[e.Field] {
			return st, 0
		}
		st.Sort = NextSort(st.Sort, e.Field)
		return st, ChangeSort

	case PageChanged:
		if !env.Paginated {
			return st, 0
		}
		st.Page = clampPage(e.Page, env.Total, st.PageSize)
		return st, ChangePage

	case PageSizeChanged:
		if !env.Paginated || e.Size < 1 {
			return st, 0
		}
		st.PageSize = e.Size
		st.Page = 1
		return st, ChangePage

	case RowToggled:
		if !env.Selectable {
			return st, 0
		}
		if e.Selected {
			st.Selection = st.Selection.With(e.Key)
		} else {
			st.Selection = st.Selection.Without(e.Key)
		}
		return st, ChangeSelection

	case SelectAllToggled:
		if !env.Selectable {
			return st, 0
		}
		if e.Selected {
			st.Selection = NewSelection(e.PageKeys...)
		} else {
			st.Selection = Selection{}
		}
		return st, ChangeSelection

	case SelectionCleared:
		if !env.Selectable {
			return st, 0
		}
		st.Selection = Selection{}
		return st, ChangeSelection
	}
	return st, 0
}
