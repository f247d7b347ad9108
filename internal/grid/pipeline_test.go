package grid

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec map[string]any

func get(r rec, key string) any { return r[key] }

func cols(keys ...string) []Column[rec] {
	out := make([]Column[rec], len(keys))
	for i, k := range keys {
		out[i] = Column[rec]{Key: k, Title: k}
	}
	return out
}

func names(rows []rec) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["name"]
	}
	return out
}

var people = []rec{
	{"id": 1, "name": "John Doe", "email": "john@example.com", "age": 30},
	{"id": 2, "name": "Jane Smith", "email": "jane@example.com", "age": 25},
	{"id": 3, "name": "Bob Johnson", "email": "bob@example.com", "age": 35},
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{0, "0"},
		{int64(-12), "-12"},
		{uint8(7), "7"},
		{1.5, "1.5"},
		{1e6, "1000000"},
		{float32(0.25), "0.25"},
		{true, "true"},
		{json.Number("42"), "42"},
		{[]byte("raw"), "raw"},
		{(*int)(nil), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stringify(tt.in), "Stringify(%#v)", tt.in)
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare(nil, nil))
	assert.Equal(t, -1, Compare(nil, 0))
	assert.Equal(t, 1, Compare("", nil))
	assert.Equal(t, -1, Compare(2, 10))
	assert.Equal(t, 1, Compare(10.5, 2))
	assert.Equal(t, 0, Compare(int64(3), 3.0))
	// Text that looks numeric compares as text.
	assert.Equal(t, 1, Compare("2", "10"))
	assert.Equal(t, 0, Compare("Apple", "apple"))
	assert.Equal(t, -1, Compare("apple", "Banana"))
	// Exact comparison of large integers.
	assert.Equal(t, -1, Compare(int64(math.MaxInt64-1), int64(math.MaxInt64)))
}

func TestKeyOf(t *testing.T) {
	k, ok := KeyOf(1)
	require.True(t, ok)
	assert.Equal(t, IntKey(1), k)

	k, ok = KeyOf(2.0)
	require.True(t, ok)
	assert.Equal(t, IntKey(2), k)

	k, ok = KeyOf(json.Number("7"))
	require.True(t, ok)
	assert.Equal(t, IntKey(7), k)

	k, ok = KeyOf("1")
	require.True(t, ok)
	assert.Equal(t, StringKey("1"), k)
	assert.NotEqual(t, IntKey(1), k)

	k, ok = KeyOf(1.5)
	require.True(t, ok)
	assert.Equal(t, StringKey("1.5"), k)

	_, ok = KeyOf(nil)
	assert.False(t, ok)
}

func TestResolverPrecedence(t *testing.T) {
	r := Resolver[rec]{Field: "id", Get: get}
	assert.Equal(t, IntKey(5), r.Resolve(rec{"id": 5}, 0))
	assert.Equal(t, StringKey("a"), r.Resolve(rec{"id": "a"}, 3))
	assert.Equal(t, IntKey(3), r.Resolve(rec{"name": "x"}, 3), "missing key falls back to index")
	assert.Equal(t, IntKey(0), r.Resolve(rec{"id": 0}, 9), "zero is a valid key")
	assert.Equal(t, StringKey(""), r.Resolve(rec{"id": ""}, 9), "empty string is a valid key")

	r.Func = func(row rec) Key { return StringKey("custom") }
	assert.Equal(t, StringKey("custom"), r.Resolve(rec{"id": 5}, 0))
}

func TestFilter(t *testing.T) {
	columns := cols("name", "email")

	t.Run("blank term is identity", func(t *testing.T) {
		assert.Equal(t, people, Filter(people, columns, get, ""))
		assert.Equal(t, people, Filter(people, columns, get, "   "))
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		got := Filter(people, columns, get, "JOHN")
		assert.Equal(t, []any{"John Doe", "Bob Johnson"}, names(got))
	})

	t.Run("only column fields are searched", func(t *testing.T) {
		assert.Empty(t, Filter(people, columns, get, "30"))
		assert.Len(t, Filter(people, cols("age"), get, "30"), 1)
	})

	t.Run("nulls never match", func(t *testing.T) {
		rows := []rec{{"name": nil}, {"name": "null"}}
		got := Filter(rows, cols("name"), get, "nul")
		assert.Equal(t, []any{"null"}, names(got))
	})

	t.Run("result is an order-preserving subsequence", func(t *testing.T) {
		got := Filter(people, columns, get, "example")
		assert.Equal(t, names(people), names(got))
	})
}

func TestSort(t *testing.T) {
	columns := cols("name", "age")

	t.Run("nil state keeps order", func(t *testing.T) {
		assert.Equal(t, people, Sort(people, nil, columns, get))
	})

	t.Run("ascending numbers", func(t *testing.T) {
		got := Sort(people, &SortState{Field: "age", Order: Ascending}, columns, get)
		assert.Equal(t, []any{"Jane Smith", "John Doe", "Bob Johnson"}, names(got))
	})

	t.Run("descending strings", func(t *testing.T) {
		got := Sort(people, &SortState{Field: "name", Order: Descending}, columns, get)
		assert.Equal(t, []any{"John Doe", "Jane Smith", "Bob Johnson"}, names(got))
	})

	t.Run("nulls first ascending and last descending", func(t *testing.T) {
		rows := []rec{{"name": "b", "age": 2}, {"name": "n", "age": nil}, {"name": "a", "age": 1}}
		asc := Sort(rows, &SortState{Field: "age"}, columns, get)
		assert.Equal(t, []any{"n", "a", "b"}, names(asc))
		desc := Sort(rows, &SortState{Field: "age", Order: Descending}, columns, get)
		assert.Equal(t, []any{"b", "a", "n"}, names(desc))
	})

	t.Run("stable for equal keys", func(t *testing.T) {
		rows := []rec{{"name": "x", "age": 1}, {"name": "y", "age": 1}, {"name": "z", "age": 0}}
		got := Sort(rows, &SortState{Field: "age"}, columns, get)
		assert.Equal(t, []any{"z", "x", "y"}, names(got))
	})

	t.Run("does not modify input", func(t *testing.T) {
		before := names(people)
		Sort(people, &SortState{Field: "name"}, columns, get)
		assert.Equal(t, before, names(people))
	})

	t.Run("descending after ascending equals descending", func(t *testing.T) {
		rows := []rec{{"name": "b", "age": 1}, {"name": "a", "age": 1}, {"name": "c", "age": 0}}
		asc := Sort(rows, &SortState{Field: "age"}, columns, get)
		twice := Sort(asc, &SortState{Field: "age", Order: Descending}, columns, get)
		once := Sort(rows, &SortState{Field: "age", Order: Descending}, columns, get)
		assert.Equal(t, names(once), names(twice))
	})

	t.Run("column comparator", func(t *testing.T) {
		byLen := []Column[rec]{{Key: "name", Compare: func(a, b any) int {
			return len(Stringify(a)) - len(Stringify(b))
		}}}
		rows := []rec{{"name": "ccc"}, {"name": nil}, {"name": "a"}}
		got := Sort(rows, &SortState{Field: "name"}, byLen, get)
		assert.Equal(t, []any{nil, "a", "ccc"}, names(got))
	})
}

func TestNextSort(t *testing.T) {
	st := NextSort(nil, "name")
	require.NotNil(t, st)
	assert.Equal(t, SortState{Field: "name", Order: Ascending}, *st)

	st = NextSort(st, "name")
	require.NotNil(t, st)
	assert.Equal(t, Descending, st.Order)

	assert.Nil(t, NextSort(st, "name"))

	st = NextSort(st, "age")
	require.NotNil(t, st)
	assert.Equal(t, SortState{Field: "age", Order: Ascending}, *st)
}

func TestPaginate(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Paginate(rows, 1, 2))
	assert.Equal(t, []int{5}, Paginate(rows, 3, 2))
	assert.Empty(t, Paginate(rows, 4, 2))
	assert.Empty(t, Paginate(rows, 0, 2))
	assert.Empty(t, Paginate(rows, 1, 0))
	assert.Empty(t, Paginate(rows, math.MaxInt, 2))

	for size := 1; size <= 6; size++ {
		var joined []int
		for page := 1; page <= TotalPages(len(rows), size); page++ {
			joined = append(joined, Paginate(rows, page, size)...)
		}
		assert.Equal(t, rows, joined, "pages of size %d", size)
	}
}

func TestPageInfo(t *testing.T) {
	info := NewPageInfo(1, 2, 3)
	assert.Equal(t, 2, info.TotalPages)
	assert.Equal(t, "Showing 1-2 of 3 items", info.Summary(nil))
	assert.False(t, info.HasPrev())
	assert.True(t, info.HasNext())

	info = NewPageInfo(2, 2, 3)
	assert.Equal(t, "Showing 3-3 of 3 items", info.Summary(nil))
	assert.True(t, info.HasPrev())
	assert.False(t, info.HasNext())

	custom := info.Summary(func(total, from, to int) string { return "total " + Stringify(total) })
	assert.Equal(t, "total 3", custom)

	empty := NewPageInfo(1, 10, 0)
	assert.Equal(t, 0, empty.Start)
	assert.Equal(t, 0, empty.End)
}
