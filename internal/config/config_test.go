package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/gridview/internal/dataset"
	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/util"
)

const peopleGrid = `
title = "People"
row_key = "uid"
selectable = true

[pagination]
page_size = 25
page_sizes = [5, 25]

[[columns]]
key = "name"
title = "Name"

[[columns]]
key = "joined"
title = "Joined"
sortable = false
format = "date"

[[fields]]
name = "email"
label = "Email"
required = true

  [[fields.rules]]
  builtin = "email"

[[fields]]
name = "code"

  [[fields.rules]]
  min = 2
  max = 4
  pattern = '^[A-Z]+$'
  message = "Use 2-4 capitals"
`

func TestParseGridFile(t *testing.T) {
	g, err := Parse(peopleGrid)
	require.NoError(t, err)

	assert.Equal(t, "People", g.Title)
	assert.Equal(t, "uid", g.KeyField())
	require.Len(t, g.Columns, 2)
	require.NotNil(t, g.Columns[1].Sortable)
	assert.False(t, *g.Columns[1].Sortable)
	assert.Nil(t, g.Columns[0].Sortable)
}

func TestParseRejectsMistakes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"unknown key", "serchable = true", "unknown keys: serchable"},
		{"column without key", "[[columns]]\ntitle = \"x\"", "key is required"},
		{"bad format", "[[columns]]\nkey = \"a\"\nformat = \"roman\"", "unknown format"},
		{"field without name", "[[fields]]\nlabel = \"x\"", "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadWrapsErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	var cliErr *util.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Contains(t, cliErr.Context, "missing.toml")
}

func TestGridConfig(t *testing.T) {
	g, err := Parse(peopleGrid)
	require.NoError(t, err)

	ds := &dataset.Dataset{Columns: []string{"uid", "name", "joined"}}
	cfg := g.GridConfig(ds, 10)

	assert.Equal(t, "uid", cfg.RowKey)
	assert.True(t, cfg.Selectable)
	assert.True(t, cfg.Sortable)
	assert.True(t, cfg.Searchable)
	require.NotNil(t, cfg.Pagination)
	assert.Equal(t, 25, cfg.Pagination.PageSize)
	assert.Equal(t, []int{5, 25}, cfg.Pagination.PageSizes)

	require.Len(t, cfg.Columns, 2)
	assert.True(t, cfg.Columns[0].Sortable())
	assert.False(t, cfg.Columns[1].Sortable())

	row := dataset.Record{"joined": time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-03-09", cfg.Columns[1].Cell(row, dataset.Get))
	assert.Equal(t, "2024-03-09", cfg.Columns[1].Cell(dataset.Record{"joined": "2024-03-09"}, dataset.Get))
	assert.Equal(t, "n/a", cfg.Columns[1].Cell(dataset.Record{"joined": "n/a"}, dataset.Get))
}

func TestGridConfigDefaults(t *testing.T) {
	g, err := Parse("")
	require.NoError(t, err)

	ds := &dataset.Dataset{Columns: []string{"id", "name"}}
	cfg := g.GridConfig(ds, 7)

	assert.Equal(t, "id", cfg.RowKey)
	assert.False(t, cfg.Selectable)
	assert.True(t, cfg.Exportable)
	require.Len(t, cfg.Columns, 2)
	assert.Equal(t, "name", cfg.Columns[1].Title)
	require.NotNil(t, cfg.Pagination)
	assert.Equal(t, 7, cfg.Pagination.PageSize)
	assert.Equal(t, []int{7, 10, 25, 50, 100}, cfg.Pagination.PageSizes)

	off, err := Parse("[pagination]\nenabled = false")
	require.NoError(t, err)
	assert.Nil(t, off.GridConfig(ds, 7).Pagination)
}

func TestFormatters(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	rel := formatter("relative", now)
	assert.Equal(t, "3 hours ago", rel(now().Add(-3*time.Hour)))
	assert.Equal(t, "42", rel(int64(42)))

	assert.Equal(t, "ABC", formatter("upper", now)("abc"))
	assert.Equal(t, "", formatter("lower", now)(nil))
	assert.Nil(t, formatter("", now))
}

func TestFormFields(t *testing.T) {
	g, err := Parse(peopleGrid)
	require.NoError(t, err)

	fields, err := g.FormFields()
	require.NoError(t, err)
	require.Len(t, fields, 2)

	email := fields[0]
	assert.Equal(t, "email", email.ID())
	assert.True(t, email.Required())
	assert.Equal(t, "Email is required", email.Validate())
	email.Change("john@")
	assert.Equal(t, "Invalid email address", email.Validate())

	code := fields[1]
	assert.Equal(t, "code", code.Label(), "label defaults to the name")
	code.Change("A")
	assert.Equal(t, "Use 2-4 capitals", code.Validate())
	code.Change("ab")
	assert.Equal(t, "Use 2-4 capitals", code.Validate())
	code.Change("ABC")
	assert.Empty(t, code.Validate())
}

func TestFormFieldRuleErrors(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want string
	}{
		{"unknown builtin", `builtin = "iban"`, "unknown builtin"},
		{"bad pattern", `pattern = "("`, "compile pattern"},
		{"inverted bounds", "min = 5\nmax = 2", "exceeds max"},
		{"pattern on pattern builtin", "builtin = \"email\"\npattern = \"x\"", "already sets a pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse("[[fields]]\nname = \"f\"\n[[fields.rules]]\n" + tt.rule)
			require.NoError(t, err)
			_, err = g.FormFields()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGlobalDefaultsAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadGlobalFrom(path)
	require.NoError(t, err)
	assert.Equal(t, grid.DefaultPageSize, cfg.Display.PageSize)
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.False(t, cfg.ColorDisabled())

	require.NoError(t, os.WriteFile(path, []byte("[display]\npage_size = 50\n[export]\ndir = \"/tmp/out\"\n"), 0o644))
	t.Setenv("GRIDVIEW_EXPORT_DIR", "/srv/exports")
	t.Setenv("GRIDVIEW_NO_COLOR", "true")

	cfg, err = LoadGlobalFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Display.PageSize)
	assert.Equal(t, "/srv/exports", cfg.Export.Dir, "environment wins over the file")
	assert.True(t, cfg.ColorDisabled())
	assert.Equal(t, 30, cfg.DB.Timeout)
}

func TestGlobalSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultGlobalConfig()
	require.NoError(t, cfg.SetValue("display.page_size", "25"))
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadGlobalFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.Display.PageSize)
}

func TestGetSetValue(t *testing.T) {
	cfg := DefaultGlobalConfig()

	v, ok := cfg.GetValue("display.page_size")
	require.True(t, ok)
	assert.Equal(t, "10", v)

	require.NoError(t, cfg.SetValue("display.pagesize", "20"))
	assert.Equal(t, 20, cfg.Display.PageSize)

	require.NoError(t, cfg.SetValue("export.format", "json"))
	v, _ = cfg.GetValue("export.format")
	assert.Equal(t, "json", v)

	assert.ErrorContains(t, cfg.SetValue("display.page_size", "0"), "below minimum")
	assert.ErrorContains(t, cfg.SetValue("db.timeout", "9999"), "exceeds maximum")
	assert.ErrorContains(t, cfg.SetValue("display.page_size", "many"), "invalid integer")
	assert.ErrorContains(t, cfg.SetValue("nope.key", "1"), "unknown config key")

	_, ok = cfg.GetValue("display")
	assert.False(t, ok)
}

func TestListKeysAndHelp(t *testing.T) {
	keys := ListKeys()
	assert.Contains(t, keys, "display.page_size")
	assert.Contains(t, keys, "log.file")
	assert.IsIncreasing(t, keys)

	help := GenerateHelpText()
	assert.Contains(t, help, "Display:")
	assert.Contains(t, help, "GRIDVIEW_PAGE_SIZE")
}
