// Package config reads gridview's two TOML files: the per-grid definition
// passed with --config (columns, features, form fields) and the user-wide
// settings file managed by `gridview config`.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/imgajeed76/gridview/internal/dataset"
	"github.com/imgajeed76/gridview/internal/field"
	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/util"
	"github.com/imgajeed76/gridview/internal/validate"
)

// GridFile is a grid definition file.
//
// Feature switches are pointers so an absent key keeps the default: sorting,
// search, export and pagination on, selection off.
type GridFile struct {
	Title      string            `toml:"title"`
	RowKey     string            `toml:"row_key"`
	Searchable *bool             `toml:"searchable"`
	Selectable *bool             `toml:"selectable"`
	Sortable   *bool             `toml:"sortable"`
	Exportable *bool             `toml:"exportable"`
	Pagination PaginationSection `toml:"pagination"`
	Columns    []ColumnSpec      `toml:"columns"`
	Fields     []FieldSpec       `toml:"fields"`
}

// PaginationSection is the [pagination] table.
type PaginationSection struct {
	Enabled         *bool `toml:"enabled"`
	Current         int   `toml:"current"`
	PageSize        int   `toml:"page_size"`
	PageSizes       []int `toml:"page_sizes"`
	ShowSizeChanger bool  `toml:"show_size_changer"`
	ShowQuickJumper bool  `toml:"show_quick_jumper"`
}

// ColumnSpec is one [[columns]] entry.
type ColumnSpec struct {
	Key   string `toml:"key"`
	Title string `toml:"title"`
	// Sortable is tri-state: absent follows the grid-wide switch.
	Sortable *bool  `toml:"sortable"`
	Width    int    `toml:"width"`
	Class    string `toml:"class"`
	// Format is a display formatter: relative, date, upper or lower.
	Format string `toml:"format"`
}

// FieldSpec is one [[fields]] entry of a form.
type FieldSpec struct {
	Name        string     `toml:"name"`
	Label       string     `toml:"label"`
	Type        string     `toml:"type"`
	Placeholder string     `toml:"placeholder"`
	Helper      string     `toml:"helper"`
	Default     string     `toml:"default"`
	Required    bool       `toml:"required"`
	Disabled    bool       `toml:"disabled"`
	ReadOnly    bool       `toml:"readonly"`
	Rules       []RuleSpec `toml:"rules"`
}

// RuleSpec is one [[fields.rules]] entry. Builtin names a predefined rule
// (email, phone, url); Message overrides its default text.
type RuleSpec struct {
	Required bool   `toml:"required"`
	Min      int    `toml:"min"`
	Max      int    `toml:"max"`
	Pattern  string `toml:"pattern"`
	Message  string `toml:"message"`
	Builtin  string `toml:"builtin"`
}

// Load reads a grid definition file. Unknown keys are rejected so typos in
// switch names do not silently fall back to defaults.
func Load(path string) (*GridFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.ConfigError(path, err)
	}
	g, err := Parse(string(data))
	if err != nil {
		return nil, util.ConfigError(path, err)
	}
	return g, nil
}

// Parse decodes a grid definition from TOML text.
func Parse(text string) (*GridFile, error) {
	g := &GridFile{}
	md, err := toml.Decode(text, g)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for i, c := range g.Columns {
		if c.Key == "" {
			return nil, fmt.Errorf("columns[%d]: key is required", i)
		}
		if !validFormat(c.Format) {
			return nil, fmt.Errorf("columns[%d]: unknown format %q", i, c.Format)
		}
	}
	for i, f := range g.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("fields[%d]: name is required", i)
		}
	}
	return g, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// KeyField is the row identity field (default "id").
func (g *GridFile) KeyField() string {
	if g.RowKey == "" {
		return "id"
	}
	return g.RowKey
}

// GridConfig builds the grid configuration for ds. Without [[columns]] every
// dataset column is shown. pageSize is the fallback when the file sets none.
func (g *GridFile) GridConfig(ds *dataset.Dataset, pageSize int) grid.Config[dataset.Record] {
	var columns []grid.Column[dataset.Record]
	if len(g.Columns) == 0 {
		columns = ds.GridColumns()
	} else {
		columns = make([]grid.Column[dataset.Record], len(g.Columns))
		for i, spec := range g.Columns {
			columns[i] = spec.column()
		}
	}

	cfg := grid.DefaultConfig(columns, dataset.Get)
	cfg.RowKey = g.KeyField()
	cfg.Sortable = boolOr(g.Sortable, true)
	cfg.Searchable = boolOr(g.Searchable, true)
	cfg.Selectable = boolOr(g.Selectable, false)
	cfg.Exportable = boolOr(g.Exportable, true)

	if boolOr(g.Pagination.Enabled, true) {
		size := g.Pagination.PageSize
		if size < 1 {
			size = pageSize
		}
		cfg.Pagination = &grid.Pagination{
			Current:         g.Pagination.Current,
			PageSize:        size,
			PageSizes:       pageSizes(g.Pagination.PageSizes, size),
			ShowSizeChanger: g.Pagination.ShowSizeChanger,
			ShowQuickJumper: g.Pagination.ShowQuickJumper,
		}
	}
	return cfg
}

// pageSizes returns the size changer options, always including size.
func pageSizes(configured []int, size int) []int {
	sizes := slices.Clone(configured)
	if len(sizes) == 0 {
		sizes = slices.Clone(grid.DefaultPageSizes)
	}
	sizes = slices.DeleteFunc(sizes, func(n int) bool { return n < 1 })
	if size > 0 && !slices.Contains(sizes, size) {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	return slices.Compact(sizes)
}

func (c ColumnSpec) column() grid.Column[dataset.Record] {
	title := c.Title
	if title == "" {
		title = c.Key
	}
	col := grid.Column[dataset.Record]{
		Key:   c.Key,
		Title: title,
		Width: c.Width,
		Class: c.Class,
	}
	if c.Sortable != nil && !*c.Sortable {
		col.DisableSort = true
	}
	if render := formatter(c.Format, time.Now); render != nil {
		col.Render = func(v any, _ dataset.Record) string { return render(v) }
	}
	return col
}

func validFormat(name string) bool {
	switch strings.ToLower(name) {
	case "", "relative", "date", "upper", "lower":
		return true
	}
	return false
}

// formatter returns the display function for a column format, or nil for
// the default rendering.
func formatter(name string, now func() time.Time) func(any) string {
	asTime := func(v any) (time.Time, bool) {
		switch t := v.(type) {
		case time.Time:
			return t, true
		case string:
			return util.ParseTime(t)
		}
		return time.Time{}, false
	}

	switch strings.ToLower(name) {
	case "relative":
		return func(v any) string {
			if t, ok := asTime(v); ok {
				return util.RelativeTime(t, now())
			}
			return grid.Stringify(v)
		}
	case "date":
		return func(v any) string {
			if t, ok := asTime(v); ok {
				return t.Format("2006-01-02")
			}
			return grid.Stringify(v)
		}
	case "upper":
		return func(v any) string { return strings.ToUpper(grid.Stringify(v)) }
	case "lower":
		return func(v any) string { return strings.ToLower(grid.Stringify(v)) }
	}
	return nil
}

// FormFields builds the form's fields. A field marked required gets a
// required rule in front of its own rules unless one is already present.
func (g *GridFile) FormFields() ([]*field.Field, error) {
	fields := make([]*field.Field, 0, len(g.Fields))
	for _, spec := range g.Fields {
		rules, err := spec.rules()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.Name, err)
		}
		label := spec.Label
		if label == "" {
			label = spec.Name
		}
		fields = append(fields, field.New(field.Config{
			ID:           spec.Name,
			Name:         spec.Name,
			Label:        label,
			Type:         field.ParseType(spec.Type),
			Placeholder:  spec.Placeholder,
			HelperText:   spec.Helper,
			DefaultValue: spec.Default,
			Required:     spec.Required,
			Disabled:     spec.Disabled,
			ReadOnly:     spec.ReadOnly,
			Rules:        rules,
		}))
	}
	return fields, nil
}

func (f FieldSpec) rules() ([]validate.Rule, error) {
	var rules []validate.Rule
	hasRequired := false
	for i, spec := range f.Rules {
		rule, err := spec.rule()
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		hasRequired = hasRequired || rule.Required
		rules = append(rules, rule)
	}
	if f.Required && !hasRequired {
		rules = append([]validate.Rule{validate.Required()}, rules...)
	}
	return rules, nil
}

func (r RuleSpec) rule() (validate.Rule, error) {
	var rule validate.Rule
	if r.Builtin != "" {
		b, ok := validate.Builtin(r.Builtin)
		if !ok {
			return rule, fmt.Errorf("unknown builtin rule %q", r.Builtin)
		}
		rule = b
	}
	if r.Pattern != "" {
		if rule.Pattern != nil {
			return rule, fmt.Errorf("builtin %q already sets a pattern", r.Builtin)
		}
		p, err := validate.Pattern(r.Pattern)
		if err != nil {
			return rule, err
		}
		rule.Pattern = p.Pattern
	}
	if r.Min < 0 || r.Max < 0 {
		return rule, fmt.Errorf("min and max must not be negative")
	}
	if r.Max > 0 && r.Min > r.Max {
		return rule, fmt.Errorf("min %d exceeds max %d", r.Min, r.Max)
	}
	rule.Required = rule.Required || r.Required
	rule.Min = r.Min
	rule.Max = r.Max
	if r.Message != "" {
		rule.Message = r.Message
	}
	return rule, nil
}
