package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/gridview/internal/dataset"
	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/ui/table"
	"github.com/imgajeed76/gridview/internal/util"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print one page of a grid without the interactive view",
		Long: `Print one page of a grid as a plain table, JSON or tab-separated values.

The flags drive the grid exactly like the interactive keys do: search
resets to page 1, --sort sorts ascending and --desc flips it, and
--page is clamped to the pages that exist.

Examples:
  gridview show people.csv
  gridview show people.csv --search smith --sort age --desc
  gridview show people.json --page 2 --page-size 25
  gridview show people.json --select 1,3 --json
  gridview show data.parquet --raw | cut -f1`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	addGridFlag(cmd)
	addSortFlags(cmd)
	cmd.Flags().IntP("page", "p", 0, "Page to show (1-based)")
	cmd.Flags().Int("page-size", 0, "Rows per page (default: display.page_size)")
	cmd.Flags().StringSlice("select", nil, "Select rows by key (comma-separated)")
	cmd.Flags().Bool("json", false, "Output the page and grid state as JSON")
	cmd.Flags().Bool("raw", false, "Output tab-separated values without a header")

	return cmd
}

// pageFlags is the paging and selection state of show.
type pageFlags struct {
	Page     int
	PageSize int
	Select   []string
}

func readPageFlags(cmd *cobra.Command) pageFlags {
	var f pageFlags
	f.Page, _ = cmd.Flags().GetInt("page")
	f.PageSize, _ = cmd.Flags().GetInt("page-size")
	f.Select, _ = cmd.Flags().GetStringSlice("select")
	return f
}

// apply sets the page size before the page, since a size change resets to
// page 1.
func (f pageFlags) apply(c *recordGrid) error {
	if f.PageSize < 0 || f.Page < 0 {
		return util.NewError("--page and --page-size must not be negative")
	}
	if f.PageSize > 0 {
		c.SetPageSize(f.PageSize)
	}
	if f.Page > 0 {
		c.SetPage(f.Page)
	}
	if len(f.Select) == 0 {
		return nil
	}

	wanted := make(map[string]bool, len(f.Select))
	for _, k := range f.Select {
		wanted[strings.TrimSpace(k)] = true
	}
	for i, row := range c.Data() {
		key := c.KeyOf(row, i).String()
		if wanted[key] {
			c.ToggleRow(row, i, true)
			delete(wanted, key)
		}
	}
	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for _, k := range f.Select {
			if wanted[strings.TrimSpace(k)] {
				missing = append(missing, strings.TrimSpace(k))
			}
		}
		return util.NewError(fmt.Sprintf("No rows with key %s", strings.Join(missing, ", "))).
			WithSuggestion("Keys come from the row_key column (default \"id\")")
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	gf, err := loadGridFile(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	sf := readSortFlags(cmd)
	pf := readPageFlags(cmd)
	c := newGrid(ds, gf, nil, func(cfg *grid.Config[dataset.Record]) {
		if len(pf.Select) > 0 {
			cfg.Selectable = true
		}
	})
	if err := sf.apply(c); err != nil {
		return err
	}
	if err := pf.apply(c); err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	raw, _ := cmd.Flags().GetBool("raw")
	return table.Display(cmd.OutOrStdout(), c, table.DisplayOptions{
		Title:    gridTitle(gf, ds),
		JSON:     asJSON,
		Raw:      raw,
		NoPager:  true,
		ColWidth: app.global.Display.ColWidth,
	})
}
