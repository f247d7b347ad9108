package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imgajeed76/gridview/internal/config"
	"github.com/imgajeed76/gridview/internal/dataset"
	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/ui"
	"github.com/imgajeed76/gridview/internal/util"
)

// recordGrid is the controller every command drives.
type recordGrid = grid.Controller[dataset.Record]

// addGridFlag registers --grid on commands that build a grid.
func addGridFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("grid", "g", "", "Grid definition file (TOML)")
}

// loadGridFile reads the --grid definition, or returns an empty one that
// keeps every default.
func loadGridFile(cmd *cobra.Command) (*config.GridFile, error) {
	path, _ := cmd.Flags().GetString("grid")
	if path == "" {
		return &config.GridFile{}, nil
	}
	return config.Load(util.ExpandHome(path))
}

// loadDataset reads a data file behind a spinner.
func loadDataset(ctx context.Context, path string) (*dataset.Dataset, error) {
	spinner := ui.NewSpinner(fmt.Sprintf("Loading %s...", filepath.Base(path)))
	spinner.Start()
	ds, err := dataset.Load(ctx, util.ExpandHome(path))
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	app.logger.Debug("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Columns)),
	)
	return ds, nil
}

// newGrid builds the controller for ds. Rows without a value in the key
// field get a generated one. mutate, when non-nil, adjusts the
// configuration before the controller is created.
func newGrid(ds *dataset.Dataset, gf *config.GridFile, dl grid.Downloader, mutate func(*grid.Config[dataset.Record])) *recordGrid {
	if n := ds.AssignKeys(gf.KeyField()); n > 0 {
		app.logger.Debug("generated row keys", zap.String("field", gf.KeyField()), zap.Int("rows", n))
	}
	cfg := gf.GridConfig(ds, app.global.Display.PageSize)
	cfg.Downloader = dl
	if mutate != nil {
		mutate(&cfg)
	}
	return grid.New(ds.Records, cfg).WithLogger(app.logger)
}

// gridTitle prefers the definition's title over the dataset name.
func gridTitle(gf *config.GridFile, ds *dataset.Dataset) string {
	if gf.Title != "" {
		return gf.Title
	}
	return ds.Name
}

// exportFormat resolves a --format value, falling back to export.format.
func exportFormat(flag string) (grid.ExportFormat, error) {
	if flag == "" {
		flag = app.global.Export.Format
	}
	return grid.ParseExportFormat(flag)
}

// sortFlags is the search/sort state shared by show and export.
type sortFlags struct {
	Search string
	Sort   string
	Desc   bool
}

func addSortFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "Only rows where some column contains this text")
	cmd.Flags().String("sort", "", "Sort by this column key")
	cmd.Flags().Bool("desc", false, "Sort descending (with --sort)")
}

func readSortFlags(cmd *cobra.Command) sortFlags {
	var f sortFlags
	f.Search, _ = cmd.Flags().GetString("search")
	f.Sort, _ = cmd.Flags().GetString("sort")
	f.Desc, _ = cmd.Flags().GetBool("desc")
	return f
}

// apply drives the controller the way the interactive grid would: search
// first, then one sort request for ascending or two for descending.
func (f sortFlags) apply(c *recordGrid) error {
	if f.Search != "" {
		if !c.Config().Searchable {
			return util.NewError("Search is disabled for this grid").
				WithSuggestion("Set searchable = true in the grid definition")
		}
		c.Search(f.Search)
	}
	if f.Sort == "" {
		if f.Desc {
			return util.NewError("--desc needs --sort <column>")
		}
		return nil
	}
	c.RequestSort(f.Sort)
	if c.View().Sort == nil {
		return util.NewError(fmt.Sprintf("Cannot sort by '%s'", f.Sort)).
			WithMessage("The column does not exist, is not sortable, or sorting is disabled").
			WithSuggestion("Columns: " + strings.Join(columnKeys(c), ", "))
	}
	if f.Desc {
		c.RequestSort(f.Sort)
	}
	return nil
}

func columnKeys(c *recordGrid) []string {
	cols := c.Config().Columns
	keys := make([]string, len(cols))
	for i, col := range cols {
		keys[i] = col.Key
	}
	return keys
}
