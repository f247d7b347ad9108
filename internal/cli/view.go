package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imgajeed76/gridview/internal/export"
	"github.com/imgajeed76/gridview/internal/ui/styles"
	"github.com/imgajeed76/gridview/internal/ui/table"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Browse a data file in the interactive grid",
		Long: `Browse a data file in the interactive grid.

Keys:
  ↑/↓ ←/→      Move between rows and columns
  /            Search (esc clears)
  s            Sort by the current column (asc, desc, off)
  [ ]          Previous / next page
  + -          Larger / smaller pages
  space  a  c  Toggle row, toggle page, clear selection
  e  E         Export (export.format / JSON) to export.dir
  y  Y         Copy cell / selected rows
  q            Quit

Without a terminal the first page is printed like 'gridview show'.`,
		Args: cobra.ExactArgs(1),
		RunE: runView,
	}

	addGridFlag(cmd)
	cmd.Flags().StringP("format", "f", "", "Export format for the e key (default: export.format)")
	cmd.Flags().String("out", "", "Directory for exports (default: export.dir)")

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	exportAs, err := exportFormat(format)
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("out")
	if dir == "" {
		dir = app.global.Export.Dir
	}

	gf, err := loadGridFile(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	dl := &export.FileDownloader{Dir: dir, Logger: app.logger}
	c := newGrid(ds, gf, dl, nil)

	err = table.Display(cmd.OutOrStdout(), c, table.DisplayOptions{
		Title:        gridTitle(gf, ds),
		ColWidth:     app.global.Display.ColWidth,
		ExportFormat: exportAs,
	})
	if err != nil {
		return err
	}

	if dl.Written != "" {
		app.logger.Info("view closed", zap.String("last_export", dl.Written))
		cmd.PrintErrln(styles.MutedMsg("Last export: " + dl.Written))
	}
	return nil
}
