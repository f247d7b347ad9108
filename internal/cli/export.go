package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/gridview/internal/export"
	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/ui/styles"
	"github.com/imgajeed76/gridview/internal/util"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the filtered, sorted rows of a grid",
		Long: `Export every row that matches --search, in --sort order, as CSV or JSON.

Files are named data-YYYY-MM-DD.<format> and never overwrite an existing
file: a numeric suffix is added instead. Use --out - to write to stdout.

Examples:
  gridview export people.csv --format json
  gridview export people.csv --search smith --sort name --out ~/exports
  gridview export orders.parquet --out - > orders.csv
  gridview export people.csv --search smith --clipboard`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	addGridFlag(cmd)
	addSortFlags(cmd)
	cmd.Flags().StringP("format", "f", "", "csv or json (default: export.format)")
	cmd.Flags().StringP("out", "o", "", "Output directory, or - for stdout (default: export.dir)")
	cmd.Flags().Bool("clipboard", false, "Copy the export to the clipboard instead of writing a file")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := exportFormat(formatFlag)
	if err != nil {
		return util.ExportError(formatFlag, err)
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = app.global.Export.Dir
	}

	gf, err := loadGridFile(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var (
		dl   grid.Downloader
		file *export.FileDownloader
	)
	toClipboard, _ := cmd.Flags().GetBool("clipboard")
	switch {
	case toClipboard:
		dl = export.ClipboardDownloader{}
	case out == "-":
		dl = export.WriterDownloader{W: cmd.OutOrStdout()}
	default:
		file = &export.FileDownloader{Dir: out, Logger: app.logger}
		dl = file
	}

	c := newGrid(ds, gf, dl, nil)
	if err := readSortFlags(cmd).apply(c); err != nil {
		return err
	}
	if err := c.Export(format); err != nil {
		return util.ExportError(string(format), err)
	}

	rows := len(c.Sorted())
	switch {
	case file != nil:
		cmd.PrintErrln(styles.SuccessMsg(fmt.Sprintf("Exported %d rows to %s", rows, file.Written)))
	case toClipboard:
		cmd.PrintErrln(styles.SuccessMsg(fmt.Sprintf("Copied %d rows as %s", rows, format)))
	}
	return nil
}
