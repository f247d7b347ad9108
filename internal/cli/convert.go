package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imgajeed76/gridview/internal/dataset"
	"github.com/imgajeed76/gridview/internal/ui/styles"
	"github.com/imgajeed76/gridview/internal/util"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a data file to another format",
		Long: `Convert a data file to another supported format. The output format comes
from the output extension, or from --to. Column order is kept.

Examples:
  gridview convert people.csv people.parquet
  gridview convert orders.parquet - --to json | jq '.[0]'`,
		Args: cobra.ExactArgs(2),
		RunE: runConvert,
	}

	cmd.Flags().String("to", "", "Output format (json, csv, tsv, yaml, toml, parquet)")
	cmd.Flags().Bool("force", false, "Overwrite the output file if it exists")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, outPath := args[0], util.ExpandHome(args[1])

	to, _ := cmd.Flags().GetString("to")
	var (
		format dataset.Format
		err    error
	)
	switch {
	case to != "":
		format, err = dataset.ParseFormat(to)
	case outPath == "-":
		err = util.ErrUnsupportedFile
	default:
		format, err = dataset.DetectFormat(outPath)
	}
	if err != nil {
		return util.UnsupportedFileError(args[1]).
			WithSuggestion("--to json  # Name the output format explicitly")
	}

	ds, err := loadDataset(cmd.Context(), in)
	if err != nil {
		return err
	}

	if outPath == "-" {
		return dataset.Write(cmd.OutOrStdout(), ds, format)
	}

	force, _ := cmd.Flags().GetBool("force")
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(outPath, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return util.NewError(fmt.Sprintf("'%s' already exists", args[1])).
				WithSuggestion("gridview convert " + in + " " + args[1] + " --force")
		}
		return err
	}
	if err := dataset.Write(f, ds, format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", args[1], err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	app.logger.Info("dataset converted",
		zap.String("from", in),
		zap.String("to", outPath),
		zap.String("format", string(format)),
		zap.Int("rows", ds.Len()),
	)
	cmd.PrintErrln(styles.SuccessMsg(fmt.Sprintf("Wrote %d rows to %s", ds.Len(), args[1])))
	return nil
}
