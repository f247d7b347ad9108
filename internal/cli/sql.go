package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imgajeed76/gridview/internal/dataset"
	"github.com/imgajeed76/gridview/internal/db"
	"github.com/imgajeed76/gridview/internal/export"
	"github.com/imgajeed76/gridview/internal/ui"
	"github.com/imgajeed76/gridview/internal/ui/table"
	"github.com/imgajeed76/gridview/internal/util"
)

func newSQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql [query]",
		Short: "Show the result of a PostgreSQL query in the grid",
		Long: `Run a query against PostgreSQL and show the result in the grid.

Queries run inside a read-only transaction. Statements that change data
or schema (INSERT, UPDATE, DELETE, DROP, ...) are refused.

Interactive mode shows results in a navigable table.
Use --raw for plain output suitable for piping.

Examples:
  gridview sql --url postgres://localhost/shop "SELECT * FROM orders"
  gridview config db.url postgres://localhost/shop
  gridview sql "SELECT id, email FROM users" --json
  gridview sql --tables --schema public`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSQL,
	}

	addGridFlag(cmd)
	cmd.Flags().String("url", "", "PostgreSQL connection URL (default: db.url)")
	cmd.Flags().Bool("raw", false, "Output raw values without formatting (for piping)")
	cmd.Flags().Bool("json", false, "Output the first page and grid state as JSON")
	cmd.Flags().Bool("no-pager", false, "Disable interactive table view")
	cmd.Flags().Int("timeout", 0, "Query timeout in seconds (default: db.timeout)")
	cmd.Flags().Bool("tables", false, "List tables with their size instead of running a query")
	cmd.Flags().String("schema", "", "Only list tables in this schema (with --tables)")

	return cmd
}

func runSQL(cmd *cobra.Command, args []string) error {
	listTables, _ := cmd.Flags().GetBool("tables")
	schema, _ := cmd.Flags().GetString("schema")
	var query string
	switch {
	case len(args) == 1 && listTables:
		return util.NewError("--tables does not take a query")
	case len(args) == 1:
		query = args[0]
	case !listTables:
		return util.MissingArgumentError("query", `gridview sql "SELECT * FROM orders"`)
	}

	url, _ := cmd.Flags().GetString("url")
	if url == "" {
		url = app.global.DB.URL
	}
	if url == "" {
		return util.NewError("No database URL").
			WithSuggestions(
				"gridview sql --url postgres://user@host/db \"SELECT 1\"",
				"gridview config db.url postgres://user@host/db   # Set a default",
			)
	}
	if query != "" && db.IsWriteQuery(query) {
		return util.NewError("Refusing to run a write query").
			WithMessage("gridview only reads: queries run in a read-only transaction").
			WithContext(query)
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	if timeout <= 0 {
		timeout = app.global.DB.Timeout
	}

	gf, err := loadGridFile(cmd)
	if err != nil {
		return err
	}
	run := func(ctx context.Context, conn *db.DB) (*dataset.Dataset, error) {
		if listTables {
			return conn.ListTables(ctx, schema)
		}
		return conn.QueryDataset(ctx, query)
	}
	ds, err := queryDataset(cmd.Context(), url, query, time.Duration(timeout)*time.Second, run)
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetBool("raw")
	asJSON, _ := cmd.Flags().GetBool("json")
	noPager, _ := cmd.Flags().GetBool("no-pager")

	exportAs, err := exportFormat("")
	if err != nil {
		return err
	}
	dl := &export.FileDownloader{Dir: app.global.Export.Dir, Logger: app.logger}
	c := newGrid(ds, gf, dl, nil)

	title := gf.Title
	switch {
	case title != "":
	case listTables:
		title = "Tables"
	default:
		title = query
	}
	return table.Display(cmd.OutOrStdout(), c, table.DisplayOptions{
		Title:        title,
		JSON:         asJSON,
		Raw:          raw,
		NoPager:      noPager,
		ColWidth:     app.global.Display.ColWidth,
		ExportFormat: exportAs,
	})
}

// queryDataset connects, runs fn and disconnects. The grid works on the
// collected rows, so no connection is held while it is open.
func queryDataset(ctx context.Context, url, query string, timeout time.Duration, fn func(context.Context, *db.DB) (*dataset.Dataset, error)) (*dataset.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	spinner := ui.NewSpinner("Running query...")
	spinner.Start()
	defer spinner.Stop()

	conn, err := db.Connect(ctx, url, db.Options{StatementTimeout: timeout})
	if err != nil {
		return nil, util.DatabaseConnectionError(url, err)
	}
	defer conn.Close()

	start := time.Now()
	ds, err := fn(ctx, conn)
	if err != nil {
		return nil, util.NewError("Query failed").WithContext(query).Wrap(err)
	}
	app.logger.Debug("query finished",
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Columns)),
		zap.Duration("took", time.Since(start)),
	)
	return ds, nil
}
