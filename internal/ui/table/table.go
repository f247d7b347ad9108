// Package table renders a grid controller: an interactive TUI (search,
// sorting, paging, selection, export, column expand/hide) plus plain text,
// JSON and raw tab-separated output for scripts and pipes.
package table

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/imgajeed76/gridview/internal/grid"
)

// DisplayOptions controls how results are rendered.
type DisplayOptions struct {
	// Title is shown in the TUI header.
	Title string
	// JSON outputs the visible page and grid state as JSON.
	JSON bool
	// Raw outputs the visible page as tab-separated values (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool
	// ColWidth caps column width (0 = default).
	ColWidth int
	// ExportFormat is used by the TUI's export key.
	ExportFormat grid.ExportFormat
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Display picks the right output mode based on options and environment,
// then renders the controller's current view to w.
func Display[R any](w io.Writer, c *grid.Controller[R], opts DisplayOptions) error {
	get := c.Config().Field
	view := c.View()

	if opts.Raw {
		PrintRaw(w, view, get)
		return nil
	}

	if opts.JSON {
		return PrintJSON(w, view, get)
	}

	if !IsTerminal() || opts.NoPager || view.DataLen == 0 {
		PrintPlain(w, view, get, c.Config().Selectable, opts.ColWidth)
		return nil
	}

	return RunGridTUI(c, opts)
}
