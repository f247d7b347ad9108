package grid

import "errors"

var (
	// ErrUnsupportedFormat is returned by Export for formats that have no
	// built-in encoder and no OnExport handler.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrExportDisabled is returned by Export when the grid is not exportable.
	ErrExportDisabled = errors.New("export is disabled")
	// ErrNoDownloader is returned when a built-in export has nowhere to go.
	ErrNoDownloader = errors.New("no downloader configured")
	// ErrUnknownAction is returned by RunAction for a label no action has.
	ErrUnknownAction = errors.New("unknown action")
	// ErrActionDisabled is returned by RunAction when the action is disabled
	// for the row.
	ErrActionDisabled = errors.New("action is disabled for this row")
	// ErrNoRow is returned when a visible row index is out of range.
	ErrNoRow = errors.New("no such row")
)
