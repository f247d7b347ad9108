package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout gridview
var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFormInvalid     = errors.New("form has invalid fields")
	ErrNotConnected    = errors.New("not connected to database")
)

// CLIError is a structured error with context and suggestions
type CLIError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return e.Title + ": " + e.Err.Error()
	}
	return e.Title
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// Format renders the error for a terminal.
func (e *CLIError) Format() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Error: %s\n", e.Title)

	if e.Message != "" {
		fmt.Fprintf(&sb, "\n  %s\n", e.Message)
	}
	if e.Context != "" {
		fmt.Fprintf(&sb, "\n  %s\n", e.Context)
	}
	if e.Err != nil && e.Message == "" {
		fmt.Fprintf(&sb, "\n  %s\n", e.Err)
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			fmt.Fprintf(&sb, "    • %s\n", cause)
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			fmt.Fprintf(&sb, "    $ %s\n", sug)
		}
	}

	return sb.String()
}

// NewError creates a new CLIError
func NewError(title string) *CLIError {
	return &CLIError{Title: title}
}

func (e *CLIError) WithMessage(msg string) *CLIError {
	e.Message = msg
	return e
}

func (e *CLIError) WithContext(ctx string) *CLIError {
	e.Context = ctx
	return e
}

func (e *CLIError) WithCauses(causes ...string) *CLIError {
	e.Causes = append(e.Causes, causes...)
	return e
}

func (e *CLIError) WithSuggestion(sug string) *CLIError {
	e.Suggestions = append(e.Suggestions, sug)
	return e
}

func (e *CLIError) WithSuggestions(sugs ...string) *CLIError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *CLIError) Wrap(err error) *CLIError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// UnsupportedFileError is returned for data files with an unknown extension.
func UnsupportedFileError(path string) *CLIError {
	return NewError(fmt.Sprintf("Cannot read '%s'", path)).
		WithMessage("Supported formats: .json, .csv, .tsv, .yaml, .yml, .toml, .parquet").
		WithSuggestions(
			"gridview sql --url <url> \"SELECT ...\"  # Query a database instead",
		).
		Wrap(ErrUnsupportedFile)
}

// DatasetLoadError wraps a failure to parse a data file.
func DatasetLoadError(path string, err error) *CLIError {
	return NewError(fmt.Sprintf("Failed to load '%s'", path)).
		WithCauses(
			"The file is not valid for its extension",
			"The file is not a list of records",
		).
		Wrap(err)
}

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *CLIError {
	return NewError("Cannot connect to database").
		WithContext(url).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"psql <url> -c 'SELECT 1'   # Check the connection by hand",
		).
		Wrap(err)
}

// ConfigError wraps a failure to read a grid or global config file.
func ConfigError(path string, err error) *CLIError {
	return NewError("Invalid configuration").
		WithContext(path).
		WithSuggestions(
			"gridview config --list      # Show global settings",
		).
		Wrap(err)
}

// ExportError wraps a failed export.
func ExportError(format string, err error) *CLIError {
	return NewError(fmt.Sprintf("Export to %s failed", format)).
		WithSuggestions(
			"gridview config export.dir <dir>  # Choose a writable directory",
		).
		Wrap(err)
}

// FormInvalidError lists the fields that failed validation.
func FormInvalidError(problems []string) *CLIError {
	return NewError("Form has invalid fields").
		WithCauses(problems...).
		Wrap(ErrFormInvalid)
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *CLIError {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestion(example)
	}
	return e
}
