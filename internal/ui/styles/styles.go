package styles

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "●"
	SymbolArrow   = "→"
	SymbolAsc     = "▲"
	SymbolDesc    = "▼"
)

var forceNoColor atomic.Bool

// SetNoColor disables colors regardless of the environment (--no-color,
// display.no_color).
func SetNoColor(v bool) {
	forceNoColor.Store(v)
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor.Load() || os.Getenv("NO_COLOR") != "" || os.Getenv("GRIDVIEW_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no animations, no spinner, simplified output
func IsAccessible() bool {
	return os.Getenv("GRIDVIEW_ACCESSIBLE") == "1" || os.Getenv("GRIDVIEW_ACCESSIBLE") == "true"
}

// Base text styles
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Dim       = lipgloss.NewStyle().Foreground(Muted)
	Underline = lipgloss.NewStyle().Underline(true)
)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Grid display
	HeaderStyle     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	SortedStyle     = lipgloss.NewStyle().Foreground(ColorSorted).Bold(true)
	NullStyle       = lipgloss.NewStyle().Foreground(ColorNull).Italic(true)
	NumberStyle     = lipgloss.NewStyle().Foreground(ColorNumber)
	CheckStyle      = lipgloss.NewStyle().Foreground(ColorCheckbox)
	PaginationStyle = lipgloss.NewStyle().Foreground(ColorPagination)
	MatchStyle      = lipgloss.NewStyle().Foreground(ColorMatch)

	// Form display
	LabelStyle  = lipgloss.NewStyle().Bold(true)
	HelperStyle = lipgloss.NewStyle().Foreground(TextSecondary)

	// Interactive TUI
	SelectedStyle = lipgloss.NewStyle().
			Background(BgHighlight).
			Foreground(TextPrimary)
	MarkedStyle = lipgloss.NewStyle().
			Background(BgSelected).
			Foreground(TextPrimary)

	// Help bar
	HelpKey   = lipgloss.NewStyle().Foreground(Accent)
	HelpValue = lipgloss.NewStyle().Foreground(Muted)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// Render applies a style if colors are enabled
func Render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// Header formats a column header, marking the sorted column with its
// direction ("asc" or "desc").
func Header(title, order string) string {
	switch order {
	case "asc":
		return Render(SortedStyle, title+" "+sortSymbol(SymbolAsc, "^"))
	case "desc":
		return Render(SortedStyle, title+" "+sortSymbol(SymbolDesc, "v"))
	}
	return Render(HeaderStyle, title)
}

func sortSymbol(unicode, ascii string) string {
	if NoColor() {
		return ascii
	}
	return unicode
}

// Null formats a missing cell value
func Null() string {
	return Render(NullStyle, "NULL")
}

// Checkbox renders a selection mark: "[x]", "[ ]" or "[-]" for partial.
func Checkbox(state string) string {
	switch state {
	case "all", "checked":
		return Render(CheckStyle, "[x]")
	case "some":
		return Render(CheckStyle, "[-]")
	}
	return "[ ]"
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", Render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return Render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", Render(WarningStyle, symbol), msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return Render(MutedStyle, msg)
}

// ═══════════════════════════════════════════════════════════════════════════
// Section formatters - consistent output structure
// ═══════════════════════════════════════════════════════════════════════════

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return Render(Bold, title)
}

// Color helpers

func Mute(s string) string        { return Render(MutedStyle, s) }
func SuccessText(s string) string { return Render(SuccessStyle, s) }
func ErrorText(s string) string   { return Render(ErrorStyle, s) }
