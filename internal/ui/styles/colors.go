package styles

import "github.com/charmbracelet/lipgloss"

// Color palette, dark mode optimized, semantic colors
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#7C3AED") // violet-500 - highlights, interactive
	Success = lipgloss.Color("#10B981") // emerald-500 - success
	Warning = lipgloss.Color("#F59E0B") // amber-500 - warnings
	Error   = lipgloss.Color("#EF4444") // red-500 - errors, validation
	Info    = lipgloss.Color("#3B82F6") // blue-500 - info, keys
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text

	// Text colors
	TextPrimary   = lipgloss.Color("#F9FAFB") // gray-50 - main text
	TextSecondary = lipgloss.Color("#9CA3AF") // gray-400 - descriptions
	TextTertiary  = lipgloss.Color("#6B7280") // gray-500 - null cells

	// Background colors
	BgHighlight = lipgloss.Color("#1F2937") // gray-800 - cursor row
	BgBorder    = lipgloss.Color("#374151") // gray-700 - borders
	BgSelected  = lipgloss.Color("#2E1065") // violet-950 - selected rows
)

// Semantic color aliases for grid elements
var (
	ColorHeader     = Accent  // Column headers
	ColorSorted     = Warning // Header of the sorted column
	ColorNull       = TextTertiary
	ColorNumber     = Info    // Numeric cells
	ColorCheckbox   = Success // Selection marks
	ColorPagination = Muted   // "Showing 1-10 of 42 items"
	ColorMatch      = Warning // Active search term
)
