package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mietradar/mietradar/internal/version"
)

// Application branding constants
const (
	AppName    = "MIETRADAR"
	AppTagline = "Kaltmiete einschätzen lassen"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
	MaxContentWidth  = 96 // Maximum content width before capping
	MaxDropdownRows  = 6  // Visible autocomplete suggestions
	FeatureBarWidth  = 24 // Full width of an importance bar
)

// Color palette
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#5B8DEF") // Blue
	SuccessColor = lipgloss.Color("#43BF6D") // Green
	ErrorColor   = lipgloss.Color("#FF5555") // Red
	AccentColor  = lipgloss.Color("#7D56F4") // Purple

	// Neutral colors
	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	FaintColor  = lipgloss.Color("#3A3A3A") // Dark gray (skeleton blocks)
)

// Common styles
var (
	// Title style for the application header
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// Subtitle style
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Field label style
	LabelStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// Field label style when the field failed validation
	LabelErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Inline validation message under a field
	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// Result box for a successful response
	ResultBoxStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SuccessColor).
			Padding(0, 2)

	// Error box for a failed response
	ErrorBoxStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(0, 2)

	// Autocomplete dropdown container
	DropdownStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)

	// Highlighted autocomplete entry
	DropdownSelectedStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor)

	// Unselected autocomplete entry
	DropdownItemStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// Placeholder shown when no reference row matches
	DropdownEmptyStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Italic(true)

	// Overlay panel for champion model info
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(AccentColor).
			Padding(1, 2)

	// Section heading inside the overlay
	OverlayHeadingStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Bold(true)

	// Metric value inside the overlay
	MetricValueStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// Skeleton placeholder while model info loads
	SkeletonStyle = lipgloss.NewStyle().
			Foreground(FaintColor).
			Background(FaintColor)

	// Filled part of a feature importance bar
	BarFilledStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	// Empty part of a feature importance bar
	BarEmptyStyle = lipgloss.NewStyle().
			Foreground(FaintColor)

	// Checkbox rendering
	CheckboxCheckedStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// Help/footer hint text
	HintStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// RenderCheckbox renders an amenity checkbox with focus and checked state
func RenderCheckbox(label string, checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = CheckboxCheckedStyle.Render("[x]")
	}
	line := box + " " + label
	if focused {
		return DropdownSelectedStyle.Render(line)
	}
	return line
}
