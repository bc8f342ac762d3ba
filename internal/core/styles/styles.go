// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Semantic colors of the active theme.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	TextForegroundStyle     lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextPrimaryStyle        lipgloss.Style
	TextPrimaryBoldStyle    lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style
	TextSurfaceStyle        lipgloss.Style

	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style

	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style
	ConfirmMessageStyle      lipgloss.Style

	HelpDialogModalStyle   lipgloss.Style
	HelpDialogSectionStyle lipgloss.Style
	HelpDialogHelpStyle    lipgloss.Style
	HelpKeyStyle           lipgloss.Style

	FormTitleStyle               lipgloss.Style
	FormFieldStyle               lipgloss.Style
	FormFieldFocusedStyle        lipgloss.Style
	FormErrorStyle               lipgloss.Style
	SelectFieldItemSelectedStyle lipgloss.Style

	ToastSuccessStyle lipgloss.Style
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style

	// Task page.
	BrandStyle           lipgloss.Style
	SectionTitleStyle    lipgloss.Style
	OverdueTitleStyle    lipgloss.Style
	StatCardStyle        lipgloss.Style
	StatValueStyle       lipgloss.Style
	StatLabelStyle       lipgloss.Style
	CardStyle            lipgloss.Style
	CardCursorStyle      lipgloss.Style
	CardSelectedStyle    lipgloss.Style
	CardOverdueStyle     lipgloss.Style
	TaskTitleStyle       lipgloss.Style
	TaskTitleDoneStyle   lipgloss.Style
	TaskDescriptionStyle lipgloss.Style
	DueStyle             lipgloss.Style
	DueTodayStyle        lipgloss.Style
	DueOverdueStyle      lipgloss.Style
	TagStyle             lipgloss.Style
	BadgeStyle           lipgloss.Style
	SelectionBarStyle    lipgloss.Style
	DeleteConfirmStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	TextForegroundStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	TextForegroundBoldStyle = TextForegroundStyle.Bold(true)
	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextPrimaryStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	TextPrimaryBoldStyle = TextPrimaryStyle.Bold(true)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	TextSurfaceStyle = lipgloss.NewStyle().Foreground(ColorSurface)

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)
	ConfirmMessageStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Width(50)

	HelpDialogModalStyle = ModalStyle
	HelpDialogSectionStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	HelpDialogHelpStyle = ModalHelpStyle
	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Width(12)

	FormTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	FormFieldFocusedStyle = FormFieldStyle.
		BorderForeground(ColorPrimary)
	FormErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	SelectFieldItemSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(ColorForeground)
	ToastSuccessStyle = toast.BorderForeground(ColorSuccess)
	ToastInfoStyle = toast.BorderForeground(ColorPrimary)
	ToastWarningStyle = toast.BorderForeground(ColorWarning)
	ToastErrorStyle = toast.BorderForeground(ColorError)

	BrandStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	SectionTitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true).
		MarginTop(1)
	OverdueTitleStyle = SectionTitleStyle.
		Foreground(ColorError)
	StatCardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 2).
		Align(lipgloss.Center)
	StatValueStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	StatLabelStyle = TextMutedStyle

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	CardCursorStyle = CardStyle.BorderForeground(ColorPrimary)
	CardSelectedStyle = CardStyle.BorderForeground(ColorSecondary)
	CardOverdueStyle = CardStyle.BorderForeground(ColorError)
	TaskTitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	TaskTitleDoneStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Strikethrough(true)
	TaskDescriptionStyle = TextMutedStyle
	DueStyle = TextMutedStyle
	DueTodayStyle = TextWarningStyle.Bold(true)
	DueOverdueStyle = TextErrorStyle.Bold(true)
	TagStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	BadgeStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(ColorBackground)
	SelectionBarStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSecondary).
		Padding(0, 1)
	DeleteConfirmStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
}

// CategoryColor returns the badge color for a task category name.
func CategoryColor(category string) color.Color {
	switch category {
	case "Work":
		return ColorPrimary
	case "Personal":
		return ColorSecondary
	case "Shopping":
		return ColorWarning
	case "Health":
		return ColorSuccess
	default:
		return ColorMuted
	}
}

// PriorityColor returns the badge color for a task priority name.
func PriorityColor(priority string) color.Color {
	switch priority {
	case "High":
		return ColorError
	case "Medium":
		return ColorWarning
	case "Low":
		return ColorSuccess
	default:
		return ColorMuted
	}
}

// ColorForString returns a deterministic palette color for s, so a tag keeps
// its color across renders.
func ColorForString(s string) color.Color {
	pool := []color.Color{ColorPrimary, ColorSecondary, ColorSuccess, ColorWarning, ColorError}
	var hash uint32
	for _, c := range s {
		hash = hash*31 + uint32(c)
	}
	return pool[hash%uint32(len(pool))]
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
