package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/dailyflow/internal/core/styles"
)

const (
	scrollModalMaxHeight = 30
	scrollModalMargin    = 4
	scrollModalMinWidth  = 50
)

// InfoStatus marks an info item as good, attention-worthy or bad.
type InfoStatus int

const (
	InfoStatusNone InfoStatus = iota
	InfoStatusPass
	InfoStatusWarn
	InfoStatusFail
)

// InfoItem is a single labeled row in an info section.
type InfoItem struct {
	Label  string
	Value  string
	Status InfoStatus
}

// InfoSection groups related info items under a section title.
type InfoSection struct {
	Title string
	Items []InfoItem
}

// ScrollDialog is a centered modal with a title, a scrollable body and a
// help line.
type ScrollDialog struct {
	title    string
	helpText string
	width    int
	height   int
	viewport viewport.Model
}

// NewScrollDialog sizes a dialog for a screen of width x height.
func NewScrollDialog(title, helpText string, width, height int) *ScrollDialog {
	d := &ScrollDialog{title: title, helpText: helpText}
	d.viewport = viewport.New()
	d.SetSize(width, height)
	return d
}

// SetSize resizes the dialog for a new screen size.
func (d *ScrollDialog) SetSize(width, height int) {
	d.width, d.height = width, height
	d.viewport.SetWidth(d.ContentWidth())
	d.viewport.SetHeight(max(d.modalHeight()-d.chrome(), 1))
}

// ContentWidth is the usable body width, for callers that wrap content.
func (d *ScrollDialog) ContentWidth() int {
	return max(d.modalWidth()-styles.ModalStyle.GetHorizontalFrameSize(), 1)
}

// chrome is the number of rows the modal spends on everything but the body:
// border, padding, title, divider and help line.
func (d *ScrollDialog) chrome() int {
	title := lipgloss.Height(styles.ModalTitleStyle.Render(d.title))
	help := lipgloss.Height(styles.ModalHelpStyle.Render(d.helpText))
	return styles.ModalStyle.GetVerticalFrameSize() + title + 1 + help
}

// SetContent replaces the body and scrolls to the top.
func (d *ScrollDialog) SetContent(s string) {
	d.viewport.SetContent(s)
	d.viewport.GotoTop()
}

func (d *ScrollDialog) ScrollUp()   { d.viewport.ScrollUp(1) }
func (d *ScrollDialog) ScrollDown() { d.viewport.ScrollDown(1) }

// Overlay renders the dialog centered over the provided background.
func (d *ScrollDialog) Overlay(background string) string {
	scrollInfo := ""
	if d.viewport.TotalLineCount() > d.viewport.VisibleLineCount() {
		scrollInfo = styles.TextMutedStyle.Render(
			fmt.Sprintf(" (%.0f%%)", d.viewport.ScrollPercent()*100),
		)
	}

	divider := styles.TextSurfaceStyle.Render(strings.Repeat("─", d.ContentWidth()))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.MaxWidth(d.ContentWidth()).Render(d.title+scrollInfo),
		divider,
		d.viewport.View(),
		styles.ModalHelpStyle.Render(d.helpText),
	)

	modal := styles.ModalStyle.
		Width(d.modalWidth()).
		Render(content)

	return Overlay(background, modal, d.width, d.height)
}

func (d *ScrollDialog) modalWidth() int {
	return max(min(max(d.width*65/100, scrollModalMinWidth), d.width-scrollModalMargin), 10)
}

func (d *ScrollDialog) modalHeight() int {
	return max(min(d.height-scrollModalMargin, scrollModalMaxHeight), d.chrome()+1)
}

// RenderInfoSections formats sections as aligned label/value rows.
func RenderInfoSections(sections []InfoSection, width int) string {
	separator := styles.TextSurfaceStyle.Render(strings.Repeat("─", max(width, 1)))

	var lines []string
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		if section.Title != "" {
			lines = append(lines, styles.HelpDialogSectionStyle.Render(section.Title), separator)
		}
		for _, item := range section.Items {
			lines = append(lines, formatInfoItem(item))
		}
	}

	return strings.Join(lines, "\n")
}

func formatInfoItem(item InfoItem) string {
	label := styles.TextForegroundBoldStyle.Render(item.Label + Pad(10-lipgloss.Width(item.Label)))
	value := styles.TextMutedStyle.Render(item.Value)

	if icon := statusIcon(item.Status); icon != "" {
		return fmt.Sprintf("%s %s %s", icon, label, value)
	}
	return fmt.Sprintf("  %s %s", label, value)
}

func statusIcon(s InfoStatus) string {
	switch s {
	case InfoStatusPass:
		return styles.TextSuccessStyle.Render("✔")
	case InfoStatusWarn:
		return styles.TextWarningStyle.Render("●")
	case InfoStatusFail:
		return styles.TextErrorStyle.Render("✘")
	default:
		return ""
	}
}
