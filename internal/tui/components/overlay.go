package components

import lipgloss "charm.land/lipgloss/v2"

// Overlay composites modal centered over background. Offsets are clamped to
// the top-left corner when the modal is larger than the screen.
func Overlay(background, modal string, width, height int) string {
	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	x := max((width-lipgloss.Width(modal))/2, 0)
	y := max((height-lipgloss.Height(modal))/2, 0)
	modalLayer.X(x).Y(y).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
