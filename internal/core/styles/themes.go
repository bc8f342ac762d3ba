package styles

import (
	"image/color"
	"maps"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

// IsDark reports whether the palette's background is dark.
func (p Palette) IsDark() bool {
	if p.Background == nil {
		return true
	}
	bg, ok := colorful.MakeColor(p.Background)
	if !ok {
		return true
	}
	l, _, _ := bg.Lab()
	return l < 0.5
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// hexPalette is a palette written as hex strings, in Palette field order.
type hexPalette [9]string

func (h hexPalette) palette() Palette {
	c := func(i int) color.Color { return lipgloss.Color(h[i]) }
	return Palette{
		Primary:    c(0),
		Secondary:  c(1),
		Foreground: c(2),
		Muted:      c(3),
		Background: c(4),
		Surface:    c(5),
		Success:    c(6),
		Warning:    c(7),
		Error:      c(8),
	}
}

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	//                     primary    secondary  fg         muted      bg         surface    success    warning    error
	"tokyo-night":     hexPalette{"#7aa2f7", "#7dcfff", "#c0caf5", "#565f89", "#1a1b26", "#3b4261", "#9ece6a", "#e0af68", "#f7768e"}.palette(),
	"gruvbox":         hexPalette{"#83a598", "#8ec07c", "#ebdbb2", "#665c54", "#282828", "#3c3836", "#b8bb26", "#fabd2f", "#fb4934"}.palette(),
	"catppuccin":      hexPalette{"#89b4fa", "#94e2d5", "#cdd6f4", "#6c7086", "#1e1e2e", "#313244", "#a6e3a1", "#f9e2af", "#f38ba8"}.palette(),
	"solarized-light": hexPalette{"#268bd2", "#2aa198", "#586e75", "#93a1a1", "#fdf6e3", "#eee8d5", "#859900", "#b58900", "#dc322f"}.palette(),
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(themes))
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns the Glamour config used for task descriptions: the
// stock dark or light style, recolored with the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	if !CurrentPalette.IsDark() {
		cfg = glamourstyles.LightStyleConfig
	}

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg
	cfg.Item.Color = fg
	cfg.Table.Color = fg

	cfg.Heading.Color = primary
	for _, h := range []*glamouransi.StyleBlock{&cfg.H1, &cfg.H2, &cfg.H3, &cfg.H4, &cfg.H5, &cfg.H6} {
		h.Color = primary
		h.BackgroundColor = nil
	}

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted
	cfg.CodeBlock.Color = muted
	cfg.Code.Color = secondary
	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary
	cfg.Strong.Color = colorHexPtr(ColorWarning)

	// Descriptions are mostly checklists.
	cfg.Task.Ticked = "[✓] "
	cfg.Task.Unticked = "[ ] "

	return cfg
}
