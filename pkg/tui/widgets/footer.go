package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/plugbus/pkg/tui/styles"
)

// Keybind is one key/description pair in the footer.
type Keybind struct {
	Key  string
	Desc string
}

// Footer renders a styled keybindings bar.
type Footer struct {
	Keybinds []Keybind
	Width    int
	theme    styles.Theme
}

// NewFooter creates a new footer.
func NewFooter(keybinds []Keybind) Footer {
	return Footer{
		Keybinds: keybinds,
		theme:    styles.DefaultTheme(),
	}
}

// WithWidth sets the footer width.
func (f Footer) WithWidth(w int) Footer {
	f.Width = w
	return f
}

// Render returns the styled footer as a string.
func (f Footer) Render() string {
	theme := f.theme

	width := f.Width
	if width <= 0 {
		width = 80
	}
	separator := lipgloss.NewStyle().
		Foreground(theme.Muted).
		Render(strings.Repeat("─", width))

	parts := make([]string, 0, len(f.Keybinds))
	for _, kb := range f.Keybinds {
		parts = append(parts, theme.Key.Render(kb.Key)+" "+theme.KeyDesc.Render(kb.Desc))
	}
	keybindsLine := strings.Join(parts, theme.KeyDesc.Render("  "+styles.IconBullet+"  "))

	padding := (width - lipgloss.Width(keybindsLine)) / 2
	if padding < 0 {
		padding = 0
	}
	paddedKeybinds := lipgloss.NewStyle().PaddingLeft(padding).Render(keybindsLine)

	return lipgloss.JoinVertical(lipgloss.Left, separator, paddedKeybinds)
}
