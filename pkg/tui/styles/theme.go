package styles

import "github.com/charmbracelet/lipgloss"

// Theme carries the shared colors and styles for the prompt and toast UI.
type Theme struct {
	Muted  lipgloss.Color
	Accent lipgloss.Color

	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Key      lipgloss.Style
	KeyDesc  lipgloss.Style
	Dialog   lipgloss.Style
	Label    lipgloss.Style
	Button   lipgloss.Style
	ButtonOK lipgloss.Style

	ToastDefault lipgloss.Style
	ToastPrimary lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastNotice  lipgloss.Style
	ToastWarning lipgloss.Style
	ToastDanger  lipgloss.Style
}

func DefaultTheme() Theme {
	muted := lipgloss.Color("240")
	accent := lipgloss.Color("63")
	return Theme{
		Muted:  muted,
		Accent: accent,

		Title:    lipgloss.NewStyle().Bold(true),
		Subtle:   lipgloss.NewStyle().Foreground(muted),
		Key:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		KeyDesc:  lipgloss.NewStyle().Foreground(muted),
		Dialog:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Button:   lipgloss.NewStyle().Foreground(muted),
		ButtonOK: lipgloss.NewStyle().Foreground(accent).Bold(true),

		ToastDefault: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ToastPrimary: lipgloss.NewStyle().Foreground(accent),
		ToastSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		ToastNotice:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		ToastWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ToastDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// ToastStyle maps a wire toast color name to its style. Unknown names fall
// back to the default style.
func (t Theme) ToastStyle(color string) lipgloss.Style {
	switch color {
	case "primary":
		return t.ToastPrimary
	case "success":
		return t.ToastSuccess
	case "notice":
		return t.ToastNotice
	case "warning":
		return t.ToastWarning
	case "danger":
		return t.ToastDanger
	default:
		return t.ToastDefault
	}
}
