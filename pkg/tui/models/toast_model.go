package models

import (
	"strings"
	"time"

	"github.com/go-go-golems/plugbus/pkg/tui"
	"github.com/go-go-golems/plugbus/pkg/tui/styles"
)

// ToastModel keeps the stack of visible toasts, newest last. Entries
// disappear once their expiry passes; Prune is driven by the app's tick.
type ToastModel struct {
	width   int
	max     int
	entries []tui.ToastEntry
}

func NewToastModel() ToastModel {
	return ToastModel{max: 5}
}

func (m ToastModel) WithSize(width int) ToastModel {
	m.width = width
	return m
}

func (m ToastModel) Append(e tui.ToastEntry) ToastModel {
	m.entries = append(m.entries, e)
	if m.max > 0 && len(m.entries) > m.max {
		m.entries = append([]tui.ToastEntry{}, m.entries[len(m.entries)-m.max:]...)
	}
	return m
}

func (m ToastModel) Prune(now time.Time) ToastModel {
	kept := m.entries[:0:0]
	for _, e := range m.entries {
		if e.Expires.After(now) {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return m
}

func (m ToastModel) Len() int {
	return len(m.entries)
}

func (m ToastModel) View() string {
	if len(m.entries) == 0 {
		return ""
	}
	theme := styles.DefaultTheme()
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		style := theme.ToastStyle(e.Color)
		line := styles.ToastIcon(e.Icon) + " " + e.At.Format("15:04:05") + " " + e.Message
		b.WriteString(style.Render(line))
	}
	return b.String()
}
