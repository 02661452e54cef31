package models

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-go-golems/plugbus/pkg/protocol"
	"github.com/go-go-golems/plugbus/pkg/tui/styles"
)

// PromptTextModel is the single-field prompt dialog. Enter confirms with
// the entered value, esc cancels. The reply channel receives exactly one
// value; after that the model reports Done and the app discards it.
type PromptTextModel struct {
	width int

	req   *protocol.PromptTextRequest
	reply chan<- *string

	input textinput.Model
	done  bool
}

func NewPromptTextModel(req *protocol.PromptTextRequest, reply chan<- *string) PromptTextModel {
	input := textinput.New()
	input.Placeholder = req.Placeholder
	input.Prompt = "> "
	input.CharLimit = 500
	input.SetValue(req.DefaultValue)
	input.CursorEnd()
	input.Focus()

	return PromptTextModel{req: req, reply: reply, input: input}
}

func (m PromptTextModel) WithSize(width int) PromptTextModel {
	m.width = width
	return m
}

func (m PromptTextModel) Done() bool {
	return m.done
}

func (m PromptTextModel) Update(msg tea.Msg) (PromptTextModel, tea.Cmd) {
	if m.done {
		return m, nil
	}
	if v, ok := msg.(tea.KeyMsg); ok {
		switch v.String() {
		case "enter":
			value := m.input.Value()
			m.reply <- &value
			m.done = true
			return m, nil
		case "esc":
			m.reply <- nil
			m.done = true
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PromptTextModel) View() string {
	theme := styles.DefaultTheme()

	var b strings.Builder
	b.WriteString(theme.Title.Render(m.req.Title))
	b.WriteString("\n")
	if m.req.Description != "" {
		b.WriteString(theme.Subtle.Render(m.req.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.req.Label != "" {
		b.WriteString(theme.Label.Render(m.req.Label))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Subtle.Render("enter confirm " + styles.IconBullet + " esc cancel"))

	return theme.Dialog.Render(b.String())
}
