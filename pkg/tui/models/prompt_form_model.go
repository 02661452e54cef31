package models

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-go-golems/plugbus/pkg/protocol"
	"github.com/go-go-golems/plugbus/pkg/tui/styles"
)

// PromptFormModel is the structured-input dialog. Tab and arrow keys move
// focus; enter on the last field (or ctrl+s anywhere) confirms with one
// value per input key, esc cancels.
type PromptFormModel struct {
	width int

	req   *protocol.PromptFormRequest
	reply chan<- map[string]string

	inputs []textinput.Model
	focus  int
	done   bool
}

func NewPromptFormModel(req *protocol.PromptFormRequest, reply chan<- map[string]string) PromptFormModel {
	inputs := make([]textinput.Model, 0, len(req.Inputs))
	for i, in := range req.Inputs {
		input := textinput.New()
		input.Placeholder = in.Placeholder
		input.Prompt = "> "
		input.CharLimit = 500
		input.SetValue(in.DefaultValue)
		input.CursorEnd()
		if i == 0 {
			input.Focus()
		}
		inputs = append(inputs, input)
	}
	return PromptFormModel{req: req, reply: reply, inputs: inputs}
}

func (m PromptFormModel) WithSize(width int) PromptFormModel {
	m.width = width
	return m
}

func (m PromptFormModel) Done() bool {
	return m.done
}

func (m PromptFormModel) Update(msg tea.Msg) (PromptFormModel, tea.Cmd) {
	if m.done {
		return m, nil
	}
	if v, ok := msg.(tea.KeyMsg); ok {
		switch v.String() {
		case "esc":
			m.reply <- nil
			m.done = true
			return m, nil
		case "ctrl+s":
			return m.confirm(), nil
		case "enter":
			if m.focus >= len(m.inputs)-1 {
				return m.confirm(), nil
			}
			return m.setFocus(m.focus + 1), nil
		case "tab", "down":
			next := m.focus + 1
			if next >= len(m.inputs) {
				next = 0
			}
			return m.setFocus(next), nil
		case "shift+tab", "up":
			prev := m.focus - 1
			if prev < 0 {
				prev = len(m.inputs) - 1
			}
			return m.setFocus(prev), nil
		}
	}
	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m PromptFormModel) confirm() PromptFormModel {
	values := make(map[string]string, len(m.inputs))
	for i, in := range m.req.Inputs {
		values[in.Key] = m.inputs[i].Value()
	}
	m.reply <- values
	m.done = true
	return m
}

func (m PromptFormModel) setFocus(i int) PromptFormModel {
	if len(m.inputs) == 0 {
		return m
	}
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

func (m PromptFormModel) View() string {
	theme := styles.DefaultTheme()

	var b strings.Builder
	b.WriteString(theme.Title.Render(m.req.Title))
	b.WriteString("\n")
	if m.req.Description != "" {
		b.WriteString(theme.Subtle.Render(m.req.Description))
		b.WriteString("\n")
	}
	for i, in := range m.req.Inputs {
		b.WriteString("\n")
		label := in.Label
		if label == "" {
			label = in.Key
		}
		marker := "  "
		if i == m.focus {
			marker = styles.IconBullet + " "
		}
		b.WriteString(marker + theme.Label.Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	confirm := m.req.ConfirmText
	if confirm == "" {
		confirm = "Save"
	}
	cancel := m.req.CancelText
	if cancel == "" {
		cancel = "Cancel"
	}
	b.WriteString("\n")
	b.WriteString(theme.ButtonOK.Render("[enter] "+confirm) + "  " + theme.Button.Render("[esc] "+cancel))

	return theme.Dialog.Render(b.String())
}
