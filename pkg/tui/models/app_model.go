package models

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/plugbus/pkg/tui"
	"github.com/go-go-golems/plugbus/pkg/tui/styles"
	"github.com/go-go-golems/plugbus/pkg/tui/widgets"
)

type tickMsg time.Time

// AppModel is the UI process root model: one prompt dialog at a time
// (further prompts queue up while one is on screen), the toast stack, and
// a settings view toggled by the settings channel. Queueing only affects
// what is visible; suspended responders for queued prompts stay pending,
// so concurrently in-flight requests may still resolve in either order.
type AppModel struct {
	width  int
	height int

	activeText *PromptTextModel
	activeForm *PromptFormModel
	queue      []tea.Msg

	toasts   ToastModel
	settings bool
}

func NewAppModel() AppModel {
	return AppModel{toasts: NewToastModel()}
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		m.toasts = m.toasts.WithSize(v.Width)
		if m.activeText != nil {
			t := m.activeText.WithSize(v.Width)
			m.activeText = &t
		}
		if m.activeForm != nil {
			f := m.activeForm.WithSize(v.Width)
			m.activeForm = &f
		}
		return m, nil

	case tickMsg:
		m.toasts = m.toasts.Prune(time.Time(v))
		return m, tickCmd()

	case tui.ToastMsg:
		m.toasts = m.toasts.Append(v.Toast)
		return m, nil

	case tui.OpenSettingsMsg:
		m.settings = true
		return m, nil

	case tui.PromptTextMsg, tui.PromptFormMsg:
		if m.promptActive() {
			m.queue = append(m.queue, msg)
			return m, nil
		}
		return m.activatePrompt(msg), nil

	case tea.KeyMsg:
		if v.String() == "ctrl+c" {
			return m.cancelAll(), tea.Quit
		}
		if m.promptActive() {
			return m.updateActivePrompt(msg)
		}
		switch v.String() {
		case "q":
			return m.cancelAll(), tea.Quit
		case "esc":
			m.settings = false
			return m, nil
		}
		return m, nil
	}

	if m.promptActive() {
		return m.updateActivePrompt(msg)
	}
	return m, nil
}

func (m AppModel) promptActive() bool {
	return m.activeText != nil || m.activeForm != nil
}

func (m AppModel) activatePrompt(msg tea.Msg) AppModel {
	switch v := msg.(type) {
	case tui.PromptTextMsg:
		model := NewPromptTextModel(v.Request, v.Reply).WithSize(m.width)
		m.activeText = &model
	case tui.PromptFormMsg:
		model := NewPromptFormModel(v.Request, v.Reply).WithSize(m.width)
		m.activeForm = &model
	}
	return m
}

func (m AppModel) updateActivePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.activeText != nil:
		model, c := m.activeText.Update(msg)
		cmd = c
		if model.Done() {
			m.activeText = nil
			m = m.popQueue()
		} else {
			m.activeText = &model
		}
	case m.activeForm != nil:
		model, c := m.activeForm.Update(msg)
		cmd = c
		if model.Done() {
			m.activeForm = nil
			m = m.popQueue()
		} else {
			m.activeForm = &model
		}
	}
	return m, cmd
}

func (m AppModel) popQueue() AppModel {
	if len(m.queue) == 0 {
		return m
	}
	next := m.queue[0]
	m.queue = append([]tea.Msg{}, m.queue[1:]...)
	return m.activatePrompt(next)
}

// cancelAll resolves the active and queued prompts with nil so suspended
// responders unblock before the program quits.
func (m AppModel) cancelAll() AppModel {
	if m.activeText != nil {
		m.activeText.reply <- nil
		m.activeText = nil
	}
	if m.activeForm != nil {
		m.activeForm.reply <- nil
		m.activeForm = nil
	}
	for _, queued := range m.queue {
		switch v := queued.(type) {
		case tui.PromptTextMsg:
			v.Reply <- nil
		case tui.PromptFormMsg:
			v.Reply <- nil
		}
	}
	m.queue = nil
	return m
}

func (m AppModel) View() string {
	theme := styles.DefaultTheme()

	var sections []string
	sections = append(sections, theme.Title.Render("plugbus"))

	switch {
	case m.settings:
		sections = append(sections, "", theme.Title.Render("Settings"),
			theme.Subtle.Render("(settings navigation placeholder, esc to go back)"))
	case m.promptActive():
		var dialog string
		if m.activeText != nil {
			dialog = m.activeText.View()
		} else {
			dialog = m.activeForm.View()
		}
		sections = append(sections, "", dialog)
		if len(m.queue) > 0 {
			sections = append(sections, theme.Subtle.Render(
				strings.Repeat(styles.IconPending+" ", len(m.queue))+"waiting"))
		}
	default:
		sections = append(sections, "", theme.Subtle.Render("listening for plugin events…"))
	}

	if toasts := m.toasts.View(); toasts != "" {
		sections = append(sections, "", toasts)
	}

	footer := widgets.NewFooter([]widgets.Keybind{
		{Key: "enter", Desc: "confirm"},
		{Key: "esc", Desc: "cancel/back"},
		{Key: "ctrl+c", Desc: "quit"},
	}).WithWidth(m.width)
	sections = append(sections, "", footer.Render())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
