package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// choiceModel is a single-select list. Up/down (or k/j) move the cursor,
// enter picks, esc or ctrl+c aborts.
type choiceModel struct {
	label   string
	options []string
	cursor  int
	chosen  string
	done    bool
	aborted bool
}

func newChoiceModel(label string, options []string) choiceModel {
	return choiceModel{label: label, options: options}
}

func (m choiceModel) Init() tea.Cmd {
	return nil
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "up", "k", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.options) == 0 {
			m.aborted = true
			return m, tea.Quit
		}
		m.chosen = m.options[m.cursor]
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m choiceModel) View() string {
	if m.done {
		return fmt.Sprintf("%s %s\n", labelStyle.Render(m.label), selectedStyle.Render(m.chosen))
	}
	if m.aborted {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(labelStyle.Render(m.label))
	sb.WriteString("\n")
	for i, opt := range m.options {
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render("> " + opt))
		} else {
			sb.WriteString("  " + opt)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(mutedStyle.Render("↑/↓ move • enter select • esc quit"))
	sb.WriteString("\n")
	return sb.String()
}

// textModel reads one line of text, prefilled with a default value.
type textModel struct {
	label   string
	input   textinput.Model
	done    bool
	aborted bool
}

func newTextModel(label, def string) textModel {
	ti := textinput.New()
	ti.Prompt = labelStyle.Render(label) + " "
	ti.CharLimit = 1024
	ti.Width = 60
	ti.SetValue(def)
	ti.Focus()
	return textModel{label: label, input: ti}
}

func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textModel) View() string {
	if m.done {
		return fmt.Sprintf("%s %s\n", labelStyle.Render(m.label), m.input.Value())
	}
	if m.aborted {
		return ""
	}
	return m.input.View() + "\n"
}

func (m textModel) Value() string {
	return m.input.Value()
}
