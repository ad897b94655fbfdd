// Package tui is the terminal front end of csvmgr: bubbletea prompts for the
// interactive menu and lipgloss rendering for record tables.
package tui

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/csvmgr/internal/menu"
	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

var levelStyles = map[menu.Level]lipgloss.Style{
	menu.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	menu.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	menu.LevelWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	menu.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

// Terminal implements menu.Prompter on a terminal. Each prompt runs its own
// short-lived bubbletea program.
type Terminal struct {
	in   io.Reader
	out  io.Writer
	opts []tea.ProgramOption
}

// NewTerminal returns a Terminal reading from in and writing to out.
// Nil values default to the process's stdin and stdout.
func NewTerminal(in io.Reader, out io.Writer, opts ...tea.ProgramOption) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{in: in, out: out, opts: opts}
}

// ShowTable prints records as a table.
func (t *Terminal) ShowTable(header []string, records []types.Record) {
	fmt.Fprintln(t.out, RenderTable(header, records))
}

// PromptChoice asks the user to pick one of options.
func (t *Terminal) PromptChoice(label string, options []string) (string, error) {
	final, err := t.run(newChoiceModel(label, options))
	if err != nil {
		return "", err
	}
	m := final.(choiceModel)
	if m.aborted || !m.done {
		return "", menu.ErrAborted
	}
	return m.chosen, nil
}

// PromptText asks for one line of text, prefilled with def.
func (t *Terminal) PromptText(label, def string) (string, error) {
	final, err := t.run(newTextModel(label, def))
	if err != nil {
		return "", err
	}
	m := final.(textModel)
	if m.aborted || !m.done {
		return "", menu.ErrAborted
	}
	return m.Value(), nil
}

// Confirm asks a yes/no question. No is preselected.
func (t *Terminal) Confirm(message string) (bool, error) {
	choice, err := t.PromptChoice(message, []string{"No", "Yes"})
	if err != nil {
		return false, err
	}
	return choice == "Yes", nil
}

// Notify prints a one-line status message.
func (t *Terminal) Notify(level menu.Level, message string) {
	style, ok := levelStyles[level]
	if !ok {
		style = lipgloss.NewStyle()
	}
	fmt.Fprintln(t.out, style.Render(message))
}

func (t *Terminal) run(model tea.Model) (tea.Model, error) {
	opts := append([]tea.ProgramOption{tea.WithInput(t.in), tea.WithOutput(t.out)}, t.opts...)
	final, err := tea.NewProgram(model, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil, menu.ErrAborted
	}
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}
