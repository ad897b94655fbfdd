// Package menu drives the interactive csvmgr session as an explicit state
// machine. Each action state runs one flow against the record operations and
// returns to the main menu; Quit is terminal.
package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// State is one node of the menu state machine.
type State string

// Menu states. Quit is terminal.
const (
	StateMainMenu  State = "main"
	StateViewing   State = "view"
	StateSearching State = "search"
	StateAdding    State = "add"
	StateUpdating  State = "update"
	StateDeleting  State = "delete"
	StateBackingUp State = "backup"
	StateExporting State = "export"
	StateImporting State = "import"
	StateErasing   State = "erase"
	StateQuit      State = "quit"
)

// Main menu entries, in display order.
const (
	ChoiceView   = "View Records"
	ChoiceSearch = "Search Records"
	ChoiceAdd    = "Add Record"
	ChoiceUpdate = "Update Record"
	ChoiceDelete = "Delete Record"
	ChoiceBackup = "Backup CSV"
	ChoiceExport = "Export JSON"
	ChoiceImport = "Import JSON"
	ChoiceErase  = "Erase All"
	ChoiceQuit   = "Quit"
)

var mainChoices = []struct {
	label string
	state State
}{
	{ChoiceView, StateViewing},
	{ChoiceSearch, StateSearching},
	{ChoiceAdd, StateAdding},
	{ChoiceUpdate, StateUpdating},
	{ChoiceDelete, StateDeleting},
	{ChoiceBackup, StateBackingUp},
	{ChoiceExport, StateExporting},
	{ChoiceImport, StateImporting},
	{ChoiceErase, StateErasing},
	{ChoiceQuit, StateQuit},
}

// Operations is the subset of the record manager the menu needs.
// *manager.Manager satisfies it.
type Operations interface {
	Schema() types.Schema
	View() ([]types.Record, error)
	Get(id int) (types.Record, error)
	Add(values map[string]string) (types.Record, error)
	Update(id int, values map[string]string) (types.Record, error)
	Delete(id int) error
	EraseAll() (int, error)
	Find(q types.Query) ([]types.Record, error)
	Backup() (string, error)
	Export(path string) (int, error)
	Import(path string) (types.ImportResult, error)
}

// Machine is the interactive menu loop.
type Machine struct {
	ops      Operations
	prompt   Prompter
	jsonPath string
	state    State
	sizeOf   func(path string) (uint64, error)
}

// New returns a Machine positioned at the main menu. jsonPath is offered as
// the default file for export and import.
func New(ops Operations, prompt Prompter, jsonPath string) *Machine {
	return &Machine{
		ops:      ops,
		prompt:   prompt,
		jsonPath: jsonPath,
		state:    StateMainMenu,
		sizeOf:   fileSize,
	}
}

// State returns the state the next Step will execute.
func (m *Machine) State() State {
	return m.state
}

// Run steps the machine until it reaches Quit.
func (m *Machine) Run() {
	for m.state != StateQuit {
		m.Step()
	}
}

// Step executes the current state and advances to the next one.
// Operation errors are reported and the machine returns to the main menu.
// An aborted prompt moves to Quit.
func (m *Machine) Step() State {
	next, err := m.run(m.state)
	switch {
	case errors.Is(err, ErrAborted):
		next = StateQuit
	case err != nil:
		m.prompt.Notify(LevelError, err.Error())
		next = StateMainMenu
	}
	m.state = next
	return next
}

func (m *Machine) run(s State) (State, error) {
	switch s {
	case StateMainMenu:
		return m.mainMenu()
	case StateViewing:
		return StateMainMenu, m.view()
	case StateSearching:
		return StateMainMenu, m.search()
	case StateAdding:
		return StateMainMenu, m.add()
	case StateUpdating:
		return StateMainMenu, m.update()
	case StateDeleting:
		return StateMainMenu, m.delete()
	case StateBackingUp:
		return StateMainMenu, m.backup()
	case StateExporting:
		return StateMainMenu, m.export()
	case StateImporting:
		return StateMainMenu, m.importJSON()
	case StateErasing:
		return StateMainMenu, m.erase()
	case StateQuit:
		return StateQuit, nil
	}
	return StateMainMenu, fmt.Errorf("unknown menu state %q", s)
}

func (m *Machine) mainMenu() (State, error) {
	labels := make([]string, len(mainChoices))
	for i, c := range mainChoices {
		labels[i] = c.label
	}
	choice, err := m.prompt.PromptChoice("Choose action:", labels)
	if err != nil {
		return StateQuit, err
	}
	for _, c := range mainChoices {
		if c.label == choice {
			return c.state, nil
		}
	}
	return StateMainMenu, fmt.Errorf("unknown action %q", choice)
}

func (m *Machine) showAll() error {
	records, err := m.ops.View()
	if err != nil {
		return err
	}
	m.prompt.ShowTable(m.ops.Schema().Header(), records)
	return nil
}

// askID reads a record id. A non-integer answer is a validation error.
func (m *Machine) askID(label string) (int, error) {
	answer, err := m.prompt.PromptText(label, "")
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not an integer", types.ErrValidation, answer)
	}
	return id, nil
}

func fieldLabel(field string) string {
	return titleCase(field) + ":"
}
