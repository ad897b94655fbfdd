package menu

import (
	"errors"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// ErrAborted is returned by a Prompter when the user cancels a prompt
// (Ctrl+C or Esc). The menu treats it as a request to quit.
var ErrAborted = errors.New("aborted")

// Level classifies a message shown through Notify.
type Level string

// Notification levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Prompter is the interactive surface the menu talks to.
type Prompter interface {
	ShowTable(header []string, records []types.Record)
	PromptChoice(label string, options []string) (string, error)
	PromptText(label, def string) (string, error)
	Confirm(message string) (bool, error)
	Notify(level Level, message string)
}
