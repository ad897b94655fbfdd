package menu

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/csvmgr/internal/manager"
	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// answer is one scripted response. err, when set, is returned instead.
type answer struct {
	text string
	yes  bool
	err  error
}

type note struct {
	level Level
	msg   string
}

// scriptedPrompter replays answers in order and records what was shown.
type scriptedPrompter struct {
	t       *testing.T
	answers []answer
	labels  []string
	tables  [][]types.Record
	notes   []note
}

func script(t *testing.T, answers ...answer) *scriptedPrompter {
	return &scriptedPrompter{t: t, answers: answers}
}

func say(s string) answer { return answer{text: s} }
func yes() answer         { return answer{yes: true} }
func no() answer          { return answer{} }
func abort() answer       { return answer{err: ErrAborted} }

func (p *scriptedPrompter) next(label string) answer {
	p.t.Helper()
	p.labels = append(p.labels, label)
	require.NotEmpty(p.t, p.answers, "unexpected prompt %q", label)
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a
}

func (p *scriptedPrompter) ShowTable(_ []string, records []types.Record) {
	p.tables = append(p.tables, records)
}

func (p *scriptedPrompter) PromptChoice(label string, options []string) (string, error) {
	a := p.next(label)
	if a.err != nil {
		return "", a.err
	}
	require.Contains(p.t, options, a.text)
	return a.text, nil
}

func (p *scriptedPrompter) PromptText(label, def string) (string, error) {
	a := p.next(label)
	return a.text, a.err
}

func (p *scriptedPrompter) Confirm(message string) (bool, error) {
	a := p.next(message)
	return a.yes, a.err
}

func (p *scriptedPrompter) Notify(level Level, message string) {
	p.notes = append(p.notes, note{level, message})
}

func (p *scriptedPrompter) lastNote() note {
	p.t.Helper()
	require.NotEmpty(p.t, p.notes)
	return p.notes[len(p.notes)-1]
}

type fixture struct {
	dir  string
	cfg  types.Config
	mgr  *manager.Manager
	json string
}

func newFixture(t *testing.T, content string) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := types.Config{
		DataFile:  filepath.Join(dir, "data.csv"),
		BackupDir: filepath.Join(dir, "backups"),
		Fields:    []string{"name", "city"},
	}
	if content != "" {
		require.NoError(t, os.WriteFile(cfg.DataFile, []byte(content), 0o644))
	}
	mgr, err := manager.New(cfg)
	require.NoError(t, err)
	return &fixture{dir: dir, cfg: cfg, mgr: mgr, json: filepath.Join(dir, "data.json")}
}

func (f *fixture) data(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(f.cfg.DataFile)
	require.NoError(t, err)
	return string(b)
}

// runFlow executes one action state and expects a return to the main menu.
func runFlow(t *testing.T, f *fixture, p *scriptedPrompter, choice string) *Machine {
	t.Helper()
	m := New(f.mgr, p, f.json)
	p.answers = append([]answer{say(choice)}, p.answers...)
	m.Step()
	require.NotEqual(t, StateMainMenu, m.State())
	assert.Equal(t, StateMainMenu, m.Step())
	assert.Empty(t, p.answers, "unused answers")
	return m
}

func TestMainMenuTransitions(t *testing.T) {
	want := map[string]State{
		ChoiceView:   StateViewing,
		ChoiceSearch: StateSearching,
		ChoiceAdd:    StateAdding,
		ChoiceUpdate: StateUpdating,
		ChoiceDelete: StateDeleting,
		ChoiceBackup: StateBackingUp,
		ChoiceExport: StateExporting,
		ChoiceImport: StateImporting,
		ChoiceErase:  StateErasing,
		ChoiceQuit:   StateQuit,
	}
	for choice, state := range want {
		t.Run(choice, func(t *testing.T) {
			f := newFixture(t, "")
			m := New(f.mgr, script(t, say(choice)), f.json)
			assert.Equal(t, state, m.Step())
		})
	}
}

func TestAbortQuits(t *testing.T) {
	f := newFixture(t, "")
	p := script(t, say(ChoiceAdd), abort())
	m := New(f.mgr, p, f.json)
	m.Run()
	assert.Equal(t, StateQuit, m.State())
	assert.Empty(t, p.notes)
}

func TestRunUntilQuit(t *testing.T) {
	f := newFixture(t, "")
	p := script(t,
		say(ChoiceAdd), say("Alice"), say("Oslo"),
		say(ChoiceAdd), say("Bob"), say("Bergen"),
		say(ChoiceView),
		say(ChoiceQuit),
	)
	m := New(f.mgr, p, f.json)
	m.Run()

	assert.Equal(t, StateQuit, m.State())
	require.Len(t, p.tables, 1)
	assert.Len(t, p.tables[0], 2)
	assert.Equal(t, "id,name,city\n1,Alice,Oslo\n2,Bob,Bergen\n", f.data(t))
}

func TestAddTrimsAndRejectsBlank(t *testing.T) {
	t.Run("trimmed", func(t *testing.T) {
		f := newFixture(t, "")
		p := script(t, say("  Alice "), say("Oslo"))
		runFlow(t, f, p, ChoiceAdd)
		assert.Equal(t, note{LevelSuccess, "Added record 1"}, p.lastNote())
		assert.Equal(t, "id,name,city\n1,Alice,Oslo\n", f.data(t))
	})
	t.Run("blank", func(t *testing.T) {
		f := newFixture(t, "")
		p := script(t, say("Alice"), say("   "))
		runFlow(t, f, p, ChoiceAdd)
		assert.Equal(t, note{LevelError, "Invalid input: city is required"}, p.lastNote())
		assert.Equal(t, "id,name,city\n", f.data(t))
	})
}

func TestUpdateFlow(t *testing.T) {
	f := newFixture(t, "id,name,city\n1,Alice,Oslo\n")
	p := script(t, say("1"), say("city"), say("Tromsø"))
	runFlow(t, f, p, ChoiceUpdate)

	assert.Equal(t, note{LevelSuccess, "Updated record 1"}, p.lastNote())
	assert.Equal(t, "id,name,city\n1,Alice,Tromsø\n", f.data(t))
	require.Len(t, p.tables, 1)
}

func TestUpdateMissingIDReportsAndReturns(t *testing.T) {
	f := newFixture(t, "id,name,city\n1,Alice,Oslo\n")
	p := script(t, say("9"))
	runFlow(t, f, p, ChoiceUpdate)

	n := p.lastNote()
	assert.Equal(t, LevelError, n.level)
	assert.Contains(t, n.msg, "9")
	assert.Equal(t, "id,name,city\n1,Alice,Oslo\n", f.data(t))
}

func TestNonIntegerIDReported(t *testing.T) {
	f := newFixture(t, "id,name,city\n1,Alice,Oslo\n")
	p := script(t, say("one"))
	runFlow(t, f, p, ChoiceDelete)
	assert.Equal(t, LevelError, p.lastNote().level)
}

func TestDeleteFlow(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		f := newFixture(t, "id,name,city\n1,Alice,Oslo\n2,Bob,Bergen\n")
		p := script(t, say("1"), yes())
		runFlow(t, f, p, ChoiceDelete)
		assert.Equal(t, "Confirm delete 1?", p.labels[len(p.labels)-1])
		assert.Equal(t, "id,name,city\n2,Bob,Bergen\n", f.data(t))
	})
	t.Run("declined", func(t *testing.T) {
		f := newFixture(t, "id,name,city\n1,Alice,Oslo\n")
		p := script(t, say("1"), no())
		runFlow(t, f, p, ChoiceDelete)
		assert.Empty(t, p.notes)
		assert.Equal(t, "id,name,city\n1,Alice,Oslo\n", f.data(t))
	})
}

func TestEraseFlowStatesCount(t *testing.T) {
	f := newFixture(t, "id,name,city\n1,Alice,Oslo\n2,Bob,Bergen\n")
	p := script(t, yes())
	runFlow(t, f, p, ChoiceErase)

	assert.Equal(t, "Erase all data? This will remove 2 records.", p.labels[len(p.labels)-1])
	assert.Equal(t, note{LevelWarn, "All data erased"}, p.lastNote())
	assert.Equal(t, "id,name,city\n", f.data(t))
}

func TestSearchFlow(t *testing.T) {
	f := newFixture(t, "id,name,city\n1,Alice,Oslo\n2,Bob,Bergen\n3,Carol,Oslo\n")
	p := script(t, say("city"), say("oslo"))
	runFlow(t, f, p, ChoiceSearch)

	require.Len(t, p.tables, 1)
	var got []int
	for _, r := range p.tables[0] {
		got = append(got, r.ID)
	}
	assert.Equal(t, []int{1, 3}, got)
	assert.Equal(t, note{LevelInfo, "2 matching records"}, p.lastNote())
}

func TestBackupFlowReportsSize(t *testing.T) {
	f := newFixture(t, "id,name,city\n1,Alice,Oslo\n")
	p := script(t)
	m := New(f.mgr, p, f.json)
	m.sizeOf = func(string) (uint64, error) { return 2048, nil }
	p.answers = []answer{say(ChoiceBackup)}
	m.Step()
	m.Step()

	n := p.lastNote()
	assert.Equal(t, LevelSuccess, n.level)
	assert.Contains(t, n.msg, "Backup created: ")
	assert.Contains(t, n.msg, "(2.0 kB)")
}

func TestExportImportFlow(t *testing.T) {
	f := newFixture(t, "id,name,city\n1,Alice,Oslo\n2,Bob,Bergen\n")

	p := script(t, say(""))
	runFlow(t, f, p, ChoiceExport)
	assert.Equal(t, note{LevelSuccess, fmt.Sprintf("Exported 2 records to %s", f.json)}, p.lastNote())

	require.NoError(t, f.mgr.Delete(2))

	p = script(t, say(f.json))
	runFlow(t, f, p, ChoiceImport)
	require.Len(t, p.notes, 2)
	assert.Equal(t, note{LevelSuccess, "Imported 1 new records"}, p.notes[0])
	assert.Equal(t, note{LevelWarn, "Skipped duplicate IDs: 1"}, p.notes[1])
	assert.Equal(t, "id,name,city\n1,Alice,Oslo\n2,Bob,Bergen\n", f.data(t))
}

func TestImportMissingFileReported(t *testing.T) {
	f := newFixture(t, "")
	p := script(t, say(filepath.Join(f.dir, "absent.json")))
	runFlow(t, f, p, ChoiceImport)

	n := p.lastNote()
	assert.Equal(t, LevelError, n.level)
	assert.Contains(t, n.msg, "absent.json")
}

type brokenOps struct {
	Operations
}

func (brokenOps) View() ([]types.Record, error) {
	return nil, fmt.Errorf("%w: disk gone", types.ErrIO)
}

func TestOperationErrorReturnsToMainMenu(t *testing.T) {
	f := newFixture(t, "")
	p := script(t, say(ChoiceView))
	m := New(brokenOps{Operations: f.mgr}, p, f.json)
	m.Step()
	assert.Equal(t, StateMainMenu, m.Step())

	n := p.lastNote()
	assert.Equal(t, LevelError, n.level)
	assert.Contains(t, n.msg, "disk gone")
}
