package menu

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

func (m *Machine) view() error {
	return m.showAll()
}

func (m *Machine) search() error {
	fields := m.ops.Schema().Header()
	field, err := m.prompt.PromptChoice("Search field:", fields)
	if err != nil {
		return err
	}
	value, err := m.prompt.PromptText(fmt.Sprintf("Text to find in %s", field), "")
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	q := types.Query{Contains: field != types.FieldID}
	if value != "" {
		q.Where = map[string]string{field: value}
	}
	records, err := m.ops.Find(q)
	if err != nil {
		return err
	}
	m.prompt.ShowTable(m.ops.Schema().Header(), records)
	m.prompt.Notify(LevelInfo, fmt.Sprintf("%d matching records", len(records)))
	return nil
}

func (m *Machine) add() error {
	values := make(map[string]string)
	for _, field := range m.ops.Schema().Fields() {
		answer, err := m.prompt.PromptText(fieldLabel(field), "")
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			m.prompt.Notify(LevelError, fmt.Sprintf("Invalid input: %s is required", field))
			return nil
		}
		values[field] = answer
	}
	rec, err := m.ops.Add(values)
	if err != nil {
		return err
	}
	m.prompt.Notify(LevelSuccess, fmt.Sprintf("Added record %d", rec.ID))
	return nil
}

func (m *Machine) update() error {
	if err := m.showAll(); err != nil {
		return err
	}
	id, err := m.askID("Enter ID to update")
	if err != nil {
		return err
	}
	rec, err := m.ops.Get(id)
	if err != nil {
		return err
	}
	field, err := m.prompt.PromptChoice("Field to update:", m.ops.Schema().Fields())
	if err != nil {
		return err
	}
	value, err := m.prompt.PromptText("New "+field, rec.Get(field))
	if err != nil {
		return err
	}
	if _, err := m.ops.Update(id, map[string]string{field: value}); err != nil {
		return err
	}
	m.prompt.Notify(LevelSuccess, fmt.Sprintf("Updated record %d", id))
	return nil
}

func (m *Machine) delete() error {
	if err := m.showAll(); err != nil {
		return err
	}
	id, err := m.askID("Enter ID to delete")
	if err != nil {
		return err
	}
	ok, err := m.prompt.Confirm(fmt.Sprintf("Confirm delete %d?", id))
	if err != nil || !ok {
		return err
	}
	if err := m.ops.Delete(id); err != nil {
		return err
	}
	m.prompt.Notify(LevelSuccess, fmt.Sprintf("Deleted record %d", id))
	return nil
}

func (m *Machine) backup() error {
	dest, err := m.ops.Backup()
	if err != nil {
		return err
	}
	msg := "Backup created: " + dest
	if size, err := m.sizeOf(dest); err == nil {
		msg += fmt.Sprintf(" (%s)", humanize.Bytes(size))
	}
	m.prompt.Notify(LevelSuccess, msg)
	return nil
}

func (m *Machine) export() error {
	path, err := m.askPath()
	if err != nil {
		return err
	}
	n, err := m.ops.Export(path)
	if err != nil {
		return err
	}
	m.prompt.Notify(LevelSuccess, fmt.Sprintf("Exported %d records to %s", n, path))
	return nil
}

func (m *Machine) importJSON() error {
	path, err := m.askPath()
	if err != nil {
		return err
	}
	res, err := m.ops.Import(path)
	if err != nil {
		return err
	}
	m.prompt.Notify(LevelSuccess, fmt.Sprintf("Imported %d new records", len(res.Added)))
	if len(res.Skipped) > 0 {
		m.prompt.Notify(LevelWarn, "Skipped duplicate IDs: "+joinIDs(res.Skipped))
	}
	return nil
}

func (m *Machine) erase() error {
	records, err := m.ops.View()
	if err != nil {
		return err
	}
	ok, err := m.prompt.Confirm(fmt.Sprintf("Erase all data? This will remove %d records.", len(records)))
	if err != nil || !ok {
		return err
	}
	if _, err := m.ops.EraseAll(); err != nil {
		return err
	}
	m.prompt.Notify(LevelWarn, "All data erased")
	return nil
}

func (m *Machine) askPath() (string, error) {
	path, err := m.prompt.PromptText("JSON filename", m.jsonPath)
	if err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = m.jsonPath
	}
	return path, nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func fileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}
