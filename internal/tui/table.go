package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderTable draws records as a bordered table with one column per header
// field. Column titles are title-cased field names.
func RenderTable(header []string, records []types.Record) string {
	title := cases.Title(language.Und)
	titles := make([]string, len(header))
	for i, h := range header {
		titles[i] = title.String(h)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(header))
		for i, h := range header {
			if h == types.FieldID {
				row[i] = strconv.Itoa(r.ID)
				continue
			}
			row[i] = r.Get(h)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderRow(true).
		Headers(titles...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}
