package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/equipsight/equipsight/cli/api"
)

// historyModel lists the retained datasets.
type historyModel struct {
	table    table.Model
	datasets []api.Dataset
}

func newHistoryModel() *historyModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Dataset", Width: 28},
			{Title: "Uploaded", Width: 17},
			{Title: "Rows", Width: 6},
			{Title: "Avg Flow", Width: 10},
			{Title: "Avg Press", Width: 10},
			{Title: "Avg Temp", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("240"))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return &historyModel{table: t}
}

func (m *historyModel) setDatasets(datasets []api.Dataset) {
	m.datasets = datasets
	rows := make([]table.Row, 0, len(datasets))
	for _, d := range datasets {
		rows = append(rows, table.Row{
			d.Name,
			d.UploadedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", d.TotalEquipment),
			fmt.Sprintf("%.2f", d.AvgFlowrate),
			fmt.Sprintf("%.2f", d.AvgPressure),
			fmt.Sprintf("%.2f", d.AvgTemperature),
		})
	}
	m.table.SetRows(rows)
}

// selected returns the dataset under the cursor.
func (m *historyModel) selected() (api.Dataset, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.datasets) {
		return api.Dataset{}, false
	}
	return m.datasets[idx], true
}

func (m *historyModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *historyModel) View() string {
	if len(m.datasets) == 0 {
		return helpStyle.Render("No datasets yet. Press u to upload a CSV file.")
	}
	return m.table.View()
}
