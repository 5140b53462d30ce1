package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/equipsight/equipsight/cli/api"
)

// detailModel shows one dataset: summary cards, the type distribution chart,
// and the equipment table.
type detailModel struct {
	detail *api.DatasetDetail
	table  table.Model
}

func newDetailModel() *detailModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Type", Width: 16},
			{Title: "Flowrate", Width: 10},
			{Title: "Pressure", Width: 10},
			{Title: "Temp", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(8),
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
	return &detailModel{table: t}
}

func (m *detailModel) setDetail(detail *api.DatasetDetail) {
	m.detail = detail
	rows := make([]table.Row, 0, len(detail.Equipment))
	for _, e := range detail.Equipment {
		rows = append(rows, table.Row{
			e.Name,
			e.Type,
			fmt.Sprintf("%.2f", e.Flowrate),
			fmt.Sprintf("%.2f", e.Pressure),
			fmt.Sprintf("%.2f", e.Temperature),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *detailModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *detailModel) View() string {
	if m.detail == nil {
		return ""
	}
	d := m.detail.Dataset
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Uploaded " + d.UploadedAt.Local().Format("2006-01-02 15:04")))
	b.WriteString("\n\n")
	b.WriteString(statCards(d))
	b.WriteString("\n")
	if len(d.TypeDistribution) > 0 {
		b.WriteString(sectionStyle.Render("Equipment types"))
		b.WriteString("\n")
		b.WriteString(barChart(d.TypeDistribution, 30))
	}
	b.WriteString(sectionStyle.Render("Equipment"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	return b.String()
}

// statCards renders the four summary statistics side by side.
func statCards(d api.Dataset) string {
	cards := []string{
		statCard("Equipment", fmt.Sprintf("%d", d.TotalEquipment)),
		statCard("Avg Flowrate", fmt.Sprintf("%.2f", d.AvgFlowrate)),
		statCard("Avg Pressure", fmt.Sprintf("%.2f", d.AvgPressure)),
		statCard("Avg Temperature", fmt.Sprintf("%.2f", d.AvgTemperature)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func statCard(label, value string) string {
	content := cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}

// barChart renders a horizontal bar per equipment type, scaled so the most
// frequent type fills maxWidth cells. Types are sorted alphabetically.
func barChart(dist map[string]int, maxWidth int) string {
	if len(dist) == 0 || maxWidth < 1 {
		return ""
	}
	types := make([]string, 0, len(dist))
	labelWidth := 0
	max := 0
	for t, n := range dist {
		types = append(types, t)
		if len(t) > labelWidth {
			labelWidth = len(t)
		}
		if n > max {
			max = n
		}
	}
	sort.Strings(types)
	var b strings.Builder
	for _, t := range types {
		n := dist[t]
		width := n * maxWidth / max
		if width < 1 {
			width = 1
		}
		fmt.Fprintf(&b, "%-*s %s %d\n", labelWidth, t, barStyle.Render(strings.Repeat("█", width)), n)
	}
	return b.String()
}
