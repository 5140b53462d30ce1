package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/equipsight/equipsight/cli/api"
)

// uploadModel prompts for a CSV path and shows the upload result.
type uploadModel struct {
	form   *huh.Form
	path   string
	result *api.UploadResult
}

func newUploadModel() *uploadModel {
	m := &uploadModel{}
	m.reset()
	return m
}

// reset clears the result and rebuilds the path form.
func (m *uploadModel) reset() tea.Cmd {
	m.result = nil
	m.path = ""
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("CSV file path").
			Description("Path to an equipment readings CSV (esc to cancel)").
			Value(&m.path),
	))
	return m.form.Init()
}

// Update drives the form; it returns a non-nil command and completed=true
// once a path has been submitted.
func (m *uploadModel) Update(msg tea.Msg) (tea.Cmd, bool) {
	if m.result != nil {
		return nil, false
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return nil, true
	}
	return cmd, false
}

func (m *uploadModel) View() string {
	if m.result == nil {
		return m.form.View()
	}
	d := m.result.Dataset
	var b strings.Builder
	b.WriteString(titleStyle.Render("Upload complete"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s: %d equipment rows stored\n", d.Name, d.TotalEquipment)
	if m.result.SkippedRows > 0 {
		fmt.Fprintf(&b, "%s\n", errorStyle.Render(fmt.Sprintf("%d rows skipped (invalid or incomplete)", m.result.SkippedRows)))
	}
	fmt.Fprintf(&b, "Avg flowrate %.2f, pressure %.2f, temperature %.2f\n",
		d.AvgFlowrate, d.AvgPressure, d.AvgTemperature)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: view dataset • esc: back to history"))
	return b.String()
}
