package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/equipsight/equipsight/cli/api"
)

type view int

const (
	viewAuth view = iota
	viewHistory
	viewDetail
	viewUpload
)

// model is the root dashboard model.
type model struct {
	ctx    context.Context
	client Client

	view    view
	auth    *authModel
	history *historyModel
	detail  *detailModel
	upload  *uploadModel

	user    *api.User
	spinner spinner.Model
	loading bool
	status  string
	err     error
	width   int
	height  int
}

func newModel(ctx context.Context, client Client) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	m := &model{
		ctx:     ctx,
		client:  client,
		auth:    newAuthModel(ctx, client),
		history: newHistoryModel(),
		detail:  newDetailModel(),
		upload:  newUploadModel(),
		spinner: s,
	}
	if client.Authenticated() {
		m.view = viewHistory
	}
	return m
}

// Run starts the dashboard and blocks until it exits.
func Run(ctx context.Context, client Client) error {
	p := tea.NewProgram(newModel(ctx, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.view == viewHistory {
		m.loading = true
		cmds = append(cmds, meCmd(m.ctx, m.client), loadHistoryCmd(m.ctx, m.client))
	} else {
		cmds = append(cmds, m.auth.Init())
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}
		return m.handleKey(msg)
	case errMsg:
		m.loading = false
		m.err = msg.err
		if m.view == viewAuth {
			return m, m.auth.reopen()
		}
		if m.view == viewUpload {
			return m, m.upload.reset()
		}
		return m, nil
	case statusMsg:
		m.loading = false
		m.setStatus(string(msg))
		return m, nil
	default:
		return m.handleResult(msg)
	}
}

// handleResult reacts to API results.
func (m *model) handleResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.loading = true
		user := msg.user
		m.user = &user
		m.view = viewHistory
		m.setStatus("Signed in as " + user.Email)
		return m, loadHistoryCmd(m.ctx, m.client)
	case registeredMsg, resetRequestedMsg, resetVerifiedMsg, passwordResetMsg:
		m.loading = false
		switch msg := msg.(type) {
		case registeredMsg:
			m.setStatus(msg.message)
		case resetRequestedMsg:
			m.setStatus(msg.message)
		case resetVerifiedMsg:
			if !msg.valid {
				m.err = fmt.Errorf("invalid verification code")
			}
		case passwordResetMsg:
			m.setStatus(msg.message)
		}
		return m, m.auth.handle(msg)
	case historyLoadedMsg:
		m.loading = false
		m.history.setDatasets(msg.datasets)
		if m.view != viewUpload {
			m.view = viewHistory
		}
		return m, nil
	case detailLoadedMsg:
		m.loading = false
		m.detail.setDetail(msg.detail)
		m.view = viewDetail
		return m, nil
	case uploadedMsg:
		m.loading = false
		m.upload.result = msg.result
		m.setStatus("Dataset uploaded")
		return m, nil
	case deletedMsg:
		m.loading = true
		m.setStatus("Dataset deleted")
		m.view = viewHistory
		return m, loadHistoryCmd(m.ctx, m.client)
	case reportSavedMsg:
		m.loading = false
		m.setStatus("Report saved to " + msg.path)
		return m, nil
	}
	// Forward everything else to the active form so huh internals keep
	// working (cursor blinks, field transitions).
	switch m.view {
	case viewAuth:
		return m, m.auth.Update(msg)
	case viewUpload:
		cmd, _ := m.upload.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes keys to the active view.
func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewAuth:
		if cmd := m.auth.Update(msg); cmd != nil {
			m.clearNotices()
			m.loading = m.auth.form.State == huh.StateCompleted
			return m, cmd
		}
		return m, nil
	case viewHistory:
		return m.handleHistoryKey(msg)
	case viewDetail:
		return m.handleDetailKey(msg)
	case viewUpload:
		return m.handleUploadKey(msg)
	}
	return m, nil
}

func (m *model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.clearNotices()
		m.loading = true
		return m, loadHistoryCmd(m.ctx, m.client)
	case "u":
		m.clearNotices()
		m.view = viewUpload
		return m, m.upload.reset()
	case "enter":
		if d, ok := m.history.selected(); ok {
			m.clearNotices()
			m.loading = true
			return m, loadDetailCmd(m.ctx, m.client, d.ID)
		}
		return m, nil
	}
	return m, m.history.Update(msg)
}

func (m *model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.clearNotices()
		m.view = viewHistory
		return m, nil
	case "d":
		if m.detail.detail != nil {
			m.clearNotices()
			m.loading = true
			return m, deleteCmd(m.ctx, m.client, m.detail.detail.Dataset.ID)
		}
		return m, nil
	case "s":
		if m.detail.detail != nil {
			m.clearNotices()
			m.loading = true
			return m, saveReportCmd(m.ctx, m.client, m.detail.detail.Dataset.ID)
		}
		return m, nil
	}
	return m, m.detail.Update(msg)
}

func (m *model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.clearNotices()
		m.view = viewHistory
		m.loading = true
		return m, loadHistoryCmd(m.ctx, m.client)
	}
	if m.upload.result != nil {
		if msg.String() == "enter" {
			m.clearNotices()
			m.loading = true
			return m, loadDetailCmd(m.ctx, m.client, m.upload.result.Dataset.ID)
		}
		return m, nil
	}
	cmd, completed := m.upload.Update(msg)
	if completed {
		m.clearNotices()
		m.loading = true
		return m, uploadCmd(m.ctx, m.client, strings.TrimSpace(m.upload.path))
	}
	return m, cmd
}

func (m *model) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *model) clearNotices() {
	m.status = ""
	m.err = nil
}

func (m *model) View() string {
	var b strings.Builder
	header := "EquipSight"
	if m.user != nil {
		header += helpStyle.Render("  " + m.user.Email)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	switch m.view {
	case viewAuth:
		b.WriteString(m.auth.View())
	case viewHistory:
		b.WriteString(m.history.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: open • u: upload • r: refresh • q: quit"))
	case viewDetail:
		b.WriteString(m.detail.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("s: save report • d: delete • esc: back • q: quit"))
	case viewUpload:
		b.WriteString(m.upload.View())
	}
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " loading...")
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	return b.String()
}
