package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/equipsight/equipsight/cli/api"
)

type authStage int

const (
	stageMenu authStage = iota
	stageLogin
	stageRegister
	stageSignupOTP
	stageResetEmail
	stageResetOTP
	stageResetPassword
)

// authModel drives the login, registration, and password reset forms.
type authModel struct {
	ctx    context.Context
	client Client

	stage  authStage
	form   *huh.Form
	choice string

	email    string
	name     string
	password string
	confirm  string
	code     string
}

func newAuthModel(ctx context.Context, client Client) *authModel {
	m := &authModel{ctx: ctx, client: client}
	m.toStage(stageMenu)
	return m
}

// toStage resets the inputs and builds the form for the requested stage.
func (m *authModel) toStage(stage authStage) tea.Cmd {
	m.stage = stage
	m.password = ""
	m.confirm = ""
	m.code = ""
	switch stage {
	case stageMenu:
		m.choice = "login"
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome to EquipSight").
				Options(
					huh.NewOption("Log in", "login"),
					huh.NewOption("Create an account", "register"),
					huh.NewOption("Reset password", "reset"),
				).
				Value(&m.choice),
		))
	case stageLogin:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&m.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.password),
		))
	case stageRegister:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&m.email),
			huh.NewInput().Title("Name").Value(&m.name),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&m.confirm),
		))
	case stageSignupOTP, stageResetOTP:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Verification code").
				Description(fmt.Sprintf("Enter the code sent to %s (ctrl+r to resend)", m.email)).
				Value(&m.code),
		))
	case stageResetEmail:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Account email").Value(&m.email),
		))
	case stageResetPassword:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&m.password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&m.confirm),
		))
	}
	return m.form.Init()
}

func (m *authModel) Init() tea.Cmd {
	return m.form.Init()
}

// reopen rebuilds the current stage's form, e.g. after a failed submission.
func (m *authModel) reopen() tea.Cmd {
	return m.toStage(m.stage)
}

// Update forwards messages to the active form and dispatches API calls when
// a form completes.
func (m *authModel) Update(msg tea.Msg) tea.Cmd {
	// A completed form already dispatched its call; wait for the result.
	if m.form.State == huh.StateCompleted {
		return nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+r":
			switch m.stage {
			case stageSignupOTP:
				return resendOTPCmd(m.ctx, m.client, m.email, "signup")
			case stageResetOTP:
				return resendOTPCmd(m.ctx, m.client, m.email, "password_reset")
			}
		case "esc":
			if m.stage != stageMenu {
				return m.toStage(stageMenu)
			}
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m.submit()
	case huh.StateAborted:
		return m.toStage(stageMenu)
	}
	return cmd
}

// submit fires the API call for the completed stage.
func (m *authModel) submit() tea.Cmd {
	switch m.stage {
	case stageMenu:
		switch m.choice {
		case "register":
			return m.toStage(stageRegister)
		case "reset":
			return m.toStage(stageResetEmail)
		default:
			return m.toStage(stageLogin)
		}
	case stageLogin:
		return loginCmd(m.ctx, m.client, m.email, m.password)
	case stageRegister:
		return registerCmd(m.ctx, m.client, api.RegisterRequest{
			Email:           m.email,
			Name:            m.name,
			Password:        m.password,
			ConfirmPassword: m.confirm,
		})
	case stageSignupOTP:
		return verifySignupCmd(m.ctx, m.client, m.email, m.code)
	case stageResetEmail:
		return requestResetCmd(m.ctx, m.client, m.email)
	case stageResetOTP:
		return verifyResetCmd(m.ctx, m.client, m.email, m.code)
	case stageResetPassword:
		return resetPasswordCmd(m.ctx, m.client, api.ResetPasswordRequest{
			Email:           m.email,
			Code:            m.code,
			Password:        m.password,
			ConfirmPassword: m.confirm,
		})
	}
	return nil
}

// handle reacts to auth flow results, returning the follow-up command.
func (m *authModel) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case registeredMsg:
		m.email = msg.email
		return m.toStage(stageSignupOTP)
	case resetRequestedMsg:
		return m.toStage(stageResetOTP)
	case resetVerifiedMsg:
		if msg.valid {
			code := m.code
			cmd := m.toStage(stageResetPassword)
			m.code = code
			return cmd
		}
		return m.toStage(stageResetOTP)
	case passwordResetMsg:
		return m.toStage(stageLogin)
	}
	return nil
}

func (m *authModel) View() string {
	return m.form.View()
}
