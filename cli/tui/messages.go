package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/equipsight/equipsight/cli/api"
)

// Client is the API surface the dashboard depends on.
type Client interface {
	Authenticated() bool
	Register(ctx context.Context, req api.RegisterRequest) (string, error)
	VerifySignup(ctx context.Context, email, code string) (*api.AuthResult, error)
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	VerifyResetOTP(ctx context.Context, email, code string) (bool, error)
	ResetPassword(ctx context.Context, req api.ResetPasswordRequest) (string, error)
	ResendOTP(ctx context.Context, email, otpType string) (string, error)
	Me(ctx context.Context) (*api.User, error)
	UploadCSV(ctx context.Context, path string) (*api.UploadResult, error)
	History(ctx context.Context) ([]api.Dataset, error)
	GetDataset(ctx context.Context, id string) (*api.DatasetDetail, error)
	DeleteDataset(ctx context.Context, id string) error
	SaveReport(ctx context.Context, id, destDir string) (string, error)
}

type errMsg struct{ err error }

type statusMsg string

type authDoneMsg struct{ user api.User }

type registeredMsg struct {
	email   string
	message string
}

type resetRequestedMsg struct{ message string }

type resetVerifiedMsg struct{ valid bool }

type passwordResetMsg struct{ message string }

type historyLoadedMsg struct{ datasets []api.Dataset }

type detailLoadedMsg struct{ detail *api.DatasetDetail }

type uploadedMsg struct{ result *api.UploadResult }

type deletedMsg struct{ id string }

type reportSavedMsg struct{ path string }

func loginCmd(ctx context.Context, c Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		out, err := c.Login(ctx, email, password)
		if err != nil {
			return errMsg{err}
		}
		return authDoneMsg{user: out.User}
	}
}

func registerCmd(ctx context.Context, c Client, req api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		msg, err := c.Register(ctx, req)
		if err != nil {
			return errMsg{err}
		}
		return registeredMsg{email: req.Email, message: msg}
	}
}

func verifySignupCmd(ctx context.Context, c Client, email, code string) tea.Cmd {
	return func() tea.Msg {
		out, err := c.VerifySignup(ctx, email, code)
		if err != nil {
			return errMsg{err}
		}
		return authDoneMsg{user: out.User}
	}
}

func resendOTPCmd(ctx context.Context, c Client, email, otpType string) tea.Cmd {
	return func() tea.Msg {
		msg, err := c.ResendOTP(ctx, email, otpType)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(msg)
	}
}

func requestResetCmd(ctx context.Context, c Client, email string) tea.Cmd {
	return func() tea.Msg {
		msg, err := c.RequestPasswordReset(ctx, email)
		if err != nil {
			return errMsg{err}
		}
		return resetRequestedMsg{message: msg}
	}
}

func verifyResetCmd(ctx context.Context, c Client, email, code string) tea.Cmd {
	return func() tea.Msg {
		valid, err := c.VerifyResetOTP(ctx, email, code)
		if err != nil {
			return errMsg{err}
		}
		return resetVerifiedMsg{valid: valid}
	}
}

func resetPasswordCmd(ctx context.Context, c Client, req api.ResetPasswordRequest) tea.Cmd {
	return func() tea.Msg {
		msg, err := c.ResetPassword(ctx, req)
		if err != nil {
			return errMsg{err}
		}
		return passwordResetMsg{message: msg}
	}
}

func meCmd(ctx context.Context, c Client) tea.Cmd {
	return func() tea.Msg {
		user, err := c.Me(ctx)
		if err != nil {
			return errMsg{err}
		}
		return authDoneMsg{user: *user}
	}
}

func loadHistoryCmd(ctx context.Context, c Client) tea.Cmd {
	return func() tea.Msg {
		datasets, err := c.History(ctx)
		if err != nil {
			return errMsg{err}
		}
		return historyLoadedMsg{datasets: datasets}
	}
}

func loadDetailCmd(ctx context.Context, c Client, id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := c.GetDataset(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return detailLoadedMsg{detail: detail}
	}
}

func uploadCmd(ctx context.Context, c Client, path string) tea.Cmd {
	return func() tea.Msg {
		result, err := c.UploadCSV(ctx, path)
		if err != nil {
			return errMsg{err}
		}
		return uploadedMsg{result: result}
	}
}

func deleteCmd(ctx context.Context, c Client, id string) tea.Cmd {
	return func() tea.Msg {
		if err := c.DeleteDataset(ctx, id); err != nil {
			return errMsg{err}
		}
		return deletedMsg{id: id}
	}
}

func saveReportCmd(ctx context.Context, c Client, id string) tea.Cmd {
	return func() tea.Msg {
		dir, err := os.Getwd()
		if err != nil {
			return errMsg{err}
		}
		path, err := c.SaveReport(ctx, id, dir)
		if err != nil {
			return errMsg{err}
		}
		return reportSavedMsg{path: path}
	}
}
