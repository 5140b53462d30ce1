package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/equipsight/equipsight/pkg/config"
	"github.com/go-resty/resty/v2"
)

// Client talks to the EquipSight API. Tokens obtained from login or signup
// verification are persisted to the configured token file and injected as a
// bearer header on subsequent requests.
type Client struct {
	http      *resty.Client
	tokenFile string

	mu     sync.Mutex
	tokens TokenPair
}

// NewClient builds a client from the CLI configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	baseURL := cfg.CLI.BaseURL
	parsed, err := url.Parse(baseURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	tokenFile, err := resolveTokenFile(cfg.CLI.TokenFile)
	if err != nil {
		return nil, err
	}
	c := &Client{tokenFile: tokenFile}
	c.http = resty.New().
		SetBaseURL(parsed.JoinPath("api", "v0").String()).
		SetTimeout(cfg.CLI.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryCondition).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if access := c.AccessToken(); access != "" && req.Header.Get("Authorization") == "" {
				req.SetHeader("Authorization", "Bearer "+access)
			}
			return nil
		})
	c.loadTokens()
	return c, nil
}

// retryCondition retries network errors and transient server statuses.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

func resolveTokenFile(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory for token file: %w", err)
	}
	return filepath.Join(home, ".equipsight", "tokens.json"), nil
}

// AccessToken returns the current access token, if any.
func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.Access
}

// Authenticated reports whether a token pair is loaded.
func (c *Client) Authenticated() bool {
	return c.AccessToken() != ""
}

func (c *Client) setTokens(pair TokenPair) {
	c.mu.Lock()
	c.tokens = pair
	c.mu.Unlock()
	// Persistence is best effort; an in-memory session still works.
	_ = c.saveTokens(pair)
}

func (c *Client) loadTokens() {
	data, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return
	}
	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return
	}
	c.mu.Lock()
	c.tokens = pair
	c.mu.Unlock()
}

func (c *Client) saveTokens(pair TokenPair) error {
	if err := os.MkdirAll(filepath.Dir(c.tokenFile), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	return os.WriteFile(c.tokenFile, data, 0o600)
}

// Logout drops the token pair and removes the token file.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.tokens = TokenPair{}
	c.mu.Unlock()
	err := os.Remove(c.tokenFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// envelope is the server's uniform response shape.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details string          `json:"details"`
}

// do executes a JSON request and decodes the data payload into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	var env envelope
	req := c.http.R().SetContext(ctx).SetResult(&env).SetError(&env)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return "", fmt.Errorf("request %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return "", &Error{Status: resp.StatusCode(), Message: env.Error, Details: env.Details}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decoding %s response: %w", path, err)
		}
	}
	return env.Message, nil
}

// Register creates an inactive account and triggers the signup OTP email.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}

// VerifySignup confirms the signup OTP and stores the issued token pair.
func (c *Client) VerifySignup(ctx context.Context, email, code string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "otp": code}
	if _, err := c.do(ctx, http.MethodPost, "/auth/verify-signup-otp", body, &out); err != nil {
		return nil, err
	}
	c.setTokens(out.Tokens)
	return &out, nil
}

// Login authenticates and stores the issued token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.setTokens(out.Tokens)
	return &out, nil
}

// Refresh exchanges the refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.tokens.Refresh
	c.mu.Unlock()
	if refresh == "" {
		return fmt.Errorf("no refresh token available")
	}
	var out struct {
		Tokens TokenPair `json:"tokens"`
	}
	body := map[string]string{"refresh": refresh}
	if _, err := c.do(ctx, http.MethodPost, "/auth/refresh", body, &out); err != nil {
		return err
	}
	c.setTokens(out.Tokens)
	return nil
}

// RequestPasswordReset asks for a reset OTP. The server always answers with
// the same message regardless of whether the account exists.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return c.do(ctx, http.MethodPost, "/auth/request-password-reset", map[string]string{"email": email}, nil)
}

// VerifyResetOTP checks a reset code without consuming it.
func (c *Client) VerifyResetOTP(ctx context.Context, email, code string) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	body := map[string]string{"email": email, "otp": code}
	if _, err := c.do(ctx, http.MethodPost, "/auth/verify-reset-otp", body, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// ResetPassword sets a new password using a reset OTP.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error) {
	return c.do(ctx, http.MethodPost, "/auth/reset-password", req, nil)
}

// ResendOTP requests a fresh code; otpType is "signup" or "password_reset".
func (c *Client) ResendOTP(ctx context.Context, email, otpType string) (string, error) {
	body := map[string]string{"email": email, "otp_type": otpType}
	return c.do(ctx, http.MethodPost, "/auth/resend-otp", body, nil)
}

// Me returns the authenticated account.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UploadCSV uploads an equipment CSV file and returns the stored dataset.
func (c *Client) UploadCSV(ctx context.Context, path string) (*UploadResult, error) {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("file", path).
		SetResult(&env).
		SetError(&env).
		Post("/datasets/upload")
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, &Error{Status: resp.StatusCode(), Message: env.Error, Details: env.Details}
	}
	var out UploadResult
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	return &out, nil
}

// History lists the retained datasets, newest first.
func (c *Client) History(ctx context.Context) ([]Dataset, error) {
	var out struct {
		Datasets []Dataset `json:"datasets"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/datasets/history", nil, &out); err != nil {
		return nil, err
	}
	return out.Datasets, nil
}

// GetDataset loads a dataset with its equipment rows.
func (c *Client) GetDataset(ctx context.Context, id string) (*DatasetDetail, error) {
	var out DatasetDetail
	if _, err := c.do(ctx, http.MethodGet, "/datasets/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Latest returns the most recent dataset.
func (c *Client) Latest(ctx context.Context) (*Dataset, error) {
	var out struct {
		Dataset Dataset `json:"dataset"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/datasets/latest", nil, &out); err != nil {
		return nil, err
	}
	return &out.Dataset, nil
}

// DeleteDataset removes a dataset owned by the authenticated user.
func (c *Client) DeleteDataset(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/datasets/"+id, nil, nil)
	return err
}

// SaveReport generates the PDF report for a dataset and writes it to destDir,
// returning the written file path.
func (c *Client) SaveReport(ctx context.Context, id, destDir string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Post("/datasets/" + id + "/report")
	if err != nil {
		return "", fmt.Errorf("generating report: %w", err)
	}
	if resp.IsError() {
		var env envelope
		if jsonErr := json.Unmarshal(resp.Body(), &env); jsonErr == nil && env.Error != "" {
			return "", &Error{Status: resp.StatusCode(), Message: env.Error, Details: env.Details}
		}
		return "", &Error{Status: resp.StatusCode()}
	}
	name := reportFileName(resp.Header().Get("Content-Disposition"), id)
	dest := filepath.Join(destDir, name)
	if err := os.WriteFile(dest, resp.Body(), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return dest, nil
}

// reportFileName extracts the attachment name from a Content-Disposition
// header, falling back to a dataset-derived name.
func reportFileName(disposition, id string) string {
	const marker = `filename="`
	if i := strings.Index(disposition, marker); i >= 0 {
		rest := disposition[i+len(marker):]
		if j := strings.Index(rest, `"`); j > 0 {
			return filepath.Base(rest[:j])
		}
	}
	return id + "_report.pdf"
}
