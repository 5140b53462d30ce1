package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/auth/token"
	"github.com/equipsight/equipsight/engine/auth/uc"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/mailer"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memRepo struct {
	users map[string]*model.User
	otps  []*model.OTP
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*model.User)}
}

func (r *memRepo) CreateUser(_ context.Context, user *model.User) error {
	r.users[user.Email] = user
	return nil
}

func (r *memRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, uc.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *memRepo) GetUserByID(_ context.Context, id core.ID) (*model.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, uc.ErrUserNotFound
}

func (r *memRepo) UpdateUser(_ context.Context, user *model.User) error {
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *memRepo) CreateOTP(_ context.Context, otp *model.OTP) error {
	cp := *otp
	r.otps = append(r.otps, &cp)
	return nil
}

func (r *memRepo) InvalidateOTPs(_ context.Context, email string, otpType model.OTPType) error {
	for _, otp := range r.otps {
		if otp.Email == email && otp.Type == otpType {
			otp.Used = true
		}
	}
	return nil
}

func (r *memRepo) GetActiveOTP(_ context.Context, email, code string, otpType model.OTPType) (*model.OTP, error) {
	for i := len(r.otps) - 1; i >= 0; i-- {
		otp := r.otps[i]
		if otp.Email == email && otp.Code == code && otp.Type == otpType && !otp.Used {
			cp := *otp
			return &cp, nil
		}
	}
	return nil, uc.ErrOTPNotFound
}

func (r *memRepo) MarkOTPUsed(_ context.Context, id core.ID) error {
	for _, otp := range r.otps {
		if otp.ID == id {
			otp.Used = true
			return nil
		}
	}
	return uc.ErrOTPNotFound
}

func (r *memRepo) latestCode(email string, otpType model.OTPType) string {
	for i := len(r.otps) - 1; i >= 0; i-- {
		if r.otps[i].Email == email && r.otps[i].Type == otpType {
			return r.otps[i].Code
		}
	}
	return ""
}

type discardMailer struct{}

func (discardMailer) Send(context.Context, *mailer.Message) error { return nil }

func setupRouter(t *testing.T) (*gin.Engine, *memRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := newMemRepo()
	tokens, err := token.NewManager([]byte("test-secret"), time.Hour, 24*time.Hour)
	require.NoError(t, err)
	cfg := uc.DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	factory := uc.NewFactory(repo, discardMailer{}, tokens, cfg)
	r := gin.New()
	apiBase := r.Group("/api/v0")
	RegisterRoutes(apiBase, factory, tokens, nil)
	return r, repo
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]any)
	return data
}

func registerAndVerify(t *testing.T, r *gin.Engine, repo *memRepo, email string) map[string]any {
	t.Helper()
	w := postJSON(t, r, "/api/v0/auth/register", gin.H{
		"email":            email,
		"password":         "sup3rsecret",
		"confirm_password": "sup3rsecret",
		"name":             "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	code := repo.latestCode(email, model.OTPTypeSignup)
	require.NotEmpty(t, code)
	w = postJSON(t, r, "/api/v0/auth/verify-signup-otp", gin.H{"email": email, "otp": code})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	tokens, _ := data["tokens"].(map[string]any)
	return tokens
}

func TestAuthRoutes(t *testing.T) {
	t.Run("Should complete the signup and login flow", func(t *testing.T) {
		r, repo := setupRouter(t)
		tokens := registerAndVerify(t, r, repo, "alice@example.com")
		require.NotEmpty(t, tokens["access"])
		require.NotEmpty(t, tokens["refresh"])

		w := postJSON(t, r, "/api/v0/auth/login", gin.H{
			"email":    "alice@example.com",
			"password": "sup3rsecret",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("Should reject login before verification", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := postJSON(t, r, "/api/v0/auth/register", gin.H{
			"email":            "bob@example.com",
			"password":         "sup3rsecret",
			"confirm_password": "sup3rsecret",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		w = postJSON(t, r, "/api/v0/auth/login", gin.H{
			"email":    "bob@example.com",
			"password": "sup3rsecret",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
	t.Run("Should reject bad credentials with 401", func(t *testing.T) {
		r, repo := setupRouter(t)
		registerAndVerify(t, r, repo, "alice@example.com")
		w := postJSON(t, r, "/api/v0/auth/login", gin.H{
			"email":    "alice@example.com",
			"password": "wrongpassword",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("Should reject a wrong signup code with 400", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := postJSON(t, r, "/api/v0/auth/register", gin.H{
			"email":            "carol@example.com",
			"password":         "sup3rsecret",
			"confirm_password": "sup3rsecret",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		w = postJSON(t, r, "/api/v0/auth/verify-signup-otp", gin.H{
			"email": "carol@example.com",
			"otp":   "000000",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("Should return 409 when registering an existing account", func(t *testing.T) {
		r, repo := setupRouter(t)
		registerAndVerify(t, r, repo, "alice@example.com")
		w := postJSON(t, r, "/api/v0/auth/register", gin.H{
			"email":            "alice@example.com",
			"password":         "sup3rsecret",
			"confirm_password": "sup3rsecret",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
	t.Run("Should serve the profile with a valid token", func(t *testing.T) {
		r, repo := setupRouter(t)
		tokens := registerAndVerify(t, r, repo, "alice@example.com")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v0/auth/me", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+tokens["access"].(string))
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		user, _ := data["user"].(map[string]any)
		assert.Equal(t, "alice@example.com", user["email"])
	})
	t.Run("Should reject the profile without a token", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v0/auth/me", http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("Should exchange a refresh token for a new pair", func(t *testing.T) {
		r, repo := setupRouter(t)
		tokens := registerAndVerify(t, r, repo, "alice@example.com")
		w := postJSON(t, r, "/api/v0/auth/refresh", gin.H{"refresh": tokens["refresh"]})
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		fresh, _ := data["tokens"].(map[string]any)
		assert.NotEmpty(t, fresh["access"])
	})
	t.Run("Should reject an access token on the refresh endpoint", func(t *testing.T) {
		r, repo := setupRouter(t)
		tokens := registerAndVerify(t, r, repo, "alice@example.com")
		w := postJSON(t, r, "/api/v0/auth/refresh", gin.H{"refresh": tokens["access"]})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("Should complete the password reset flow", func(t *testing.T) {
		r, repo := setupRouter(t)
		registerAndVerify(t, r, repo, "alice@example.com")

		w := postJSON(t, r, "/api/v0/auth/request-password-reset", gin.H{"email": "alice@example.com"})
		require.Equal(t, http.StatusOK, w.Code)
		code := repo.latestCode("alice@example.com", model.OTPTypePasswordReset)
		require.NotEmpty(t, code)

		w = postJSON(t, r, "/api/v0/auth/verify-reset-otp", gin.H{"email": "alice@example.com", "otp": code})
		require.Equal(t, http.StatusOK, w.Code)

		w = postJSON(t, r, "/api/v0/auth/reset-password", gin.H{
			"email":            "alice@example.com",
			"otp":              code,
			"password":         "newpassword1",
			"confirm_password": "newpassword1",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = postJSON(t, r, "/api/v0/auth/login", gin.H{
			"email":    "alice@example.com",
			"password": "newpassword1",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("Should not reveal unknown accounts on reset request", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := postJSON(t, r, "/api/v0/auth/request-password-reset", gin.H{"email": "nobody@example.com"})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
