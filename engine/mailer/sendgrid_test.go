package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T, handler http.HandlerFunc) *SendGridMailer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	m, err := NewSendGridMailer(&SendGridConfig{
		APIKey:      "sg-test-key",
		FromAddress: "noreply@example.com",
		FromName:    "EquipSight",
		BaseURL:     srv.URL,
		MaxRetries:  2,
	})
	require.NoError(t, err)
	return m
}

func TestNewSendGridMailer(t *testing.T) {
	t.Run("Should require an API key", func(t *testing.T) {
		_, err := NewSendGridMailer(&SendGridConfig{FromAddress: "a@b.c"})
		assert.Error(t, err)
	})
	t.Run("Should require a sender address", func(t *testing.T) {
		_, err := NewSendGridMailer(&SendGridConfig{APIKey: "key"})
		assert.Error(t, err)
	})
}

func TestSendGridMailer_Send(t *testing.T) {
	t.Run("Should post the message to the mail send endpoint", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotBody sgMailRequest
		m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &gotBody)
			w.WriteHeader(http.StatusAccepted)
		})
		msg := SignupOTPMessage("ada@example.com", "123456", 10)
		require.NoError(t, m.Send(context.Background(), msg))
		assert.Equal(t, "/v3/mail/send", gotPath)
		assert.Equal(t, "Bearer sg-test-key", gotAuth)
		require.Len(t, gotBody.Personalizations, 1)
		assert.Equal(t, "ada@example.com", gotBody.Personalizations[0].To[0].Email)
		assert.Contains(t, gotBody.Content[0].Value, "123456")
	})
	t.Run("Should retry on 5xx and succeed", func(t *testing.T) {
		var calls atomic.Int32
		m := newTestMailer(t, func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusAccepted)
		})
		err := m.Send(context.Background(), PasswordResetOTPMessage("ada@example.com", "654321", 10))
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})
	t.Run("Should fail without retry on 401", func(t *testing.T) {
		var calls atomic.Int32
		m := newTestMailer(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		})
		err := m.Send(context.Background(), SignupOTPMessage("ada@example.com", "111111", 10))
		assert.ErrorContains(t, err, "authentication failed")
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestOTPMessages(t *testing.T) {
	t.Run("Should embed the code and expiry in both bodies", func(t *testing.T) {
		msg := SignupOTPMessage("ada@example.com", "424242", 10)
		assert.Contains(t, msg.PlainBody, "424242")
		assert.Contains(t, msg.HTMLBody, "424242")
		assert.Contains(t, msg.PlainBody, "10 minutes")
	})
	t.Run("Should warn on password reset", func(t *testing.T) {
		msg := PasswordResetOTPMessage("ada@example.com", "424242", 5)
		assert.Contains(t, msg.PlainBody, "WARNING")
		assert.Equal(t, "Password Reset - EquipSight", msg.Subject)
	})
}
