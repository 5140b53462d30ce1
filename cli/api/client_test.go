package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/equipsight/equipsight/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.CLI.BaseURL = baseURL
	cfg.CLI.Timeout = 5 * time.Second
	cfg.CLI.TokenFile = filepath.Join(t.TempDir(), "tokens.json")
	return cfg
}

func TestNewClient(t *testing.T) {
	t.Run("Should create client with valid config", func(t *testing.T) {
		client, err := NewClient(testConfig(t, "http://localhost:8000"))
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.False(t, client.Authenticated())
	})
	t.Run("Should reject an invalid base URL", func(t *testing.T) {
		_, err := NewClient(testConfig(t, "not a url"))
		assert.Error(t, err)
	})
	t.Run("Should reject a non-http scheme", func(t *testing.T) {
		_, err := NewClient(testConfig(t, "ftp://localhost"))
		assert.Error(t, err)
	})
}

func TestClientAuth(t *testing.T) {
	t.Run("Should store tokens after login and send bearer header", func(t *testing.T) {
		var seenAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/api/v0/auth/login":
				json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{
						"user":   map[string]any{"id": "u1", "email": "alice@example.com", "name": "Alice"},
						"tokens": map[string]any{"access": "acc-token", "refresh": "ref-token"},
					},
					"message": "Logged in",
				})
			case "/api/v0/auth/me":
				seenAuth = r.Header.Get("Authorization")
				json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"user": map[string]any{"id": "u1", "email": "alice@example.com"}},
				})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		cfg := testConfig(t, server.URL)
		client, err := NewClient(cfg)
		require.NoError(t, err)

		out, err := client.Login(context.Background(), "alice@example.com", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, "Alice", out.User.Name)
		assert.True(t, client.Authenticated())

		user, err := client.Me(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Bearer acc-token", seenAuth)

		// Tokens were persisted for the next session.
		data, err := os.ReadFile(cfg.CLI.TokenFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "acc-token")
	})
	t.Run("Should load persisted tokens on construction", func(t *testing.T) {
		cfg := testConfig(t, "http://localhost:8000")
		require.NoError(t, os.WriteFile(cfg.CLI.TokenFile, []byte(`{"access":"old","refresh":"older"}`), 0o600))
		client, err := NewClient(cfg)
		require.NoError(t, err)
		assert.Equal(t, "old", client.AccessToken())
	})
	t.Run("Should surface API errors with message and details", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "Invalid credentials",
				"details": "Email or password is incorrect",
			})
		}))
		defer server.Close()

		client, err := NewClient(testConfig(t, server.URL))
		require.NoError(t, err)
		_, err = client.Login(context.Background(), "alice@example.com", "wrong")
		require.Error(t, err)
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Contains(t, apiErr.Error(), "Invalid credentials")
	})
	t.Run("Should drop tokens on logout", func(t *testing.T) {
		cfg := testConfig(t, "http://localhost:8000")
		require.NoError(t, os.WriteFile(cfg.CLI.TokenFile, []byte(`{"access":"a","refresh":"r"}`), 0o600))
		client, err := NewClient(cfg)
		require.NoError(t, err)
		require.True(t, client.Authenticated())
		require.NoError(t, client.Logout())
		assert.False(t, client.Authenticated())
		_, statErr := os.Stat(cfg.CLI.TokenFile)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestClientDatasets(t *testing.T) {
	t.Run("Should upload a CSV as multipart form data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v0/datasets/upload", r.URL.Path)
			file, header, err := r.FormFile("file")
			if assert.NoError(t, err) {
				defer file.Close()
				assert.Equal(t, "plant.csv", header.Filename)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"dataset": map[string]any{"id": "d1", "name": "plant.csv", "total_equipment": 2},
					"summary": map[string]any{
						"total_equipment":   2,
						"avg_flowrate":      100.5,
						"type_distribution": map[string]int{"Pump": 2},
					},
					"skipped_rows": 1,
				},
				"message": "Dataset uploaded",
			})
		}))
		defer server.Close()

		dir := t.TempDir()
		path := filepath.Join(dir, "plant.csv")
		require.NoError(t, os.WriteFile(path, []byte("Equipment Name,Type\n"), 0o600))

		client, err := NewClient(testConfig(t, server.URL))
		require.NoError(t, err)
		out, err := client.UploadCSV(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "d1", out.Dataset.ID)
		assert.Equal(t, 1, out.SkippedRows)
		assert.Equal(t, 2, out.Summary.TypeDistribution["Pump"])
	})
	t.Run("Should list history and load a dataset", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/api/v0/datasets/history":
				json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"datasets": []map[string]any{
						{"id": "d2", "name": "b.csv"},
						{"id": "d1", "name": "a.csv"},
					}},
				})
			case "/api/v0/datasets/d1":
				json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{
						"dataset":   map[string]any{"id": "d1", "name": "a.csv"},
						"equipment": []map[string]any{{"id": "e1", "name": "Pump A", "type": "Pump"}},
					},
				})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		client, err := NewClient(testConfig(t, server.URL))
		require.NoError(t, err)
		history, err := client.History(context.Background())
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "d2", history[0].ID)

		detail, err := client.GetDataset(context.Background(), "d1")
		require.NoError(t, err)
		assert.Equal(t, "a.csv", detail.Dataset.Name)
		require.Len(t, detail.Equipment, 1)
		assert.Equal(t, "Pump", detail.Equipment[0].Type)
	})
	t.Run("Should save a report using the attachment filename", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v0/datasets/d1/report", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="plant_report.pdf"`)
			w.Write([]byte("%PDF-1.4 fake"))
		}))
		defer server.Close()

		client, err := NewClient(testConfig(t, server.URL))
		require.NoError(t, err)
		dir := t.TempDir()
		dest, err := client.SaveReport(context.Background(), "d1", dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "plant_report.pdf"), dest)
		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(data))
	})
	t.Run("Should retry transient server errors", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"datasets": []any{}}})
		}))
		defer server.Close()

		client, err := NewClient(testConfig(t, server.URL))
		require.NoError(t, err)
		_, err = client.History(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})
}
