package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authmodel "github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/auth/token"
	authuc "github.com/equipsight/equipsight/engine/auth/uc"
	"github.com/equipsight/equipsight/engine/core"
	datasetmodel "github.com/equipsight/equipsight/engine/dataset/model"
	datasetuc "github.com/equipsight/equipsight/engine/dataset/uc"
	"github.com/equipsight/equipsight/engine/infra/server/middleware/ratelimit"
	"github.com/equipsight/equipsight/engine/mailer"
	"github.com/equipsight/equipsight/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthRepo struct{}

func (stubAuthRepo) CreateUser(context.Context, *authmodel.User) error { return nil }

func (stubAuthRepo) GetUserByEmail(context.Context, string) (*authmodel.User, error) {
	return nil, authuc.ErrUserNotFound
}

func (stubAuthRepo) GetUserByID(context.Context, core.ID) (*authmodel.User, error) {
	return nil, authuc.ErrUserNotFound
}

func (stubAuthRepo) UpdateUser(context.Context, *authmodel.User) error { return nil }

func (stubAuthRepo) CreateOTP(context.Context, *authmodel.OTP) error { return nil }

func (stubAuthRepo) InvalidateOTPs(context.Context, string, authmodel.OTPType) error { return nil }

func (stubAuthRepo) GetActiveOTP(context.Context, string, string, authmodel.OTPType) (*authmodel.OTP, error) {
	return nil, authuc.ErrOTPNotFound
}

func (stubAuthRepo) MarkOTPUsed(context.Context, core.ID) error { return nil }

type stubDatasetRepo struct{}

func (stubDatasetRepo) CreateDataset(context.Context, *datasetmodel.Dataset, []*datasetmodel.Equipment, int) (int, error) {
	return 0, nil
}

func (stubDatasetRepo) ListDatasets(context.Context, core.ID, int) ([]*datasetmodel.Dataset, error) {
	return nil, nil
}

func (stubDatasetRepo) GetDataset(context.Context, core.ID, core.ID) (*datasetmodel.Dataset, error) {
	return nil, datasetuc.ErrDatasetNotFound
}

func (stubDatasetRepo) GetLatestDataset(context.Context, core.ID) (*datasetmodel.Dataset, error) {
	return nil, datasetuc.ErrDatasetNotFound
}

func (stubDatasetRepo) ListEquipment(context.Context, core.ID) ([]*datasetmodel.Equipment, error) {
	return nil, nil
}

func (stubDatasetRepo) DeleteDataset(context.Context, core.ID, core.ID) error {
	return datasetuc.ErrDatasetNotFound
}

func testRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := token.NewManager([]byte("test-secret"), time.Hour, 24*time.Hour)
	require.NoError(t, err)
	limits, err := ratelimit.NewManager(nil)
	require.NoError(t, err)
	deps := &Dependencies{
		Tokens:      tokens,
		Mailer:      mailer.NewDevMailer(),
		AuthUC:      authuc.NewFactory(stubAuthRepo{}, mailer.NewDevMailer(), tokens, nil),
		DatasetUC:   datasetuc.NewFactory(stubDatasetRepo{}, nil),
		RateLimiter: limits,
	}
	return buildRouter(cfg, deps)
}

func TestRouter(t *testing.T) {
	t.Run("Should serve healthz", func(t *testing.T) {
		r := testRouter(t, config.Default())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ok")
	})
	t.Run("Should expose Prometheus metrics", func(t *testing.T) {
		r := testRouter(t, config.Default())
		// Generate one observed request first.
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "equipsight_http_requests_total")
	})
	t.Run("Should assign a request ID", func(t *testing.T) {
		r := testRouter(t, config.Default())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
	t.Run("Should echo a caller-supplied request ID", func(t *testing.T) {
		r := testRouter(t, config.Default())
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
		req.Header.Set("X-Request-ID", "req-123")
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	})
	t.Run("Should answer CORS preflight when enabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.CORSEnabled = true
		r := testRouter(t, cfg)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/v0/auth/login", http.NoBody)
		req.Header.Set("Origin", "http://localhost:3000")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})
	t.Run("Should answer unknown routes with a problem body", func(t *testing.T) {
		r := testRouter(t, config.Default())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Route not found")
	})
	t.Run("Should register the API routes", func(t *testing.T) {
		r := testRouter(t, config.Default())
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v0/datasets/history", http.NoBody)
		r.ServeHTTP(w, req)
		// No token: blocked by auth, not 404.
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
