package ratelimit

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Manager applies IP-keyed rate limits backed by an in-memory store.
type Manager struct {
	cfg    *Config
	global *limiter.Limiter
	otp    *limiter.Limiter
}

// NewManager creates a rate limit manager with an in-memory store.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate limit config: %w", err)
	}
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix: cfg.Prefix,
	})
	return &Manager{
		cfg:    cfg,
		global: limiter.New(store, cfg.GlobalRate.ToLimiterRate()),
		otp:    limiter.New(store, cfg.OTPRate.ToLimiterRate()),
	}, nil
}

// Middleware returns the global per-IP rate limit middleware.
func (m *Manager) Middleware() gin.HandlerFunc {
	return m.limitWith(m.global, m.cfg.GlobalRate, "global")
}

// OTPMiddleware returns the stricter limit for endpoints that send emails.
func (m *Manager) OTPMiddleware() gin.HandlerFunc {
	return m.limitWith(m.otp, m.cfg.OTPRate, "otp")
}

func (m *Manager) limitWith(lim *limiter.Limiter, rate RateConfig, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rate.Disabled || m.isExcluded(c.Request.URL.Path) {
			c.Next()
			return
		}
		key := scope + ":" + c.ClientIP()
		res, err := lim.Get(c.Request.Context(), key)
		if err != nil {
			// Limiter failures should not take the API down.
			log := logger.FromContext(c.Request.Context())
			log.Error("Rate limiter store error", "error", err, "scope", scope)
			c.Next()
			return
		}
		if !m.cfg.DisableHeaders {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			c.Header("X-RateLimit-Reset", strconv.FormatInt(res.Reset, 10))
		}
		if res.Reached {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many requests",
				"details": "Rate limit exceeded, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *Manager) isExcluded(path string) bool {
	return slices.ContainsFunc(m.cfg.ExcludedPaths, func(p string) bool {
		return strings.HasPrefix(path, p)
	})
}
