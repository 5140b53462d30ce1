package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/equipsight/equipsight/engine/auth"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/pkg/config"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestID assigns each request an ID, honoring one supplied by the client,
// and exposes it on the response and the request context logger.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		log := logger.FromContext(c.Request.Context()).With("request_id", id)
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), log))
		c.Next()
	}
}

// requestLogger logs each request with method, path, status, and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log := logger.FromContext(c.Request.Context())
		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString(auth.ContextKeyUserID); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("Request rejected", fields...)
		default:
			log.Debug("Request served", fields...)
		}
	}
}

// corsMiddleware applies the configured CORS policy.
func corsMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && originAllowed(cfg.AllowedOrigins, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			if c.Request.Method == http.MethodOptions {
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				if cfg.MaxAge > 0 {
					c.Header("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}
		c.Next()
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// recoveryHandler converts panics into logged 500 problem responses.
func recoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log := logger.FromContext(c.Request.Context())
		log.Error("Panic recovered", "error", fmt.Sprintf("%v", recovered), "path", c.Request.URL.Path)
		respondProblem(c, &core.Problem{
			Status: http.StatusInternalServerError,
			Detail: "An unexpected error occurred",
		})
	})
}

// respondProblem writes a normalized problem envelope and aborts.
func respondProblem(c *gin.Context, problem *core.Problem) {
	problem = core.NormalizeProblem(problem)
	c.AbortWithStatusJSON(problem.Status, core.BuildProblemBody(problem))
}
