package server

import (
	"net/http"

	authrouter "github.com/equipsight/equipsight/engine/auth/router"
	"github.com/equipsight/equipsight/engine/core"
	datasetrouter "github.com/equipsight/equipsight/engine/dataset/router"
	reportrouter "github.com/equipsight/equipsight/engine/report/router"
	"github.com/equipsight/equipsight/pkg/config"
	"github.com/gin-gonic/gin"
)

// buildRouter assembles the gin engine with middleware and all routes.
func buildRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.Runtime.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(recoveryHandler())
	r.Use(requestID())
	r.Use(requestLogger())
	if cfg.Server.CORSEnabled {
		r.Use(corsMiddleware(&cfg.Server.CORS))
	}
	metrics := newHTTPMetrics()
	r.Use(metrics.middleware())

	r.NoRoute(func(c *gin.Context) {
		respondProblem(c, &core.Problem{Status: http.StatusNotFound, Detail: "Route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		respondProblem(c, &core.Problem{Status: http.StatusMethodNotAllowed})
	})

	r.GET("/healthz", healthHandler(deps))
	r.GET("/metrics", metrics.handler())

	apiBase := r.Group("/api/v0")
	apiBase.Use(deps.RateLimiter.Middleware())
	authrouter.RegisterRoutes(apiBase, deps.AuthUC, deps.Tokens, deps.RateLimiter)
	datasetrouter.RegisterRoutes(apiBase, deps.DatasetUC, deps.AuthManager(), cfg.Server.MaxUploadBytes)
	reportrouter.RegisterRoutes(apiBase, deps.DatasetUC, deps.AuthManager())
	return r
}

// healthHandler reports liveness and database reachability.
func healthHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Store != nil {
			if err := deps.Store.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
