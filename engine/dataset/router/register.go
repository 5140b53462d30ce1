package router

import (
	"net/http"

	"github.com/equipsight/equipsight/engine/dataset/uc"
	authmw "github.com/equipsight/equipsight/engine/infra/server/middleware/auth"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all dataset routes. Every route requires auth.
// maxUploadBytes caps the upload request body; zero disables the cap.
func RegisterRoutes(
	apiBase *gin.RouterGroup,
	factory *uc.Factory,
	authManager *authmw.Manager,
	maxUploadBytes int64,
) {
	handler := NewHandler(factory)

	datasets := apiBase.Group("/datasets")
	datasets.Use(authManager.Middleware())
	datasets.Use(authManager.RequireAuth())
	{
		datasets.POST("/upload", limitBody(maxUploadBytes), handler.Upload)
		datasets.GET("/history", handler.History)
		datasets.GET("/latest", handler.Latest)
		datasets.GET("/:id", handler.Get)
		datasets.DELETE("/:id", handler.Delete)
	}
}

// limitBody caps the request body size; oversized uploads fail on read.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
