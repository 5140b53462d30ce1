package router

import (
	datasetuc "github.com/equipsight/equipsight/engine/dataset/uc"
	authmw "github.com/equipsight/equipsight/engine/infra/server/middleware/auth"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the report route. Requires auth.
func RegisterRoutes(apiBase *gin.RouterGroup, datasets *datasetuc.Factory, authManager *authmw.Manager) {
	handler := NewHandler(datasets)
	reports := apiBase.Group("/datasets")
	reports.Use(authManager.Middleware())
	reports.Use(authManager.RequireAuth())
	reports.POST("/:id/report", handler.Generate)
}
