package router

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/equipsight/equipsight/engine/auth/userctx"
	"github.com/equipsight/equipsight/engine/core"
	datasetuc "github.com/equipsight/equipsight/engine/dataset/uc"
	"github.com/equipsight/equipsight/engine/report"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Handler handles report HTTP requests.
type Handler struct {
	datasets *datasetuc.Factory
}

// NewHandler creates a new report handler.
func NewHandler(datasets *datasetuc.Factory) *Handler {
	return &Handler{datasets: datasets}
}

// Generate godoc
// @Summary Generate a PDF report for a dataset
// @Tags reports
// @Produce application/pdf
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Dataset ID"
// @Success 200 {file} binary "PDF attachment"
// @Failure 404 {object} map[string]any "dataset not found"
// @Router /datasets/{id}/report [post]
func (h *Handler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	user, ok := userctx.UserFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication required",
			"details": "User not found in context",
		})
		return
	}
	datasetID, err := core.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID", "details": err.Error()})
		return
	}
	out, err := h.datasets.Get(&datasetuc.GetInput{
		UserID:    user.ID,
		DatasetID: datasetID,
	}).Execute(ctx)
	if err != nil {
		if errors.Is(err, datasetuc.ErrDatasetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Dataset not found",
				"details": "The specified dataset does not exist",
			})
			return
		}
		log.Error("Failed to load dataset for report", "error", err, "dataset_id", datasetID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report", "details": err.Error()})
		return
	}
	var buf bytes.Buffer
	err = report.Write(&buf, &report.Input{
		Dataset:     out.Dataset,
		Equipment:   out.Equipment,
		GeneratedBy: user.DisplayName(),
	})
	if err != nil {
		log.Error("Failed to render report", "error", err, "dataset_id", datasetID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report", "details": err.Error()})
		return
	}
	filename := strings.TrimSuffix(out.Dataset.Name, ".csv") + "_report.pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
