package router

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/equipsight/equipsight/engine/auth/userctx"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/dataset/ingest"
	"github.com/equipsight/equipsight/engine/dataset/uc"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Handler handles dataset HTTP requests.
type Handler struct {
	factory *uc.Factory
}

// NewHandler creates a new dataset handler.
func NewHandler(factory *uc.Factory) *Handler {
	return &Handler{factory: factory}
}

// requireUserID extracts the authenticated user's ID from the request context.
func requireUserID(c *gin.Context) (core.ID, bool) {
	user, ok := userctx.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication required",
			"details": "User not found in context",
		})
		return "", false
	}
	return user.ID, true
}

// parseIDParam extracts a path parameter and parses it as a core.ID.
func parseIDParam(c *gin.Context, param string) (core.ID, bool) {
	id, err := core.ParseID(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID", "details": err.Error()})
		return "", false
	}
	return id, true
}

// Upload godoc
// @Summary Upload an equipment CSV file
// @Description Parse and store a CSV of equipment readings, returns the summary
// @Tags datasets
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param file formData file true "CSV file"
// @Success 201 {object} map[string]any "contains data.dataset and data.summary"
// @Failure 400 {object} ErrorResponse "invalid file"
// @Router /datasets/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing file",
			"details": "Attach the CSV as multipart field 'file'",
		})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid file type",
			"details": "Only .csv files are accepted",
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file", "details": err.Error()})
		return
	}
	defer file.Close()
	out, err := h.factory.Upload(&uc.UploadInput{
		UserID:   userID,
		FileName: filepath.Base(fileHeader.Filename),
		Data:     file,
	}).Execute(ctx)
	if err != nil {
		h.handleUploadError(ctx, c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"dataset":      out.Dataset,
			"summary":      out.Summary,
			"skipped_rows": out.Skipped,
		},
		"message": "Dataset uploaded",
	})
}

// handleUploadError centralizes upload error logging and responses.
func (h *Handler) handleUploadError(ctx context.Context, c *gin.Context, err error) {
	log := logger.FromContext(ctx)
	var missingErr *ingest.MissingColumnsError
	switch {
	case errors.As(err, &missingErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required columns", "details": missingErr.Error()})
	case errors.Is(err, ingest.ErrEmptyFile), errors.Is(err, ingest.ErrNoValidRows):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid CSV file", "details": err.Error()})
	default:
		log.Error("Failed to upload dataset", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload dataset", "details": err.Error()})
	}
}

// History godoc
// @Summary List the user's datasets
// @Tags datasets
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {object} map[string]any "contains data.datasets"
// @Router /datasets/history [get]
func (h *Handler) History(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	datasets, err := h.factory.History(&uc.HistoryInput{UserID: userID}).Execute(ctx)
	if err != nil {
		log.Error("Failed to list datasets", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list datasets", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"datasets": datasets}})
}

// Get godoc
// @Summary Get one dataset with its equipment rows
// @Tags datasets
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Dataset ID"
// @Success 200 {object} map[string]any "contains data.dataset and data.equipment"
// @Failure 404 {object} ErrorResponse "dataset not found"
// @Router /datasets/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	datasetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	out, err := h.factory.Get(&uc.GetInput{UserID: userID, DatasetID: datasetID}).Execute(ctx)
	if err != nil {
		if errors.Is(err, uc.ErrDatasetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Dataset not found",
				"details": "The specified dataset does not exist",
			})
			return
		}
		log.Error("Failed to load dataset", "error", err, "dataset_id", datasetID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dataset", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"dataset":   out.Dataset,
		"equipment": out.Equipment,
	}})
}

// Delete godoc
// @Summary Delete a dataset
// @Tags datasets
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Dataset ID"
// @Success 200 {object} map[string]any "contains data.dataset_id"
// @Failure 404 {object} ErrorResponse "dataset not found"
// @Router /datasets/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	datasetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	out, err := h.factory.Delete(&uc.DeleteInput{UserID: userID, DatasetID: datasetID}).Execute(ctx)
	if err != nil {
		if errors.Is(err, uc.ErrDatasetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Dataset not found",
				"details": "The specified dataset does not exist",
			})
			return
		}
		log.Error("Failed to delete dataset", "error", err, "dataset_id", datasetID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dataset", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"dataset_id": out.DatasetID}, "message": "Dataset deleted"})
}

// Latest godoc
// @Summary Get the most recent dataset summary
// @Tags datasets
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {object} map[string]any "contains data.dataset"
// @Failure 404 {object} ErrorResponse "no datasets uploaded yet"
// @Router /datasets/latest [get]
func (h *Handler) Latest(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	dataset, err := h.factory.Latest(&uc.LatestInput{UserID: userID}).Execute(ctx)
	if err != nil {
		if errors.Is(err, uc.ErrDatasetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "No datasets",
				"details": "Upload a CSV file first",
			})
			return
		}
		log.Error("Failed to load latest dataset", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dataset", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"dataset": dataset}})
}
