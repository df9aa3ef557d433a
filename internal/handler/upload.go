package handler

import (
	"errors"
	"net/http"

	"insights/internal/dataset"
	"insights/internal/model"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// UploadHandler handles spreadsheet uploads that replace the active dataset
type UploadHandler struct {
	provider       *dataset.Provider
	maxBytes       int64
	replaceDataset bool
	logger         *log.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(provider *dataset.Provider, maxBytes int64, replaceDataset bool, logger *log.Logger) *UploadHandler {
	return &UploadHandler{
		provider:       provider,
		maxBytes:       maxBytes,
		replaceDataset: replaceDataset,
		logger:         logger,
	}
}

// Upload handles POST /api/upload/
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error processing file: " + err.Error()})
		return
	}
	defer file.Close()

	records, err := dataset.ParseExcel(file)
	if err != nil {
		var missing *dataset.MissingColumnsError
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error processing file: " + err.Error()})
		return
	}

	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file contains no data rows"})
		return
	}

	if h.replaceDataset {
		h.provider.Replace(records, dataset.SourceUpload)
	}
	h.logger.Info("spreadsheet ingested",
		"file", fileHeader.Filename,
		"rows", len(records),
		"applied", h.replaceDataset,
	)

	c.JSON(http.StatusOK, model.UploadResponse{
		Message: "File uploaded successfully",
		Rows:    len(records),
		Areas:   dataset.DistinctAreas(records),
		Applied: h.replaceDataset,
	})
}
