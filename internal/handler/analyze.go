package handler

import (
	"net/http"
	"strings"

	"insights/internal/dataset"
	"insights/internal/model"
	"insights/internal/service"

	"github.com/gin-gonic/gin"
)

// SummarySourceHeader reports whether the summary came from the AI or the rules
const SummarySourceHeader = "X-Summary-Source"

// AnalyzeHandler handles market analysis HTTP requests
type AnalyzeHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analysisService *service.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisService: analysisService,
	}
}

// Analyze handles POST /api/analyze/
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	// Data problems still come back as a well-formed result
	result, outcome := h.analysisService.Analyze(c.Request.Context(), query)

	c.Header(SummarySourceHeader, outcome.Source)
	c.JSON(http.StatusOK, result)
}

// Areas handles GET /api/v1/areas
func (h *AnalyzeHandler) Areas(c *gin.Context) {
	snap := h.analysisService.Provider().Snapshot()

	known := h.analysisService.KnownAreas()
	for i, a := range known {
		known[i] = service.DisplayArea(a)
	}

	c.JSON(http.StatusOK, model.AreasResponse{
		Known:   known,
		Dataset: dataset.DistinctAreas(snap.Records),
		Rows:    len(snap.Records),
	})
}
