package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/service"
	"github.com/stargen/stargen-backend-go/pkg/response"
)

// AnalysisHandler handles HTTP requests for the barrier analysis
type AnalysisHandler struct {
	service *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// GetParams handles GET /api/v1/analysis/params
func (h *AnalysisHandler) GetParams(c *gin.Context) {
	response.Success(c, gin.H{
		"defaults": models.DefaultAnalysisParams(),
		"current":  h.service.Status().Params,
	})
}

// Recompute handles POST /api/v1/analysis/recompute. Omitted fields fall
// back to the defaults; the previous computation, if still running, is
// superseded.
func (h *AnalysisHandler) Recompute(c *gin.Context) {
	params := models.DefaultAnalysisParams()
	if err := c.ShouldBindJSON(&params); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	jobID, err := h.service.Recompute(params)
	if err != nil {
		if errors.Is(err, models.ErrInvalidConfig) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "Failed to start computation: "+err.Error())
		return
	}

	response.Success(c, gin.H{"job_id": jobID})
}

// GetStatus handles GET /api/v1/analysis/status
func (h *AnalysisHandler) GetStatus(c *gin.Context) {
	status := h.service.Status()
	if status.JobID == "" {
		response.NotFound(c, "No computation has been requested yet")
		return
	}
	response.Success(c, status)
}

// GetBins handles GET /api/v1/analysis/bins
func (h *AnalysisHandler) GetBins(c *gin.Context) {
	result, ok := h.service.Result()
	if !ok {
		response.NotFound(c, "No completed analysis available")
		return
	}

	bins := make([]models.TimeBin, 0, len(result.Bins))
	for _, b := range result.Bins {
		bins = append(bins, b.Bin)
	}

	response.Success(c, gin.H{
		"job_id": result.JobID,
		"params": result.Params,
		"bins":   bins,
	})
}

// GetBinCells handles GET /api/v1/analysis/bins/:index/cells
func (h *AnalysisHandler) GetBinCells(c *gin.Context) {
	index, ok := h.binIndex(c)
	if !ok {
		return
	}

	bin, err := h.service.BinResult(index)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	polygons, err := h.service.CellPolygons(index)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"bin":      bin.Bin,
		"cells":    bin.Cells,
		"polygons": polygons,
		"count":    len(bin.Cells),
	})
}

// GetBinEdges handles GET /api/v1/analysis/bins/:index/edges
func (h *AnalysisHandler) GetBinEdges(c *gin.Context) {
	index, ok := h.binIndex(c)
	if !ok {
		return
	}

	bin, err := h.service.BinResult(index)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	edges := bin.Edges
	if filter := c.Query("classification"); filter != "" {
		filtered := make([]models.EdgeMetrics, 0, len(edges))
		for _, e := range edges {
			if string(e.Classification) == filter {
				filtered = append(filtered, e)
			}
		}
		edges = filtered
	}

	response.Success(c, gin.H{
		"bin":   bin.Bin,
		"edges": edges,
		"count": len(edges),
	})
}

// GetRuns handles GET /api/v1/analysis/runs
func (h *AnalysisHandler) GetRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.service.RecentRuns(limit)
	if err != nil {
		response.InternalError(c, "Failed to get runs: "+err.Error())
		return
	}

	response.Success(c, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

// binIndex parses the :index path parameter.
func (h *AnalysisHandler) binIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid bin index: "+c.Param("index"))
		return 0, false
	}
	return index, true
}
