package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evergrid/lifecycle-backend/internal/http/response"
	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/services"
)

type ChartHandler struct {
	log          *logger.Logger
	chartService services.ChartService
}

func NewChartHandler(log *logger.Logger, chartService services.ChartService) *ChartHandler {
	return &ChartHandler{
		log:          log.With("handler", "ChartHandler"),
		chartService: chartService,
	}
}

func (h *ChartHandler) DistributionPNG(c *gin.Context) {
	data, err := h.chartService.DistributionPNG(c.Request.Context())
	if err != nil {
		h.log.Error("DistributionPNG failed", "error", err)
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (h *ChartHandler) SnapshotDistribution(c *gin.Context) {
	url, err := h.chartService.SnapshotDistribution(c.Request.Context())
	if err != nil {
		h.log.Error("SnapshotDistribution failed", "error", err)
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"url": url})
}
