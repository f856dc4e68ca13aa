package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/evergrid/lifecycle-backend/internal/http/response"
	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/services"
)

type AnalyticsHandler struct {
	log              *logger.Logger
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:              log.With("handler", "AnalyticsHandler"),
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) Distribution(c *gin.Context) {
	distribution, err := h.analyticsService.Distribution(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"distribution": distribution})
}

func (h *AnalyticsHandler) TransitionMatrix(c *gin.Context) {
	matrix, err := h.analyticsService.TransitionMatrix(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"matrix": matrix})
}

func (h *AnalyticsHandler) TransitionSpeed(c *gin.Context) {
	speed, err := h.analyticsService.TransitionSpeed(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"speed": speed})
}

func (h *AnalyticsHandler) Timeline(c *gin.Context) {
	timeline, err := h.analyticsService.Timeline(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"timeline": timeline})
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsService.Overview(c.Request.Context())
	if err != nil {
		h.log.Error("Overview failed", "error", err)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, overview)
}
