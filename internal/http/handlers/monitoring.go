package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evergrid/lifecycle-backend/internal/http/response"
	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/services"
)

type MonitoringHandler struct {
	log               *logger.Logger
	monitoringService services.MonitoringService
}

func NewMonitoringHandler(log *logger.Logger, monitoringService services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{
		log:               log.With("handler", "MonitoringHandler"),
		monitoringService: monitoringService,
	}
}

// ListTransitions returns the most recent rows of the monitoring log, newest
// first. ?limit= caps the page, defaulting inside the service.
func (h *MonitoringHandler) ListTransitions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	transitions, err := h.monitoringService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("ListTransitions failed", "error", err)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transitions": transitions})
}
