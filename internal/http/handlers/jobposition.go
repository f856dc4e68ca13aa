package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evergrid/lifecycle-backend/internal/http/response"
	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/services"
)

type JobPositionHandler struct {
	log                *logger.Logger
	jobPositionService services.JobPositionService
}

func NewJobPositionHandler(log *logger.Logger, jobPositionService services.JobPositionService) *JobPositionHandler {
	return &JobPositionHandler{
		log:                log.With("handler", "JobPositionHandler"),
		jobPositionService: jobPositionService,
	}
}

func (h *JobPositionHandler) Create(c *gin.Context) {
	var input services.JobPositionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	position, err := h.jobPositionService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"job_position": position})
}

func (h *JobPositionHandler) List(c *gin.Context) {
	positions, err := h.jobPositionService.List(c.Request.Context())
	if err != nil {
		h.log.Error("List failed", "error", err)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job_positions": positions})
}

func (h *JobPositionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	position, err := h.jobPositionService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job_position": position})
}

func (h *JobPositionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.JobPositionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	position, err := h.jobPositionService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job_position": position})
}

func (h *JobPositionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.jobPositionService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}
