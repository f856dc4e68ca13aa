package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evergrid/lifecycle-backend/internal/http/response"
	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/services"
)

type SegmentHandler struct {
	log            *logger.Logger
	segmentService services.SegmentService
}

func NewSegmentHandler(log *logger.Logger, segmentService services.SegmentService) *SegmentHandler {
	return &SegmentHandler{
		log:            log.With("handler", "SegmentHandler"),
		segmentService: segmentService,
	}
}

func (h *SegmentHandler) Create(c *gin.Context) {
	var input services.SegmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	segment, err := h.segmentService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"segment": segment})
}

func (h *SegmentHandler) List(c *gin.Context) {
	segments, err := h.segmentService.List(c.Request.Context())
	if err != nil {
		h.log.Error("List failed", "error", err)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"segments": segments})
}

func (h *SegmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	segment, err := h.segmentService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"segment": segment})
}

func (h *SegmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.SegmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	segment, err := h.segmentService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"segment": segment})
}

func (h *SegmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.segmentService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}
