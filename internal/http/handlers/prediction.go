package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/evergrid/lifecycle-backend/internal/http/response"
	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/services"
)

type PredictionHandler struct {
	log               *logger.Logger
	predictionService services.PredictionService
}

func NewPredictionHandler(log *logger.Logger, predictionService services.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		log:               log.With("handler", "PredictionHandler"),
		predictionService: predictionService,
	}
}

// Predictions serves the ranked transition forecast. No parameters: the
// estimator always runs over full history.
func (h *PredictionHandler) Predictions(c *gin.Context) {
	result, err := h.predictionService.Predict(c.Request.Context())
	if err != nil {
		h.log.Error("Predictions failed", "error", err)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}
