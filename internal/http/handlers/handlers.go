package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/evergrid/lifecycle-backend/internal/http/response"
	"github.com/evergrid/lifecycle-backend/internal/repos"
	"github.com/evergrid/lifecycle-backend/internal/services"
)

// parseID pulls a uuid path param and answers the 400 itself, so handlers
// only deal with the happy path.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid id", err)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps the service/repo error taxonomy onto HTTP status
// codes. Anything unrecognized is a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		response.RespondError(c, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, repos.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not found", err)
	case errors.Is(err, repos.ErrDuplicate):
		response.RespondError(c, http.StatusConflict, "already exists", err)
	case errors.Is(err, repos.ErrReferenced):
		response.RespondError(c, http.StatusConflict, "still referenced", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal error", err)
	}
}
