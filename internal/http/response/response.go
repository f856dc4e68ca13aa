package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform success shape: {"success": true, "data": ...}.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope is the uniform failure shape:
// {"success": false, "message": ..., "error": ...}.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func RespondError(c *gin.Context, status int, message string, err error) {
	env := ErrorEnvelope{Success: false, Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	c.JSON(status, env)
}
