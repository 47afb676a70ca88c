package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photo-booking-server/types"
)

// respondError maps the error taxonomy onto HTTP statuses: validation errors
// are the caller's fault, terminal rejections are conflicts that retrying
// won't fix, and transient failures invite a retry.
func respondError(c *gin.Context, err error) {
	status := http.StatusServiceUnavailable
	switch types.KindOf(err) {
	case types.ErrorKindValidation:
		status = http.StatusBadRequest
	case types.ErrorKindTerminal:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
