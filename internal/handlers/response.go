package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandvault/brandvault-backend/internal/platform/apierr"
	"github.com/brandvault/brandvault-backend/internal/platform/logger"
)

// RespondError maps service errors onto the wire. Known apierr statuses keep
// their message; anything else is logged and hidden behind a generic 500.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	status := apierr.StatusOf(err)
	if status == 0 || status >= http.StatusInternalServerError {
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
