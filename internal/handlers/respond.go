package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError writes a JSON error body with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// LogAndRespondError logs the underlying error and responds with a safe
// client-facing message.
func LogAndRespondError(logger *zap.Logger, c *gin.Context, status int, err error, message string) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.FullPath()),
		zap.String("method", c.Request.Method),
	)
	RespondError(c, status, message)
}
