package handlers

import (
	"github.com/cyphera/address-relay/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// sendError logs err and responds with message.
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// sendClientError responds with message without logging at error level.
func sendClientError(c *gin.Context, statusCode int, message string, err error) {
	logger.Debug("Client error",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", statusCode),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func sendSuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, SuccessResponse{Message: message})
}
