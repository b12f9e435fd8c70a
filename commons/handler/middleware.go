package handler

import (
	"fmt"
	"net/http"
	"time"

	"dingbot/commons/error_handler"
	"dingbot/commons/response"
	"dingbot/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key holding the request ID.
	RequestIDKey = "request_id"
)

// RequestIDMiddleware accepts the caller's X-Request-ID or mints one, echoes
// it back and stores it in both the gin and the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

func ErrorHandlingMiddleware(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithContext(c.Request.Context()).Error("panic recovered in middleware",
			logger.String("path", c.Request.URL.Path),
			logger.String("method", c.Request.Method),
			logger.Any("panic", recovered))

		c.AbortWithStatusJSON(http.StatusInternalServerError, response.StandardResponse{
			Status:    response.StatusFailed,
			RequestID: c.GetString(RequestIDKey),
			ErrorCode: error_handler.CodeInternalServerError,
			Message:   "Internal server error",
			Errors: []response.Errors{
				error_handler.GetInternalServerError("An unexpected error occurred"),
			},
		})
	})
}

func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.WithContext(c.Request.Context()).Info("request completed",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status_code", c.Writer.Status()),
			logger.String("remote_addr", c.ClientIP()),
			logger.Duration("latency", time.Since(start)))
	}
}

func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.StandardResponse{
			Status:    response.StatusFailed,
			RequestID: c.GetString(RequestIDKey),
			ErrorCode: error_handler.CodeNotFound,
			Message:   "Route not found",
			Errors: []response.Errors{
				error_handler.GetNotFoundError(fmt.Sprintf("The requested route '%s %s' was not found", c.Request.Method, c.Request.URL.Path)),
			},
		})
	}
}

func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, response.StandardResponse{
			Status:    response.StatusFailed,
			RequestID: c.GetString(RequestIDKey),
			ErrorCode: error_handler.CodeMethodNotAllowed,
			Message:   "Method not allowed",
			Errors: []response.Errors{
				{
					ErrorCode: error_handler.CodeMethodNotAllowed,
					Message:   fmt.Sprintf("Method '%s' is not allowed for route '%s'", c.Request.Method, c.Request.URL.Path),
				},
			},
		})
	}
}
