package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/aquaadapt/verification-api/internal/pkg/apperror"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("Panic recovered",
					slog.Any("error", err),
					slog.String("stack", string(debug.Stack())),
				)
				appErr := apperror.InternalError("An unexpected error occurred", "Please try again later")
				if requestID := c.GetString(RequestIDKey); requestID != "" {
					appErr = appErr.WithRequestID(requestID)
				}
				c.JSON(appErr.Status, appErr)
				c.Abort()
			}
		}()
		c.Next()
	}
}
