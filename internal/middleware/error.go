// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"gamehub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders errors attached with c.Error and unmatched routes as
// APIError JSON bodies.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			ginErr := c.Errors.Last()
			if apiErr, ok := common.IsAPIError(ginErr.Err); ok {
				c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
				return
			}
			logger.Error("Unhandled application error",
				zap.Error(ginErr.Err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(common.RequestIDContextKey)),
			)
			genericError := common.ErrInternalServer.WithDetails("An unexpected error occurred.")
			if gin.Mode() == gin.DebugMode {
				genericError = genericError.WithDetails(ginErr.Err.Error())
			}
			c.AbortWithStatusJSON(genericError.StatusCode, genericError)
			return
		}

		switch c.Writer.Status() {
		case http.StatusNotFound:
			apiErr := common.ErrNotFound.WithDetails("The requested endpoint does not exist.")
			c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
		case http.StatusMethodNotAllowed:
			c.AbortWithStatusJSON(common.ErrMethodNotAllowed.StatusCode, common.ErrMethodNotAllowed)
		}
	}
}
