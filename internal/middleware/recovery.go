package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fxtrades/internal/logger"
)

// RecoveryMiddleware recovers from panics in handlers, logs the stack trace
// and answers 500 with a dto.ErrorResponse.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				rid, _ := c.Get(RequestIDKey)
				logger.L().Error().
					Str("request_id", toString(rid)).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				AbortWithError(c, http.StatusInternalServerError, "Internal server error", fmt.Errorf("%v", r))
			}
		}()

		c.Next()
	}
}
