package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fxtrades/internal/domain/dto"
	"github.com/guttosm/fxtrades/internal/logger"
)

// AbortWithError stops the chain and writes a dto.ErrorResponse with the given status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}

// ErrorHandler renders errors attached with c.Error when the handler wrote no response.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last()
	logger.L().Error().Err(last.Err).Str("path", c.Request.URL.Path).Msg("request failed")
	AbortWithError(c, http.StatusInternalServerError, "Internal server error", last.Err)
}
