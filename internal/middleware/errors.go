package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/salesreport/internal/domain/dto"
	"github.com/guttosm/salesreport/internal/logger"
)

// ErrorHandler turns errors pushed with c.Error into a JSON response when the
// handler did not write one itself.
//
// A dto.ErrorResponse error is sent as is; anything else becomes a generic 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	last := c.Errors.Last().Err

	logger.FromContext(c.Request.Context()).Error().Err(last).Msg("request failed")

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	var resp dto.ErrorResponse
	if !errors.As(last, &resp) {
		resp = dto.NewErrorResponse("Internal server error", last)
	}
	c.JSON(status, resp)
}

// AbortWithError records err on the context and aborts with a dto.ErrorResponse body.
//
// Example:
//
//	middleware.AbortWithError(c, http.StatusBadRequest, "invalid start date", err)
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	_ = c.Error(resp)
	c.AbortWithStatusJSON(status, resp)
}
