package server

import (
	"errors"
	"net/http"

	reportdomain "github.com/fieldops/metas/internal/report/domain"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	submissiondomain "github.com/fieldops/metas/internal/submission/domain"
	"github.com/gin-gonic/gin"
)

var errInvalidRange = errors.New("invalid_range")

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, remotedomain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorPayload{Type: "not_authenticated", Message: "sign in required"}
	case errors.Is(err, submissiondomain.ErrInvalidKind),
		errors.Is(err, submissiondomain.ErrInvalidPoints),
		errors.Is(err, reportdomain.ErrInvalidAnchor),
		errors.Is(err, errInvalidRange),
		errors.Is(err, remotedomain.ErrInvalidLog):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal error"}
	}
}
