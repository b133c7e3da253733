package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// defaultRequestTimeout bounds a request when RouterDeps.RequestTimeout is unset.
const defaultRequestTimeout = 5 * time.Second

// respondError maps service error kinds to status codes. Unknown errors are logged and
// reported as a bare 500 so storage details never reach the client.
func respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrCapacityExceeded), errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	default:
		slog.ErrorContext(c.Request.Context(), "request_failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	if errors.Is(err, service.ErrCapacityExceeded) {
		body["code"] = "capacity_exceeded"
	}
	c.JSON(status, body)
}

// paramID parses a positive int64 path parameter, answering 400 itself when it cannot.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
