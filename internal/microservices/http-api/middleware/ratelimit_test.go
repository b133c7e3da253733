package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookhub/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit_PerClientIP(t *testing.T) {
	limiter := ratelimit.New(1, 1, 0)
	defer limiter.Stop()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}
