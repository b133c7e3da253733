package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubValidator map[string]*service.Claims

func (s stubValidator) ValidateToken(token string) (*service.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

var validator = stubValidator{
	"user":  {UserID: "u-1", Username: "reader", Role: "user"},
	"admin": {UserID: "a-1", Username: "boss", Role: "admin"},
}

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		v := Viewer(c)
		if v.IsAnonymous() {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, v.UserID)
	})
	r.GET("/", handlers...)
	return r
}

func request(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter(AuthMiddleware(validator))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic user", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid token", "Bearer user", http.StatusOK, "u-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newTestRouter(OptionalAuth(validator))

	w := request(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = request(r, "Bearer user")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "Token user").Code)
}

func TestRequireAdmin(t *testing.T) {
	r := newTestRouter(AuthMiddleware(validator), RequireAdmin())

	assert.Equal(t, http.StatusForbidden, request(r, "Bearer user").Code)
	assert.Equal(t, http.StatusOK, request(r, "Bearer admin").Code)

	bare := newTestRouter(RequireRole("admin"))
	assert.Equal(t, http.StatusForbidden, request(bare, "").Code)
}
