package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func preflight(t *testing.T, allowed, from string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := NewRouter(zap.NewNop(), Options{CORSOrigin: allowed})
	r.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
	req.Header.Set("Origin", from)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_WildcardNeverAllowsCredentials(t *testing.T) {
	for _, allowed := range []string{"*", ""} {
		w := preflight(t, allowed, "https://evil.example")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), allowed)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"), allowed)
	}
}

func TestCORS_ExplicitOriginAllowsCredentials(t *testing.T) {
	w := preflight(t, "https://app.example", "https://app.example")
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = preflight(t, "https://app.example", "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
