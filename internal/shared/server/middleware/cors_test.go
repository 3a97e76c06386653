package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testOrigin = "http://localhost:3000"

func newCORSRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(origins))
	router.POST("/analyze", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func preflight(origin, headers string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	if headers != "" {
		req.Header.Set("Access-Control-Request-Headers", headers)
	}
	return req
}

func TestCORSPreflight(t *testing.T) {
	resp := httptest.NewRecorder()
	newCORSRouter(testOrigin + "/").ServeHTTP(resp, preflight(testOrigin, ""))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, testOrigin, resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET, POST, OPTIONS", resp.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, X-Request-Id", resp.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", resp.Header().Get("Access-Control-Max-Age"))
}

func TestCORSPreflightEchoesRequestedHeaders(t *testing.T) {
	resp := httptest.NewRecorder()
	newCORSRouter(testOrigin).ServeHTTP(resp, preflight(testOrigin, "content-type, x-custom"))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "content-type, x-custom", resp.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, resp.Header().Values("Vary"), "Access-Control-Request-Headers")
}

func TestCORSRejectsPreflightFromUnknownOrigin(t *testing.T) {
	resp := httptest.NewRecorder()
	newCORSRouter(testOrigin).ServeHTTP(resp, preflight("https://evil.example", ""))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Body.String(), "cors_rejected")
}

func TestCORSHeadersOnPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Header.Set("Origin", testOrigin)
	resp := httptest.NewRecorder()
	newCORSRouter(testOrigin).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, testOrigin, resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Request-Id", resp.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, resp.Header().Get("Access-Control-Max-Age"))
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp := httptest.NewRecorder()
	newCORSRouter(testOrigin).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardOmitsCredentials(t *testing.T) {
	resp := httptest.NewRecorder()
	newCORSRouter("*").ServeHTTP(resp, preflight("https://any.example", ""))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Credentials"))
}
