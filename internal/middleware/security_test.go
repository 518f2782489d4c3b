package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupSecurityRouter(allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Security(allowedOrigins))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func requestWithOrigin(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// Security Tests
// =============================================================================

func TestSecurity_AllowedOrigin(t *testing.T) {
	router := setupSecurityRouter([]string{"https://example.com"})

	w := requestWithOrigin(router, http.MethodGet, "https://example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the origin echoed", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Access-Control-Allow-Credentials = %q, want true", got)
	}
}

func TestSecurity_OriginNormalization(t *testing.T) {
	// Configured with trailing slash and mixed case; the request origin still
	// has to match after normalization
	router := setupSecurityRouter([]string{"HTTPS://Example.COM/"})

	w := requestWithOrigin(router, http.MethodGet, "https://example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want normalized match", got)
	}
}

func TestSecurity_DisallowedOrigin(t *testing.T) {
	router := setupSecurityRouter([]string{"https://example.com"})

	w := requestWithOrigin(router, http.MethodGet, "https://evil.example.org")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want no header for unknown origin", got)
	}
}

func TestSecurity_NoOriginHeader(t *testing.T) {
	router := setupSecurityRouter([]string{"https://example.com"})

	w := requestWithOrigin(router, http.MethodGet, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want no header without an Origin", got)
	}
}

func TestSecurity_PreflightRequest(t *testing.T) {
	router := setupSecurityRouter([]string{"https://example.com"})

	w := requestWithOrigin(router, http.MethodOptions, "https://example.com")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("preflight response should list allowed methods")
	}
}
