package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contenthub/content-service/internal/service"
	"github.com/gin-gonic/gin"
)

func newTestJWTService(t *testing.T) service.JWTService {
	t.Helper()
	svc, err := service.NewJWTService(
		"test-secret-key-at-least-32-chars-long",
		15*time.Minute,
		168*time.Hour,
	)
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	return svc
}

func setupAuthRouter(t *testing.T) (*gin.Engine, service.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := newTestJWTService(t)
	router := gin.New()
	router.GET("/protected", RequireAuth(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  UserID(c),
			"username": c.GetString(ContextUsername),
		})
	})
	return router, jwtService
}

func requestWithHeader(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// RequireAuth Tests
// =============================================================================

func TestRequireAuth_ValidToken(t *testing.T) {
	router, jwtService := setupAuthRouter(t)

	token, err := jwtService.GenerateAccessToken(42, "testuser")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	w := requestWithHeader(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestRequireAuth_LowercaseBearerScheme(t *testing.T) {
	router, jwtService := setupAuthRouter(t)

	token, err := jwtService.GenerateAccessToken(42, "testuser")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	w := requestWithHeader(router, "bearer "+token)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d for case-insensitive scheme", w.Code, http.StatusOK)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	router, jwtService := setupAuthRouter(t)

	expiredService, err := service.NewJWTService(
		"test-secret-key-at-least-32-chars-long",
		-time.Minute,
		168*time.Hour,
	)
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	expiredToken, err := expiredService.GenerateAccessToken(1, "testuser")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	otherService, err := service.NewJWTService(
		"another-secret-key-at-least-32-chars-xx",
		15*time.Minute,
		168*time.Hour,
	)
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	foreignToken, err := otherService.GenerateAccessToken(1, "testuser")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	validToken, err := jwtService.GenerateAccessToken(1, "testuser")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "missing header",
			header: "",
		},
		{
			name:   "wrong scheme",
			header: "Basic dXNlcjpwYXNz",
		},
		{
			name:   "token without scheme",
			header: validToken,
		},
		{
			name:   "garbage token",
			header: "Bearer not-a-jwt",
		},
		{
			name:   "expired token",
			header: "Bearer " + expiredToken,
		},
		{
			name:   "token signed with another key",
			header: "Bearer " + foreignToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := requestWithHeader(router, tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireAuth_StoresIdentity(t *testing.T) {
	router, jwtService := setupAuthRouter(t)

	token, err := jwtService.GenerateAccessToken(42, "testuser")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	w := requestWithHeader(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, `"user_id":42`) {
		t.Errorf("body = %s, want user_id 42", body)
	}
	if !strings.Contains(body, `"username":"testuser"`) {
		t.Errorf("body = %s, want username testuser", body)
	}
}
