package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/contenthub/content-service/internal/config"
	"github.com/contenthub/content-service/internal/database"
	"github.com/contenthub/content-service/internal/handlers"
	"github.com/contenthub/content-service/internal/repository"
	"github.com/contenthub/content-service/internal/routes"
	"github.com/contenthub/content-service/internal/service"
	"github.com/gin-gonic/gin"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret   = "test-secret-key-at-least-32-chars-long"
	testPassword = "TestPass123!"
)

// jwtTimestampBuffer ensures consecutively issued tokens differ: JWT
// timestamps have 1-second resolution.
const jwtTimestampBuffer = 1001 * time.Millisecond

// setupTestServer wires the full HTTP stack against an in-memory SQLite
// database and a miniredis instance.
func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	redisClient := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})

	jwtService, err := service.NewJWTService(testSecret, 15*time.Minute, 168*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	loginHistoryRepo := repository.NewLoginHistoryRepository(db)
	authService := service.NewAuthService(userRepo, loginHistoryRepo, jwtService, redisClient)
	blogService := service.NewBlogService(
		repository.NewPostRepository(db),
		repository.NewTagRepository(db),
		repository.NewCategoryRepository(db),
	)
	dashboardService := service.NewDashboardService(repository.NewDashboardRepository(db))

	log := zap.NewNop()
	cfg := &config.Config{AllowedOrigins: []string{"https://example.com"}}

	router := gin.New()
	routes.Setup(
		router,
		handlers.NewAuthHandler(authService, log),
		handlers.NewBlogHandler(blogService, log),
		handlers.NewDashboardHandler(dashboardService, log),
		handlers.NewHealthHandler(),
		jwtService,
		cfg,
	)
	return router, db
}

// performRequest issues a JSON request against the router. A non-empty token
// is sent as a bearer Authorization header.
func performRequest(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func registerUser(t *testing.T, router *gin.Engine, username string) {
	t.Helper()
	w := performRequest(router, http.MethodPost, "/register/", gin.H{
		"username":  username,
		"email":     username + "@example.com",
		"password":  testPassword,
		"password2": testPassword,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", username, w.Code, w.Body.String())
	}
}

func loginUser(t *testing.T, router *gin.Engine, username string) service.TokenPair {
	t.Helper()
	w := performRequest(router, http.MethodPost, "/token/", gin.H{
		"username": username,
		"password": testPassword,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body = %s", username, w.Code, w.Body.String())
	}
	var pair service.TokenPair
	decodeBody(t, w, &pair)
	return pair
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string) service.TokenPair {
	t.Helper()
	registerUser(t, router, username)
	return loginUser(t, router, username)
}
