// Package main is the entry point for the content service.
package main

import (
	"fmt"

	"github.com/contenthub/content-service/internal/config"
	"github.com/contenthub/content-service/internal/database"
	"github.com/contenthub/content-service/internal/handlers"
	"github.com/contenthub/content-service/internal/repository"
	"github.com/contenthub/content-service/internal/routes"
	"github.com/contenthub/content-service/internal/service"
	"github.com/contenthub/content-service/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Content Service API
// @version 1.0
// @description Multi-tenant content API: registration, JWT sessions, login
// @description audit trail, blog content and the user dashboard.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	// Initialize database
	db, err := database.Connect(database.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  "disable",
		TimeZone: "UTC",
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	loginHistoryRepo := repository.NewLoginHistoryRepository(db)
	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Initialize services
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	if err != nil {
		logger.Fatal("invalid jwt configuration", zap.Error(err))
	}
	authService := service.NewAuthService(userRepo, loginHistoryRepo, jwtService, redisClient)
	blogService := service.NewBlogService(postRepo, tagRepo, categoryRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	blogHandler := handlers.NewBlogHandler(blogService, logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, logger)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Setup routes
	routes.Setup(router, authHandler, blogHandler, dashboardHandler, healthHandler, jwtService, cfg)

	// Start server
	logger.Info("starting content service", zap.String("port", cfg.Port))
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
