// Package routes defines HTTP routes for the content service.
package routes

import (
	"github.com/contenthub/content-service/internal/config"
	"github.com/contenthub/content-service/internal/handlers"
	"github.com/contenthub/content-service/internal/middleware"
	"github.com/contenthub/content-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all HTTP routes for the application. Registration and
// token issuance are the only business routes reachable without a token.
func Setup(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	blogHandler *handlers.BlogHandler,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
	jwtService service.JWTService,
	cfg *config.Config,
) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Security(cfg.AllowedOrigins))

	// Health check
	router.GET("/health", healthHandler.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Open auth routes
	router.POST("/token/", authHandler.Login)
	router.POST("/token/refresh/", authHandler.Refresh)
	router.POST("/register/", authHandler.Register)

	// Everything below requires a valid bearer token
	authed := router.Group("/", middleware.RequireAuth(jwtService))
	{
		authed.GET("/profile/", authHandler.GetProfile)
		authed.PATCH("/profile/", authHandler.UpdateProfile)
		authed.GET("/login-history/", authHandler.LoginHistory)

		authed.POST("/blog/", blogHandler.CreatePost)
		authed.GET("/blog/:id", blogHandler.GetPost)
		authed.PATCH("/blog/:id", blogHandler.UpdatePost)
		authed.GET("/blog/posts/", blogHandler.ListPosts)
		authed.POST("/blog/tags/", blogHandler.CreateTag)
		authed.GET("/blog/tags/list/", blogHandler.ListTags)
		authed.POST("/blog/categories", blogHandler.CreateCategory)
		authed.GET("/blog/categories/list/", blogHandler.ListCategories)

		authed.GET("/dashboard/", dashboardHandler.Get)
		authed.PATCH("/dashboard/", dashboardHandler.Update)
	}
}
