package main

import (
	"github.com/gin-gonic/gin"
	"github.com/usthb-datascience/tic-projects/backend/internal/middleware"
	"github.com/usthb-datascience/tic-projects/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.Use(middleware.CORS())
	r.Use(middleware.AuditLog())

	// Credential endpoints get a per-IP rate limit.
	credentialLimiter := middleware.NewRateLimiter(2, 5)

	r.GET("/health", svc.healthHandler.Check)
	r.GET("/api", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "TIC Projects Platform API is running", "version": "1.0.0"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", credentialLimiter.Middleware(), svc.authHandler.Register)
		auth.POST("/login", credentialLimiter.Middleware(), svc.authHandler.Login)
		auth.GET("/me", middleware.AuthRequired(), svc.authHandler.Me)
		auth.POST("/change-password", middleware.AuthRequired(), svc.authHandler.ChangePassword)
	}

	projects := r.Group("/projects")
	{
		projects.GET("", svc.projectHandler.List)
		projects.GET("/:id", svc.projectHandler.GetByID)
		projects.GET("/:id/reviews", svc.reviewHandler.List)

		projects.POST("", middleware.AuthRequired(), svc.projectHandler.Create)
		projects.PUT("/:id", middleware.AuthRequired(), svc.projectHandler.Update)
		projects.DELETE("/:id", middleware.AuthRequired(), svc.projectHandler.Delete)
		projects.POST("/:id/reviews", middleware.AuthRequired(), svc.reviewHandler.Submit)
		projects.GET("/:id/my-review", middleware.AuthRequired(), svc.reviewHandler.GetMine)
	}

	users := r.Group("/users")
	{
		users.GET("/search", svc.userHandler.Search)
		users.GET("/me", middleware.AuthRequired(), svc.userHandler.Me)
		users.PUT("/me", middleware.AuthRequired(), svc.userHandler.UpdateMe)
		users.GET("/:id", svc.userHandler.GetByID)
	}

	// Stored avatars.
	r.Static("/uploads", svc.store.Dir())
}
