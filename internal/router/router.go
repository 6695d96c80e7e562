package router

import (
	"context"
	"log"

	"github.com/blogsphere/backend/internal/handlers"
	"github.com/blogsphere/backend/internal/middleware"
	"github.com/blogsphere/backend/internal/repositories"
	"github.com/blogsphere/backend/internal/services"
	"github.com/blogsphere/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes wires services, handlers and routes onto the store, and seeds
// the bootstrap admin account.
func SetupRoutes(e *echo.Echo, store *repositories.Store, cfg *config.Config) error {
	// --- Initialize services ---
	authService := services.NewAuthService(store.Users)
	contentService := services.NewContentService(store)
	adminService := services.NewAdminService(store)

	if err := authService.SeedAdmin(context.Background(), cfg.AdminPassword); err != nil {
		return err
	}
	log.Println("Admin seed checked.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.Static("/uploads", cfg.UploadDir)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	postHandler := handlers.NewPostHandler(contentService)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	likeHandler := handlers.NewLikeHandler(contentService)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	commentHandler := handlers.NewCommentHandler(contentService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	adminHandler := handlers.NewAdminHandler(adminService)
	adminHandler.RegisterAdminRoutes(api)
	log.Println("Admin routes configured.")

	uploadHandler, err := handlers.NewUploadHandler(cfg.UploadDir)
	if err != nil {
		return err
	}
	uploadHandler.RegisterUploadRoutes(api)
	log.Println("Upload routes configured.")

	log.Println("All routes configured.")
	return nil
}
