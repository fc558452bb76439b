package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oneirolabs/dream-backend/internal/handlers"
	"github.com/oneirolabs/dream-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins     []string
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	UserHandler      *handlers.UserHandler
	InterpretHandler *handlers.InterpretHandler
	DreamHandler     *handlers.DreamHandler
	ModelHandler     *handlers.ModelHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)

		api.POST("/interpret", cfg.InterpretHandler.Interpret)
		api.GET("/history", cfg.DreamHandler.History)
		api.GET("/stats", cfg.DreamHandler.Stats)

		api.GET("/model-status", cfg.ModelHandler.Status)
		api.POST("/clear-cache", cfg.ModelHandler.ClearCache)
		api.POST("/reload-models", cfg.ModelHandler.ReloadModels)
	}

	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)
		protected.GET("/user", cfg.UserHandler.GetMe)
	}

	return router
}
