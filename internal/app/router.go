package app

import (
	"github.com/gin-gonic/gin"

	"github.com/oneirolabs/dream-backend/internal/config"
	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/middleware"
	"github.com/oneirolabs/dream-backend/internal/server"
)

func wireRouter(cfg config.Config, log *logger.Logger, serviceset Services, handlerset Handlers) *gin.Engine {
	authMiddleware := middleware.NewAuthMiddleware(log, serviceset.Auth)
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AuthHandler:      handlerset.Auth,
		AuthMiddleware:   authMiddleware,
		UserHandler:      handlerset.User,
		InterpretHandler: handlerset.Interpret,
		DreamHandler:     handlerset.Dream,
		ModelHandler:     handlerset.Model,
	})
}
