package app

import (
	"github.com/oneirolabs/dream-backend/internal/analyzer"
	"github.com/oneirolabs/dream-backend/internal/handlers"
	"github.com/oneirolabs/dream-backend/internal/logger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Interpret *handlers.InterpretHandler
	Dream     *handlers.DreamHandler
	Model     *handlers.ModelHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, basic *analyzer.Basic) Handlers {
	return Handlers{
		Auth:      handlers.NewAuthHandler(serviceset.Auth),
		User:      handlers.NewUserHandler(serviceset.User),
		Interpret: handlers.NewInterpretHandler(log, serviceset.Model, serviceset.Dream, basic),
		Dream:     handlers.NewDreamHandler(log, serviceset.Dream, serviceset.Model),
		Model:     handlers.NewModelHandler(log, serviceset.Model),
	}
}
