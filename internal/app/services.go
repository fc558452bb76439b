package app

import (
	"gorm.io/gorm"

	"github.com/oneirolabs/dream-backend/internal/cache"
	"github.com/oneirolabs/dream-backend/internal/config"
	"github.com/oneirolabs/dream-backend/internal/lexicon"
	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/services"
)

type Services struct {
	Auth  services.AuthService
	User  services.UserService
	Dream services.DreamService
	Model services.ModelService
}

func wireServices(theDB *gorm.DB, log *logger.Logger, cfg config.Config, lex *lexicon.Lexicon, resultCache *cache.ResultCache, reposet Repos) Services {
	return Services{
		Auth:  services.NewAuthService(theDB, log, reposet.User, reposet.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:  services.NewUserService(theDB, log, reposet.User),
		Dream: services.NewDreamService(theDB, log, reposet.Dream, cfg.HistoryLimit),
		Model: services.NewModelService(lex, cfg.Models, resultCache, log),
	}
}
