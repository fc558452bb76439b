package app

import (
	"gorm.io/gorm"

	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/repos"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Dream     repos.DreamRepo
}

func wireRepos(theDB *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:      repos.NewUserRepo(theDB, log),
		UserToken: repos.NewUserTokenRepo(theDB, log),
		Dream:     repos.NewDreamRepo(theDB, log),
	}
}
