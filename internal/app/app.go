package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oneirolabs/dream-backend/internal/analyzer"
	"github.com/oneirolabs/dream-backend/internal/cache"
	"github.com/oneirolabs/dream-backend/internal/config"
	"github.com/oneirolabs/dream-backend/internal/db"
	"github.com/oneirolabs/dream-backend/internal/lexicon"
	"github.com/oneirolabs/dream-backend/internal/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      config.Config
	Lexicon  *lexicon.Lexicon
	Repos    Repos
	Services Services
}

func New(configPath string) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := config.Load(configPath, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	log.Info("Loaded dream symbol lexicon", "entries", lex.Len())

	sqlite, err := db.NewSQLiteService(cfg.DBPath, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init sqlite: %w", err)
	}
	if err := sqlite.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("sqlite automigrate: %w", err)
	}
	theDB := sqlite.DB()

	resultCache := cache.New(time.Duration(cfg.Cache.TTLSeconds)*time.Second, cfg.Cache.MaxEntries)

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, lex, resultCache, reposet)
	handlerset := wireHandlers(log, serviceset, analyzer.NewBasic(lex))
	router := wireRouter(cfg, log, serviceset, handlerset)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Lexicon:  lex,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

// Start kicks off backend loading; with async loading enabled the HTTP
// server becomes responsive before every backend has finished.
func (a *App) Start(ctx context.Context) {
	a.Services.Model.Initialize(ctx, a.Cfg.Models.AsyncLoad)
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil || a.Log == nil {
		return
	}
	a.Log.Sync()
}
