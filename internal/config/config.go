package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/utils"
)

// Config holds everything the service needs at startup. Values come from an
// optional YAML file, then environment variables override field by field.
type Config struct {
	LogMode      string   `yaml:"log_mode"`
	Port         string   `yaml:"port"`
	DBPath       string   `yaml:"db_path"`
	LexiconPath  string   `yaml:"lexicon_path"`
	AllowOrigins []string `yaml:"allow_origins"`

	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	AccessTokenTTL  time.Duration `yaml:"-"`
	RefreshTokenTTL time.Duration `yaml:"-"`

	AccessTokenTTLSeconds  int `yaml:"access_token_ttl_seconds"`
	RefreshTokenTTLSeconds int `yaml:"refresh_token_ttl_seconds"`

	Cache  CacheConfig  `yaml:"cache"`
	Models ModelsConfig `yaml:"models"`

	HistoryLimit int `yaml:"history_limit"`
}

type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
	MaxEntries int `yaml:"max_entries"`
}

type ModelsConfig struct {
	AsyncLoad              bool   `yaml:"async_load"`
	RequestTimeoutSeconds  int    `yaml:"request_timeout_seconds"`
	TransformerWeightsPath string `yaml:"transformer_weights_path"`
	BertWeightsPath        string `yaml:"bert_weights_path"`
}

func defaults() Config {
	return Config{
		LogMode:      "development",
		Port:         "8080",
		DBPath:       "dreams.db",
		LexiconPath:  "data/interpretations.json",
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		JWTSecretKey: "defaultsecret",
		AccessTokenTTLSeconds:  3600,
		RefreshTokenTTLSeconds: 86400,
		Cache: CacheConfig{
			TTLSeconds: 3600,
			MaxEntries: 1000,
		},
		Models: ModelsConfig{
			AsyncLoad:             true,
			RequestTimeoutSeconds: 10,
		},
		HistoryLimit: 1000,
	}
}

// Load reads the YAML file at path when it exists, applies environment
// overrides, and resolves derived fields.
func Load(path string, log *logger.Logger) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
			if log != nil {
				log.Info("Loaded config file", "path", path)
			}
		case os.IsNotExist(err):
			if log != nil {
				log.Debug("Config file not found, using defaults", "path", path)
			}
		default:
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg.LogMode = utils.GetEnv("LOG_MODE", cfg.LogMode, log)
	cfg.Port = utils.GetEnv("PORT", cfg.Port, log)
	cfg.DBPath = utils.GetEnv("DB_PATH", cfg.DBPath, log)
	cfg.LexiconPath = utils.GetEnv("LEXICON_PATH", cfg.LexiconPath, log)
	cfg.JWTSecretKey = utils.GetEnv("JWT_SECRET_KEY", cfg.JWTSecretKey, log)
	cfg.AccessTokenTTLSeconds = utils.GetEnvAsInt("ACCESS_TOKEN_TTL", cfg.AccessTokenTTLSeconds, log)
	cfg.RefreshTokenTTLSeconds = utils.GetEnvAsInt("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTLSeconds, log)
	cfg.Cache.TTLSeconds = utils.GetEnvAsInt("CACHE_TTL", cfg.Cache.TTLSeconds, log)
	cfg.Cache.MaxEntries = utils.GetEnvAsInt("CACHE_MAX_ENTRIES", cfg.Cache.MaxEntries, log)
	cfg.Models.AsyncLoad = utils.GetEnvAsBool("MODELS_ASYNC_LOAD", cfg.Models.AsyncLoad, log)
	cfg.Models.RequestTimeoutSeconds = utils.GetEnvAsInt("MODEL_REQUEST_TIMEOUT", cfg.Models.RequestTimeoutSeconds, log)
	cfg.Models.TransformerWeightsPath = utils.GetEnv("TRANSFORMER_WEIGHTS_PATH", cfg.Models.TransformerWeightsPath, log)
	cfg.Models.BertWeightsPath = utils.GetEnv("BERT_WEIGHTS_PATH", cfg.Models.BertWeightsPath, log)
	cfg.HistoryLimit = utils.GetEnvAsInt("HISTORY_LIMIT", cfg.HistoryLimit, log)

	cfg.AccessTokenTTL = time.Duration(cfg.AccessTokenTTLSeconds) * time.Second
	cfg.RefreshTokenTTL = time.Duration(cfg.RefreshTokenTTLSeconds) * time.Second
	return cfg, nil
}
