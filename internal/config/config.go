package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/Kash1r/league-data-collector/internal/constants"
	"github.com/Kash1r/league-data-collector/internal/logger"
)

type Config struct {
	RiotAPIKey  string
	DBPath      string
	LogLevel    string
	SyncWorkers int
}

// Load reads configuration from the environment, with a .env file as
// fallback. It logs through a bootstrap logger because the app logger's
// level comes from the config itself.
func Load() (*Config, error) {
	log := logger.New()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:  getEnv("RIOT_API_KEY", ""),
		DBPath:      getEnv("DB_PATH", "league_data.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SyncWorkers: getEnvInt("SYNC_WORKERS", constants.DefaultWorkers),
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}
	if cfg.SyncWorkers < 1 {
		cfg.SyncWorkers = 1
	}

	log.Info().
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Int("sync_workers", cfg.SyncWorkers).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

var Module = fx.Provide(Load)
