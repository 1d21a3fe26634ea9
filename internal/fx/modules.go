package fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Kash1r/league-data-collector/internal/config"
	"github.com/Kash1r/league-data-collector/internal/database"
	"github.com/Kash1r/league-data-collector/internal/logger"
	"github.com/Kash1r/league-data-collector/internal/ratelimit"
	"github.com/Kash1r/league-data-collector/internal/repository"
	"github.com/Kash1r/league-data-collector/internal/riot"
	"github.com/Kash1r/league-data-collector/internal/syncer"
)

// ProvideLogger builds the app logger at the configured level, falling back
// to info when LOG_LEVEL does not parse.
func ProvideLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return logger.SetLevel(level)
}

func ProvidePlanner(matches *repository.MatchRepository, log zerolog.Logger) *syncer.Planner {
	return syncer.NewPlanner(matches, log)
}

func ProvideCoordinator(
	client *riot.Client,
	planner *syncer.Planner,
	matches *repository.MatchRepository,
	summoners *repository.SummonerRepository,
	cfg *config.Config,
	log zerolog.Logger,
) *syncer.Coordinator {
	return syncer.NewCoordinator(client, planner, matches, summoners, cfg.SyncWorkers, log)
}

var Module = fx.Options(
	config.Module,
	fx.Provide(ProvideLogger),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSummonerRepository),
	fx.Provide(repository.NewMatchRepository),
	// api client
	fx.Provide(ratelimit.NewRiotGovernor),
	fx.Provide(riot.NewClient),
	// sync pipeline
	fx.Provide(ProvidePlanner),
	fx.Provide(ProvideCoordinator),
)
