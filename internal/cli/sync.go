package cli

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Kash1r/league-data-collector/internal/constants"
	fxmodules "github.com/Kash1r/league-data-collector/internal/fx"
	"github.com/Kash1r/league-data-collector/internal/syncer"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand() *cobra.Command {
	var req syncer.Request

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch and store a player's recent matches",
		Long: `Resolve a player by Riot ID, list their recent match ids and store every
match that is not already in the database.

Example:
  collector sync --name "Hide on bush" --tag KR1 --region kr
  collector sync --name Faker --tag KR1 --region kr --matches 50 --timeline`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(req)
		},
	}

	cmd.Flags().StringVar(&req.GameName, "name", "", "game name of the player to sync (required)")
	cmd.Flags().StringVar(&req.TagLine, "tag", "", "tag line of the player to sync (required)")
	cmd.Flags().StringVar(&req.Region, "region", "na1", "platform region code (na1, euw1, kr, ...)")
	cmd.Flags().IntVar(&req.Count, "matches", constants.DefaultMatchCount, "number of matches to fetch (max 100)")
	cmd.Flags().IntVar(&req.Queue, "queue", 0, "queue id filter (420 for ranked solo, 0 for all)")
	cmd.Flags().BoolVar(&req.AllParticipants, "all-participants", false, "store every participant, not just the requested player")
	cmd.Flags().BoolVar(&req.IncludeTimeline, "timeline", false, "also fetch and store match timelines")
	cmd.Flags().BoolVar(&req.Force, "force-update", false, "re-fetch matches that are already stored")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}

// runSync boots the fx app, runs one sync on its lifecycle and shuts down
// when the sync finishes.
func runSync(req syncer.Request) error {
	var runErr error

	app := fx.New(
		fxmodules.Module,
		fx.Provide(newRouter),
		fx.StopTimeout(constants.ShutdownTimeout),
		fx.Invoke(func(
			lc fx.Lifecycle,
			shutdowner fx.Shutdowner,
			coordinator *syncer.Coordinator,
			db *sql.DB,
			logger zerolog.Logger,
		) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						summary, err := coordinator.Sync(context.Background(), req)
						if err != nil {
							logger.Error().Err(err).Msg("sync failed")
							runErr = err
						} else {
							for _, f := range summary.Failures {
								logger.Warn().
									Str("match_id", f.MatchID).
									Str("kind", f.Kind).
									Str("reason", f.Reason).
									Msg("match not stored")
							}
							logger.Info().
								Int("fetched", summary.Fetched).
								Int("skipped", summary.Skipped).
								Int("failed", summary.Failed).
								Msg("done")
						}
						_ = shutdowner.Shutdown()
					}()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					if err := db.Close(); err != nil {
						logger.Warn().Err(err).Msg("error closing database connection")
					}
					return nil
				},
			})
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}

	app.Run()
	return runErr
}
