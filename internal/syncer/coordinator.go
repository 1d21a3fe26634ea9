package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Kash1r/league-data-collector/internal/constants"
	"github.com/Kash1r/league-data-collector/internal/domain"
	"github.com/Kash1r/league-data-collector/internal/riot"
)

// RemoteClient is the upstream surface the coordinator fetches from.
type RemoteClient interface {
	GetAccountByRiotID(ctx context.Context, region, gameName, tagLine string) (*riot.Account, error)
	GetMatchIDs(ctx context.Context, region, puuid string, opts riot.MatchListOptions) ([]string, error)
	GetMatch(ctx context.Context, region, matchID string) (*riot.MatchDetail, error)
	GetTimeline(ctx context.Context, region, matchID string) (*riot.TimelineDetail, error)
}

// MatchWriter is the store surface the coordinator persists through.
type MatchWriter interface {
	Upsert(ctx context.Context, b domain.MatchBundle) error
}

type SummonerWriter interface {
	Upsert(ctx context.Context, s *domain.Summoner) error
}

// Request describes one sync call.
type Request struct {
	GameName        string
	TagLine         string
	Region          string
	Count           int // 1..100
	Queue           int // 0 = no queue filter
	AllParticipants bool
	IncludeTimeline bool
	Force           bool
}

// Coordinator runs the full pipeline: resolve identity, list candidates,
// plan, then fetch and persist the work list with a bounded worker pool.
type Coordinator struct {
	client    RemoteClient
	planner   *Planner
	matches   MatchWriter
	summoners SummonerWriter
	workers   int
	logger    zerolog.Logger
}

func NewCoordinator(client RemoteClient, planner *Planner, matches MatchWriter, summoners SummonerWriter, workers int, logger zerolog.Logger) *Coordinator {
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{
		client:    client,
		planner:   planner,
		matches:   matches,
		summoners: summoners,
		workers:   workers,
		logger:    logger,
	}
}

// Sync fetches and persists a player's recent matches. Identity resolution
// failure is fatal; per-match failures are isolated into the summary and the
// remaining work list keeps going.
func (c *Coordinator) Sync(ctx context.Context, req Request) (*domain.SyncSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.SyncTimeout)
	defer cancel()

	runID := gonanoid.Must()
	log := c.logger.With().
		Str("run_id", runID).
		Str("game_name", req.GameName).
		Str("tag_line", req.TagLine).
		Str("region", req.Region).
		Logger()

	log.Info().Int("count", req.Count).Bool("force", req.Force).Msg("starting sync")

	account, err := c.client.GetAccountByRiotID(ctx, req.Region, req.GameName, req.TagLine)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve account")
		return nil, fmt.Errorf("failed to resolve account %s#%s: %w", req.GameName, req.TagLine, err)
	}

	summoner := &domain.Summoner{
		Puuid:       account.Puuid,
		GameName:    account.GameName,
		TagLine:     account.TagLine,
		Region:      strings.ToLower(req.Region),
		LastFetchAt: time.Now().UTC(),
	}
	if err := c.summoners.Upsert(ctx, summoner); err != nil {
		log.Error().Err(err).Str("puuid", account.Puuid).Msg("failed to persist summoner")
		return nil, fmt.Errorf("failed to persist summoner %s: %w", account.Puuid, err)
	}

	candidates, err := c.client.GetMatchIDs(ctx, req.Region, account.Puuid, riot.MatchListOptions{
		Count: req.Count,
		Queue: req.Queue,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to list match ids")
		return nil, fmt.Errorf("failed to list matches for %s: %w", account.Puuid, err)
	}

	work, err := c.planner.Plan(ctx, candidates, req.Force)
	if err != nil {
		return nil, err
	}

	summary := &domain.SyncSummary{
		RunID:   runID,
		Skipped: len(candidates) - len(work),
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(c.workers)

	for _, matchID := range work {
		matchID := matchID
		g.Go(func() error {
			if err := c.syncMatch(ctx, log, account.Puuid, req, matchID); err != nil {
				log.Error().Err(err).Str("match_id", matchID).Msg("match sync failed")
				mu.Lock()
				summary.Failed++
				summary.Failures = append(summary.Failures, domain.MatchFailure{
					MatchID: matchID,
					Kind:    failureKind(err),
					Reason:  err.Error(),
				})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			summary.Fetched++
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	log.Info().
		Int("fetched", summary.Fetched).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("sync completed")
	return summary, nil
}

func (c *Coordinator) syncMatch(ctx context.Context, log zerolog.Logger, puuid string, req Request, matchID string) error {
	detail, err := c.client.GetMatch(ctx, req.Region, matchID)
	if err != nil {
		return fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}

	bundle := buildBundle(detail, puuid, req.AllParticipants)

	if req.IncludeTimeline {
		timeline, err := c.client.GetTimeline(ctx, req.Region, matchID)
		if err != nil {
			// The match is still worth keeping without its timeline.
			log.Warn().Err(err).Str("match_id", matchID).Msg("failed to fetch timeline")
		} else if bundle.Timeline, err = buildTimeline(matchID, timeline); err != nil {
			log.Warn().Err(err).Str("match_id", matchID).Msg("failed to encode timeline")
		}
	}

	if err := c.matches.Upsert(ctx, bundle); err != nil {
		return fmt.Errorf("failed to persist match %s: %w", matchID, err)
	}

	log.Debug().Str("match_id", matchID).Int("participants", len(bundle.Participants)).Msg("match stored")
	return nil
}

func failureKind(err error) string {
	var apiErr *riot.Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind.String()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return "persistence"
}
