package syncer

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// MatchChecker is the completeness query the planner needs from the store.
type MatchChecker interface {
	HasCompleteMatch(ctx context.Context, matchID string) (bool, error)
}

// Planner turns the upstream candidate listing into the work list a sync
// still has to fetch.
type Planner struct {
	store  MatchChecker
	logger zerolog.Logger
}

func NewPlanner(store MatchChecker, logger zerolog.Logger) *Planner {
	return &Planner{store: store, logger: logger}
}

// Plan keeps the candidates that are not yet completely stored, preserving
// the listing's most-recent-first order. With force set, every candidate is
// work.
func (p *Planner) Plan(ctx context.Context, candidates []string, force bool) ([]string, error) {
	if force {
		return slices.Clone(candidates), nil
	}

	work := make([]string, 0, len(candidates))
	for _, matchID := range candidates {
		complete, err := p.store.HasCompleteMatch(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("failed to check match %s: %w", matchID, err)
		}
		if complete {
			p.logger.Debug().Str("match_id", matchID).Msg("match already stored, skipping")
			continue
		}
		work = append(work, matchID)
	}

	p.logger.Debug().
		Int("candidates", len(candidates)).
		Int("work", len(work)).
		Msg("sync plan built")
	return work, nil
}
