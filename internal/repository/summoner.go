package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kash1r/league-data-collector/internal/constants"
	"github.com/Kash1r/league-data-collector/internal/domain"
)

type SummonerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSummonerRepository(sqlDB *sql.DB, logger zerolog.Logger) *SummonerRepository {
	return &SummonerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Upsert writes a summoner by its natural key. The created_at of an existing
// row is preserved; everything else is overwritten.
func (r *SummonerRepository) Upsert(ctx context.Context, s *domain.Summoner) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO summoners (
			puuid, game_name, tag_line, region, summoner_level,
			profile_icon_id, last_fetch_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (puuid) DO UPDATE SET
			game_name = excluded.game_name,
			tag_line = excluded.tag_line,
			region = excluded.region,
			summoner_level = excluded.summoner_level,
			profile_icon_id = excluded.profile_icon_id,
			last_fetch_at = excluded.last_fetch_at,
			updated_at = excluded.updated_at`,
		s.Puuid, s.GameName, s.TagLine, s.Region, s.SummonerLevel,
		s.ProfileIconID, s.LastFetchAt, now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("puuid", s.Puuid).Msg("failed to upsert summoner")
		return fmt.Errorf("failed to upsert summoner %s: %w", s.Puuid, err)
	}
	return nil
}

func (r *SummonerRepository) GetByPuuid(ctx context.Context, puuid string) (*domain.Summoner, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT puuid, game_name, tag_line, region, summoner_level,
			profile_icon_id, last_fetch_at, created_at, updated_at
		FROM summoners WHERE puuid = ?`, puuid)
	return scanSummoner(row)
}

func (r *SummonerRepository) GetByRiotID(ctx context.Context, gameName, tagLine, region string) (*domain.Summoner, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT puuid, game_name, tag_line, region, summoner_level,
			profile_icon_id, last_fetch_at, created_at, updated_at
		FROM summoners WHERE game_name = ? AND tag_line = ? AND region = ?`,
		gameName, tagLine, region)
	return scanSummoner(row)
}

func (r *SummonerRepository) List(ctx context.Context) ([]domain.Summoner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT puuid, game_name, tag_line, region, summoner_level,
			profile_icon_id, last_fetch_at, created_at, updated_at
		FROM summoners ORDER BY region, game_name, tag_line`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summoners []domain.Summoner
	for rows.Next() {
		var s domain.Summoner
		if err := rows.Scan(&s.Puuid, &s.GameName, &s.TagLine, &s.Region,
			&s.SummonerLevel, &s.ProfileIconID, &s.LastFetchAt,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		summoners = append(summoners, s)
	}
	return summoners, rows.Err()
}

func (r *SummonerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM summoners`).Scan(&count)
	return count, err
}

func scanSummoner(row *sql.Row) (*domain.Summoner, error) {
	var s domain.Summoner
	err := row.Scan(&s.Puuid, &s.GameName, &s.TagLine, &s.Region,
		&s.SummonerLevel, &s.ProfileIconID, &s.LastFetchAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
