package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Kash1r/league-data-collector/internal/constants"
	"github.com/Kash1r/league-data-collector/internal/domain"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Upsert writes a match and its dependent rows as one transaction. An
// existing match has its teams, participants and timeline deleted and
// re-inserted, never patched row by row, so a failure can only ever roll the
// whole match back.
func (r *MatchRepository) Upsert(ctx context.Context, b domain.MatchBundle) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	m := b.Match
	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (
			match_id, platform_id, queue_id, game_mode, game_version,
			game_creation, game_duration, participant_count, fetched_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id) DO UPDATE SET
			platform_id = excluded.platform_id,
			queue_id = excluded.queue_id,
			game_mode = excluded.game_mode,
			game_version = excluded.game_version,
			game_creation = excluded.game_creation,
			game_duration = excluded.game_duration,
			participant_count = excluded.participant_count,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at`,
		m.MatchID, m.PlatformID, m.QueueID, m.GameMode, m.GameVersion,
		m.GameCreation, m.GameDuration, m.ParticipantCount, m.FetchedAt,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match %s: %w", m.MatchID, err)
	}

	// Participants reference teams, so they go first.
	for _, table := range []string{"participants", "teams", "timelines"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE match_id = ?", table), m.MatchID); err != nil {
			return fmt.Errorf("failed to clear %s for match %s: %w", table, m.MatchID, err)
		}
	}

	for _, t := range b.Teams {
		bans, err := json.Marshal(t.Bans)
		if err != nil {
			return fmt.Errorf("failed to encode bans for match %s: %w", m.MatchID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO teams (
				match_id, team_id, win, first_blood, first_tower,
				first_inhibitor, first_baron, first_dragon, first_rift_herald,
				tower_kills, inhibitor_kills, baron_kills, dragon_kills,
				rift_herald_kills, bans
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.MatchID, t.TeamID, t.Win, t.FirstBlood, t.FirstTower,
			t.FirstInhibitor, t.FirstBaron, t.FirstDragon, t.FirstRiftHerald,
			t.TowerKills, t.InhibitorKills, t.BaronKills, t.DragonKills,
			t.RiftHeraldKills, string(bans),
		)
		if err != nil {
			return fmt.Errorf("failed to insert team %d for match %s: %w", t.TeamID, m.MatchID, err)
		}
	}

	for _, p := range b.Participants {
		// summoner_puuid resolves to NULL for players this store does not
		// track, keeping the foreign key satisfied.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO participants (
				match_id, participant_id, puuid, summoner_puuid, team_id,
				summoner_name, summoner_level, champion_id, champion_name,
				champion_level, kills, deaths, assists, gold_earned,
				total_minions_killed, neutral_minions_killed, vision_score,
				damage_to_champions, damage_taken, team_position, lane, role, win
			) VALUES (?, ?, ?,
				(SELECT puuid FROM summoners WHERE puuid = ?),
				?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.MatchID, p.ParticipantID, p.Puuid, p.Puuid, p.TeamID,
			p.SummonerName, p.SummonerLevel, p.ChampionID, p.ChampionName,
			p.ChampionLevel, p.Kills, p.Deaths, p.Assists, p.GoldEarned,
			p.TotalMinionsKilled, p.NeutralMinions, p.VisionScore,
			p.DamageToChampions, p.DamageTaken, p.TeamPosition, p.Lane, p.Role, p.Win,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant %d for match %s: %w", p.ParticipantID, m.MatchID, err)
		}
	}

	if b.Timeline != nil {
		t := b.Timeline
		_, err = tx.ExecContext(ctx, `
			INSERT INTO timelines (match_id, frame_interval, frame_count, frames)
			VALUES (?, ?, ?, ?)`,
			m.MatchID, t.FrameInterval, t.FrameCount, string(t.Frames),
		)
		if err != nil {
			return fmt.Errorf("failed to insert timeline for match %s: %w", m.MatchID, err)
		}
	}

	return tx.Commit()
}

// HasCompleteMatch reports whether the match is stored with its full
// participant set; a match fetched in single-participant mode stays
// incomplete until a full fetch replaces it.
func (r *MatchRepository) HasCompleteMatch(ctx context.Context, matchID string) (bool, error) {
	var expected, stored int
	err := r.db.QueryRowContext(ctx, `
		SELECT m.participant_count,
			(SELECT COUNT(*) FROM participants p WHERE p.match_id = m.match_id)
		FROM matches m WHERE m.match_id = ?`, matchID).Scan(&expected, &stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored > 0 && stored == expected, nil
}

func (r *MatchRepository) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT match_id, platform_id, queue_id, game_mode, game_version,
			game_creation, game_duration, participant_count, fetched_at,
			created_at, updated_at
		FROM matches WHERE match_id = ?`, matchID)

	var m domain.Match
	err := row.Scan(&m.MatchID, &m.PlatformID, &m.QueueID, &m.GameMode,
		&m.GameVersion, &m.GameCreation, &m.GameDuration, &m.ParticipantCount,
		&m.FetchedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, platform_id, queue_id, game_mode, game_version,
			game_creation, game_duration, participant_count, fetched_at,
			created_at, updated_at
		FROM matches ORDER BY game_creation DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.MatchID, &m.PlatformID, &m.QueueID, &m.GameMode,
			&m.GameVersion, &m.GameCreation, &m.GameDuration, &m.ParticipantCount,
			&m.FetchedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *MatchRepository) GetTeams(ctx context.Context, matchID string) ([]domain.Team, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, team_id, win, first_blood, first_tower,
			first_inhibitor, first_baron, first_dragon, first_rift_herald,
			tower_kills, inhibitor_kills, baron_kills, dragon_kills,
			rift_herald_kills, bans
		FROM teams WHERE match_id = ? ORDER BY team_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		var bans string
		if err := rows.Scan(&t.MatchID, &t.TeamID, &t.Win, &t.FirstBlood,
			&t.FirstTower, &t.FirstInhibitor, &t.FirstBaron, &t.FirstDragon,
			&t.FirstRiftHerald, &t.TowerKills, &t.InhibitorKills, &t.BaronKills,
			&t.DragonKills, &t.RiftHeraldKills, &bans); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(bans), &t.Bans); err != nil {
			return nil, fmt.Errorf("failed to decode bans for match %s: %w", matchID, err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *MatchRepository) GetParticipants(ctx context.Context, matchID string) ([]domain.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, participant_id, puuid, team_id, summoner_name,
			summoner_level, champion_id, champion_name, champion_level,
			kills, deaths, assists, gold_earned, total_minions_killed,
			neutral_minions_killed, vision_score, damage_to_champions,
			damage_taken, team_position, lane, role, win
		FROM participants WHERE match_id = ? ORDER BY participant_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.MatchID, &p.ParticipantID, &p.Puuid, &p.TeamID,
			&p.SummonerName, &p.SummonerLevel, &p.ChampionID, &p.ChampionName,
			&p.ChampionLevel, &p.Kills, &p.Deaths, &p.Assists, &p.GoldEarned,
			&p.TotalMinionsKilled, &p.NeutralMinions, &p.VisionScore,
			&p.DamageToChampions, &p.DamageTaken, &p.TeamPosition, &p.Lane,
			&p.Role, &p.Win); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *MatchRepository) GetTimeline(ctx context.Context, matchID string) (*domain.Timeline, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT match_id, frame_interval, frame_count, frames
		FROM timelines WHERE match_id = ?`, matchID)

	var t domain.Timeline
	var frames string
	if err := row.Scan(&t.MatchID, &t.FrameInterval, &t.FrameCount, &frames); err != nil {
		return nil, err
	}
	t.Frames = []byte(frames)
	return &t, nil
}

func (r *MatchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}

func (r *MatchRepository) CountParticipants(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants`).Scan(&count)
	return count, err
}
