package repository

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Kash1r/league-data-collector/internal/database"
	"github.com/Kash1r/league-data-collector/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testSummoner(puuid string) *domain.Summoner {
	return &domain.Summoner{
		Puuid:         puuid,
		GameName:      "Hide on bush",
		TagLine:       "KR1",
		Region:        "kr",
		SummonerLevel: 512,
		ProfileIconID: 29,
		LastFetchAt:   time.Now().UTC(),
	}
}

// testBundle builds a match with two full teams and n participants split
// between them.
func testBundle(matchID string, n int) domain.MatchBundle {
	b := domain.MatchBundle{
		Match: domain.Match{
			MatchID:          matchID,
			PlatformID:       "KR",
			QueueID:          420,
			GameMode:         "CLASSIC",
			GameVersion:      "14.12.598.1203",
			GameCreation:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			GameDuration:     1843,
			ParticipantCount: n,
			FetchedAt:        time.Now().UTC(),
		},
		Teams: []domain.Team{
			{MatchID: matchID, TeamID: 100, Win: true, FirstBlood: true, TowerKills: 9, DragonKills: 3, Bans: []int{64, 121, 52}},
			{MatchID: matchID, TeamID: 200, Win: false, FirstTower: true, TowerKills: 2, BaronKills: 1, Bans: []int{}},
		},
	}
	for i := 1; i <= n; i++ {
		teamID := 100
		if i > n/2 {
			teamID = 200
		}
		b.Participants = append(b.Participants, domain.Participant{
			MatchID:           matchID,
			ParticipantID:     i,
			Puuid:             fmt.Sprintf("puuid-%d", i),
			TeamID:            teamID,
			SummonerName:      fmt.Sprintf("player%d", i),
			SummonerLevel:     30 + i,
			ChampionID:        100 + i,
			ChampionName:      fmt.Sprintf("Champ%d", i),
			ChampionLevel:     18,
			Kills:             i,
			Deaths:            2,
			Assists:           7,
			GoldEarned:        11000 + i,
			DamageToChampions: 20000 + i,
			TeamPosition:      "MIDDLE",
			Lane:              "MIDDLE",
			Role:              "SOLO",
			Win:               teamID == 100,
		})
	}
	return b
}
