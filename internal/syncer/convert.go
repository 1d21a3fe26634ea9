package syncer

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Kash1r/league-data-collector/internal/domain"
	"github.com/Kash1r/league-data-collector/internal/riot"
)

// buildBundle maps a fetched match into the row set the store writes
// atomically. ParticipantCount always records the full upstream roster, so a
// single-participant fetch stays visibly incomplete.
func buildBundle(detail *riot.MatchDetail, targetPuuid string, allParticipants bool) domain.MatchBundle {
	info := detail.Info
	bundle := domain.MatchBundle{
		Match: domain.Match{
			MatchID:          detail.Metadata.MatchID,
			PlatformID:       strings.ToUpper(info.PlatformID),
			QueueID:          info.QueueID,
			GameMode:         info.GameMode,
			GameVersion:      info.GameVersion,
			GameCreation:     time.UnixMilli(info.GameCreation).UTC(),
			GameDuration:     info.GameDuration,
			ParticipantCount: len(info.Participants),
			FetchedAt:        time.Now().UTC(),
		},
	}

	for _, t := range info.Teams {
		bans := make([]int, 0, len(t.Bans))
		for _, b := range t.Bans {
			bans = append(bans, b.ChampionID)
		}
		bundle.Teams = append(bundle.Teams, domain.Team{
			MatchID:         bundle.Match.MatchID,
			TeamID:          t.TeamID,
			Win:             t.Win,
			FirstBlood:      t.Objectives.Champion.First,
			FirstTower:      t.Objectives.Tower.First,
			FirstInhibitor:  t.Objectives.Inhibitor.First,
			FirstBaron:      t.Objectives.Baron.First,
			FirstDragon:     t.Objectives.Dragon.First,
			FirstRiftHerald: t.Objectives.RiftHerald.First,
			TowerKills:      t.Objectives.Tower.Kills,
			InhibitorKills:  t.Objectives.Inhibitor.Kills,
			BaronKills:      t.Objectives.Baron.Kills,
			DragonKills:     t.Objectives.Dragon.Kills,
			RiftHeraldKills: t.Objectives.RiftHerald.Kills,
			Bans:            bans,
		})
	}

	for idx, p := range info.Participants {
		if !allParticipants && p.Puuid != targetPuuid {
			continue
		}
		participantID := p.ParticipantID
		if participantID == 0 {
			participantID = idx + 1
		}
		bundle.Participants = append(bundle.Participants, domain.Participant{
			MatchID:            bundle.Match.MatchID,
			ParticipantID:      participantID,
			Puuid:              p.Puuid,
			TeamID:             p.TeamID,
			SummonerName:       p.SummonerName,
			SummonerLevel:      p.SummonerLevel,
			ChampionID:         p.ChampionID,
			ChampionName:       p.ChampionName,
			ChampionLevel:      p.ChampLevel,
			Kills:              p.Kills,
			Deaths:             p.Deaths,
			Assists:            p.Assists,
			GoldEarned:         p.GoldEarned,
			TotalMinionsKilled: p.TotalMinionsKilled,
			NeutralMinions:     p.NeutralMinionsKilled,
			VisionScore:        p.VisionScore,
			DamageToChampions:  p.DamageToChampions,
			DamageTaken:        p.TotalDamageTaken,
			TeamPosition:       p.TeamPosition,
			Lane:               p.Lane,
			Role:               p.Role,
			Win:                p.Win,
		})
	}

	return bundle
}

// buildTimeline flattens a fetched timeline into its stored row. Frames are
// kept as one raw JSON array.
func buildTimeline(matchID string, timeline *riot.TimelineDetail) (*domain.Timeline, error) {
	frames, err := json.Marshal(timeline.Info.Frames)
	if err != nil {
		return nil, fmt.Errorf("failed to encode timeline frames for match %s: %w", matchID, err)
	}
	return &domain.Timeline{
		MatchID:       matchID,
		FrameInterval: timeline.Info.FrameInterval,
		FrameCount:    len(timeline.Info.Frames),
		Frames:        frames,
	}, nil
}
