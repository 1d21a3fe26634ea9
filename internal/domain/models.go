package domain

import (
	"time"
)

type Summoner struct {
	Puuid         string
	GameName      string
	TagLine       string
	Region        string
	SummonerLevel int
	ProfileIconID int
	LastFetchAt   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Match struct {
	MatchID          string
	PlatformID       string
	QueueID          int
	GameMode         string
	GameVersion      string
	GameCreation     time.Time
	GameDuration     int // seconds
	ParticipantCount int // as reported by the remote detail, not rows stored
	FetchedAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Team struct {
	MatchID         string
	TeamID          int // 100 blue, 200 red
	Win             bool
	FirstBlood      bool
	FirstTower      bool
	FirstInhibitor  bool
	FirstBaron      bool
	FirstDragon     bool
	FirstRiftHerald bool
	TowerKills      int
	InhibitorKills  int
	BaronKills      int
	DragonKills     int
	RiftHeraldKills int
	Bans            []int
}

type Participant struct {
	MatchID            string
	ParticipantID      int // 1-10
	Puuid              string
	TeamID             int
	SummonerName       string
	SummonerLevel      int
	ChampionID         int
	ChampionName       string
	ChampionLevel      int
	Kills              int
	Deaths             int
	Assists            int
	GoldEarned         int
	TotalMinionsKilled int
	NeutralMinions     int
	VisionScore        int
	DamageToChampions  int
	DamageTaken        int
	TeamPosition       string
	Lane               string
	Role               string
	Win                bool
}

type Timeline struct {
	MatchID       string
	FrameInterval int64 // milliseconds between frames
	FrameCount    int
	Frames        []byte // raw frames JSON
}

// MatchBundle is the full dependent row set for one match, written as a
// single unit of work.
type MatchBundle struct {
	Match        Match
	Teams        []Team
	Participants []Participant
	Timeline     *Timeline
}

// MatchFailure records one match id the sync could not fetch or persist.
type MatchFailure struct {
	MatchID string
	Kind    string
	Reason  string
}

type SyncSummary struct {
	RunID    string
	Fetched  int
	Skipped  int
	Failed   int
	Failures []MatchFailure
}
