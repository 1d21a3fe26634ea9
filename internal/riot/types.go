package riot

import (
	json "github.com/goccy/go-json"
)

type Account struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type MatchDetail struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type MatchInfo struct {
	PlatformID   string            `json:"platformId"`
	QueueID      int               `json:"queueId"`
	GameMode     string            `json:"gameMode"`
	GameVersion  string            `json:"gameVersion"`
	GameCreation int64             `json:"gameCreation"` // epoch millis
	GameDuration int               `json:"gameDuration"` // seconds
	Teams        []TeamInfo        `json:"teams"`
	Participants []ParticipantInfo `json:"participants"`
}

type TeamInfo struct {
	TeamID     int        `json:"teamId"`
	Win        bool       `json:"win"`
	Bans       []BanInfo  `json:"bans"`
	Objectives Objectives `json:"objectives"`
}

type BanInfo struct {
	ChampionID int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

type Objective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

type Objectives struct {
	Champion   Objective `json:"champion"`
	Tower      Objective `json:"tower"`
	Inhibitor  Objective `json:"inhibitor"`
	Baron      Objective `json:"baron"`
	Dragon     Objective `json:"dragon"`
	RiftHerald Objective `json:"riftHerald"`
}

type ParticipantInfo struct {
	ParticipantID        int    `json:"participantId"`
	Puuid                string `json:"puuid"`
	TeamID               int    `json:"teamId"`
	SummonerName         string `json:"summonerName"`
	SummonerLevel        int    `json:"summonerLevel"`
	ChampionID           int    `json:"championId"`
	ChampionName         string `json:"championName"`
	ChampLevel           int    `json:"champLevel"`
	Kills                int    `json:"kills"`
	Deaths               int    `json:"deaths"`
	Assists              int    `json:"assists"`
	GoldEarned           int    `json:"goldEarned"`
	TotalMinionsKilled   int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled int    `json:"neutralMinionsKilled"`
	VisionScore          int    `json:"visionScore"`
	DamageToChampions    int    `json:"totalDamageDealtToChampions"`
	TotalDamageTaken     int    `json:"totalDamageTaken"`
	TeamPosition         string `json:"teamPosition"`
	Lane                 string `json:"lane"`
	Role                 string `json:"role"`
	Win                  bool   `json:"win"`
}

type TimelineDetail struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     TimelineInfo  `json:"info"`
}

type TimelineInfo struct {
	FrameInterval int64             `json:"frameInterval"` // milliseconds
	Frames        []json.RawMessage `json:"frames"`
}
