package riot

// AccountResponse is the response from /riot/account/v1/accounts/by-riot-id.
type AccountResponse struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// MatchResponse is the response from /lol/match/v5/matches/{matchId}.
type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs by slot order
}

type MatchInfo struct {
	GameCreation int64              `json:"gameCreation"`
	GameDuration int                `json:"gameDuration"` // seconds
	GameVersion  string             `json:"gameVersion"`
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
	Teams        []MatchTeam        `json:"teams"`
}

type MatchParticipant struct {
	ParticipantID int    `json:"participantId"`
	PUUID         string `json:"puuid"`
	TeamID        int    `json:"teamId"` // 100 or 200
	ChampionID    int    `json:"championId"`
	ChampionName  string `json:"championName"`
	TeamPosition  string `json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	Win           bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	GoldEarned                  int `json:"goldEarned"`
	TotalMinionsKilled          int `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int `json:"neutralMinionsKilled"`
	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	VisionScore                 int `json:"visionScore"`

	Summoner1ID int `json:"summoner1Id"`
	Summoner2ID int `json:"summoner2Id"`
}

// CS is the combined lane and jungle minion count.
func (p *MatchParticipant) CS() int {
	return p.TotalMinionsKilled + p.NeutralMinionsKilled
}

type MatchTeam struct {
	TeamID     int             `json:"teamId"`
	Win        bool            `json:"win"`
	Objectives MatchObjectives `json:"objectives"`
}

type MatchObjectives struct {
	Baron      ObjectiveCount `json:"baron"`
	Dragon     ObjectiveCount `json:"dragon"`
	RiftHerald ObjectiveCount `json:"riftHerald"`
	Tower      ObjectiveCount `json:"tower"`
	Inhibitor  ObjectiveCount `json:"inhibitor"`
}

type ObjectiveCount struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

// TimelineResponse is the response from /lol/match/v5/matches/{matchId}/timeline.
type TimelineResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     TimelineInfo  `json:"info"`
}

type TimelineInfo struct {
	FrameInterval int             `json:"frameInterval"` // ms, typically 60000
	Frames        []TimelineFrame `json:"frames"`
}

// TimelineFrame is a periodic snapshot of cumulative participant totals plus
// the discrete events that fell inside its window. Frame timestamps are
// monotonically non-decreasing.
type TimelineFrame struct {
	Timestamp         int64                       `json:"timestamp"`
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"` // key: "1".."10"
	Events            []TimelineEvent             `json:"events"`
}

type ParticipantFrame struct {
	ParticipantID       int `json:"participantId"`
	TotalGold           int `json:"totalGold"`
	Level               int `json:"level"`
	MinionsKilled       int `json:"minionsKilled"`
	JungleMinionsKilled int `json:"jungleMinionsKilled"`
	XP                  int `json:"xp"`
}

// CS is the combined minion count at the frame.
func (f *ParticipantFrame) CS() int {
	return f.MinionsKilled + f.JungleMinionsKilled
}

// TimelineEvent is a raw timeline event. Only the fields consumed by the
// event processor are mapped; the rest of the payload is ignored.
type TimelineEvent struct {
	Type      string `json:"type"` // CHAMPION_KILL, ELITE_MONSTER_KILL, BUILDING_KILL, ...
	Timestamp int64  `json:"timestamp"`

	// CHAMPION_KILL.
	KillerID                int   `json:"killerId"`
	VictimID                int   `json:"victimId"`
	AssistingParticipantIDs []int `json:"assistingParticipantIds"`
	Bounty                  int   `json:"bounty"`
	ShutdownBounty          int   `json:"shutdownBounty"`

	// ELITE_MONSTER_KILL.
	KillerTeamID   int    `json:"killerTeamId"`
	MonsterType    string `json:"monsterType"`    // DRAGON, BARON_NASHOR, RIFTHERALD, HORDE
	MonsterSubType string `json:"monsterSubType"` // ELDER_DRAGON, FIRE_DRAGON, ...

	// BUILDING_KILL. TeamID records the team that LOST the building.
	TeamID       int    `json:"teamId"`
	BuildingType string `json:"buildingType"` // TOWER_BUILDING, INHIBITOR_BUILDING
	TowerType    string `json:"towerType"`    // OUTER_TURRET, INNER_TURRET, BASE_TURRET, NEXUS_TURRET
}

// CurrentGameInfo is the response from /lol/spectator/v5/active-games/by-summoner.
type CurrentGameInfo struct {
	GameID       int64                    `json:"gameId"`
	GameMode     string                   `json:"gameMode"`
	GameLength   int64                    `json:"gameLength"`
	Participants []CurrentGameParticipant `json:"participants"`
}

type CurrentGameParticipant struct {
	TeamID     int    `json:"teamId"` // 100 or 200
	ChampionID int    `json:"championId"`
	PUUID      string `json:"puuid"`
	RiotID     string `json:"riotId"`
	Spell1ID   int    `json:"spell1Id"`
	Spell2ID   int    `json:"spell2Id"`
}
