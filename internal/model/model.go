package model

// Role is one of the five Summoner's Rift lane positions, using Riot's
// teamPosition naming.
type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMiddle  Role = "MIDDLE"
	RoleBottom  Role = "BOTTOM"
	RoleUtility Role = "UTILITY"
)

// AllRoles lists the five roles in the fixed order used for deterministic
// permutation enumeration.
var AllRoles = []Role{RoleTop, RoleJungle, RoleMiddle, RoleBottom, RoleUtility}

// ParseRole normalizes a role string (either Riot teamPosition or a common
// alias) to a Role. Unknown strings map to RoleMiddle.
func ParseRole(s string) Role {
	switch s {
	case "TOP", "top":
		return RoleTop
	case "JUNGLE", "jungle", "jgl":
		return RoleJungle
	case "MIDDLE", "MID", "middle", "mid":
		return RoleMiddle
	case "BOTTOM", "BOT", "bottom", "bot", "adc":
		return RoleBottom
	case "UTILITY", "utility", "support", "sup":
		return RoleUtility
	default:
		return RoleMiddle
	}
}

// Team identifies a side using Riot's 100/200 convention.
type Team int

const (
	TeamBlue Team = 100
	TeamRed  Team = 200
)

func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "BLUE"
	case TeamRed:
		return "RED"
	default:
		return "?"
	}
}

// Opposite returns the other side.
func (t Team) Opposite() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

// TeamOfParticipant maps a participant slot (1-10) to its side. Slots 1-5
// are blue, 6-10 red; the split is a fixed convention of the source data.
func TeamOfParticipant(id int) Team {
	if id >= 1 && id <= 5 {
		return TeamBlue
	}
	return TeamRed
}

// EventType tags a processed timeline event.
type EventType string

const (
	EventKill      EventType = "KILL"
	EventMultiKill EventType = "MULTI_KILL"
	EventAce       EventType = "ACE"
	EventDragon    EventType = "DRAGON"
	EventBaron     EventType = "BARON"
	EventHerald    EventType = "HERALD"
	EventGrubs     EventType = "GRUBS"
	EventTower     EventType = "TOWER"
	EventInhibitor EventType = "INHIBITOR"
)

// ProcessedEvent is a normalized, deduplicated game event derived from the
// raw timeline event stream. Created once per raw event or cluster; only
// multi-kill events are mutated afterwards (KillCount grows while follow-up
// kills land inside the merge window).
type ProcessedEvent struct {
	Type      EventType
	Timestamp int64 // ms into the game
	Team      Team  // advantaged team

	// Champion kills.
	KillerID  int
	VictimID  int
	AssistIDs []int
	KillCount int // MULTI_KILL only

	// Objectives.
	MonsterType  string // Riot monsterType/monsterSubType for elite monsters
	BuildingType string // Riot towerType for TOWER, empty for INHIBITOR

	// Approximate gold swing the event represents.
	GoldValue int
}

// Minute returns the event time in fractional minutes.
func (e *ProcessedEvent) Minute() float64 {
	return float64(e.Timestamp) / 60000.0
}

// Teamfight is a burst of 3+ kills inside a rolling 30 second window.
type Teamfight struct {
	StartTimestamp int64
	EndTimestamp   int64
	BlueKills      int
	RedKills       int
}

// TotalKills is the combined kill count across both teams.
func (t *Teamfight) TotalKills() int {
	return t.BlueKills + t.RedKills
}

// Winner returns the side with more kills in the fight, or 0 on an even trade.
func (t *Teamfight) Winner() Team {
	switch {
	case t.BlueKills > t.RedKills:
		return TeamBlue
	case t.RedKills > t.BlueKills:
		return TeamRed
	default:
		return 0
	}
}

// SwingKind classifies a low-income window.
type SwingKind string

const (
	SwingCSDeficit SwingKind = "cs_deficit"
	SwingMixed     SwingKind = "mixed"
)

// GoldSwing is a 5-minute window in which a player earned substantially less
// gold than the expected baseline.
type GoldSwing struct {
	MatchID     string
	StartMinute int
	EndMinute   int
	Severity    int // shortfall vs the expected baseline, in gold
	Kind        SwingKind
}

// LaneStats condenses one match's timeline for one participant against a
// designated lane opponent. Nil pointers mark figures the game never reached
// (short game, missing opponent data).
type LaneStats struct {
	MatchID       string
	PUUID         string
	ParticipantID int
	OpponentID    int
	Win           bool
	DurationMin   float64

	GoldAt10     *int
	GoldAt15     *int
	GoldAt20     *int
	GoldDiffAt10 *int
	GoldDiffAt15 *int
	GoldDiffAt20 *int

	LevelAt10     *int
	LevelDiffAt10 *int

	MaxLead          int
	MaxLeadMinute    int
	MaxDeficit       int // stored positive
	MaxDeficitMinute int

	ThrowMinute    *int
	ComebackMinute *int

	// Item power spikes: earliest fractional minute at which cumulative gold
	// crossed 3000/6000/9500. Heuristic proxies, not purchase events.
	FirstItemMinute  *float64
	SecondItemMinute *float64
	ThirdItemMinute  *float64

	WorstSwing *GoldSwing

	// Gold source estimates from the final frame.
	CSGold   int
	KillGold int
}

// HasThrow reports whether the game was a throw (big lead, lost anyway).
func (s *LaneStats) HasThrow() bool { return s.ThrowMinute != nil }

// HasComeback reports whether the game was a comeback (big deficit, won).
func (s *LaneStats) HasComeback() bool { return s.ComebackMinute != nil }

// GameHighlight points at the single most extreme game of a kind across an
// analyzed history.
type GameHighlight struct {
	MatchID string
	Amount  int // max lead for throws, max deficit for comebacks
	Minute  int // the throw/comeback minute
}

// AggregateAnalysis is the cross-game rollup over a player's lane stats.
// Rates are percentages in [0,100]; every zero-denominator case yields 0.
type AggregateAnalysis struct {
	Games int
	Role  Role

	GamesAt10 int
	GamesAt15 int
	GamesAt20 int

	AvgGoldDiffAt10  float64
	AvgGoldDiffAt15  float64
	AvgGoldDiffAt20  float64
	AvgLevelDiffAt10 float64

	LeadRateAt10 float64
	LeadRateAt15 float64
	LeadRateAt20 float64

	// Of games leading at 15, the share ultimately won.
	LeadConversionRate float64

	AvgMaxLead    float64
	AvgMaxDeficit float64

	ThrowCount    int
	ComebackCount int
	ThrowRate     float64
	ComebackRate  float64

	BiggestThrow *GameHighlight
	BestComeback *GameHighlight

	AvgFirstItemMinute  float64
	AvgSecondItemMinute float64
	AvgThirdItemMinute  float64
	FirstItemDelta      float64 // positive = slower than the role benchmark
	SecondItemDelta     float64
	ThirdItemDelta      float64

	FastSpikeGames   int
	FastSpikeWins    int
	SlowSpikeGames   int
	SlowSpikeWins    int
	FastSpikeWinRate float64
	SlowSpikeWinRate float64

	WorstSwings []GoldSwing // top 5 by severity across all games
}

// SpikeBenchmarks maps each role to its reference first/second/third item
// completion minutes.
var SpikeBenchmarks = map[Role][3]float64{
	RoleTop:     {10, 18, 25},
	RoleJungle:  {9, 17, 24},
	RoleMiddle:  {10, 18, 25},
	RoleBottom:  {11, 19, 26},
	RoleUtility: {14, 22, 30},
}

// MatchRecord is the stored per-(match, player) summary row.
type MatchRecord struct {
	MatchID      string
	PUUID        string
	QueueID      int
	GameCreation int64
	GameDuration int // seconds
	ChampionID   int
	ChampionName string
	Role         Role
	Win          bool
	Kills        int
	Deaths       int
	Assists      int
	GoldEarned   int
	CS           int
	VisionScore  int
	DamageDealt  int
}

// KDA returns (kills+assists)/deaths, with deaths treated as 1 when zero.
func (m *MatchRecord) KDA() float64 {
	d := m.Deaths
	if d == 0 {
		d = 1
	}
	return float64(m.Kills+m.Assists) / float64(d)
}

// DurationMinutes converts the stored duration to fractional minutes.
func (m *MatchRecord) DurationMinutes() float64 {
	return float64(m.GameDuration) / 60.0
}
