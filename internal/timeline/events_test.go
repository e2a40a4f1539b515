package timeline

import (
	"testing"

	"github.com/laneiq/lolmetrics/internal/model"
	"github.com/laneiq/lolmetrics/internal/riot"
)

// kill builds a raw CHAMPION_KILL event with no bounty fields.
func kill(ts int64, killer, victim int) riot.TimelineEvent {
	return riot.TimelineEvent{
		Type:      "CHAMPION_KILL",
		Timestamp: ts,
		KillerID:  killer,
		VictimID:  victim,
	}
}

// frameOf wraps events into a single timeline frame.
func frameOf(events ...riot.TimelineEvent) []riot.TimelineFrame {
	return []riot.TimelineFrame{{Timestamp: 0, Events: events}}
}

// eventsOfType filters the processed stream by type.
func eventsOfType(events []model.ProcessedEvent, t model.EventType) []model.ProcessedEvent {
	var out []model.ProcessedEvent
	for _, e := range events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// ---- Multi-kill merging ----

func TestThreeQuickKillsBecomeOneMultiKill(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		kill(0, 1, 6),
		kill(4000, 1, 7),
		kill(9000, 1, 8),
	))

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	mk := events[0]
	if mk.Type != model.EventMultiKill {
		t.Fatalf("expected MULTI_KILL, got %s", mk.Type)
	}
	if mk.KillCount != 3 {
		t.Errorf("KillCount = %d, want 3", mk.KillCount)
	}
	if mk.Timestamp != 0 {
		t.Errorf("Timestamp = %d, want 0 (streak start)", mk.Timestamp)
	}
	if mk.GoldValue != 900 {
		t.Errorf("GoldValue = %d, want 900", mk.GoldValue)
	}
	if mk.Team != model.TeamBlue {
		t.Errorf("Team = %v, want blue", mk.Team)
	}
}

func TestFollowUpKillMergesIntoOpenMultiKill(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		kill(0, 1, 6),
		kill(4000, 1, 7),
		kill(9000, 1, 8),
		kill(12000, 1, 9),
	))

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].KillCount != 4 {
		t.Errorf("KillCount = %d, want 4", events[0].KillCount)
	}
	if events[0].GoldValue != 1200 {
		t.Errorf("GoldValue = %d, want 1200", events[0].GoldValue)
	}
}

func TestSpacedKillsStayPlain(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		kill(0, 1, 6),
		kill(20000, 1, 7),
		kill(40000, 1, 8),
	))

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for _, e := range events {
		if e.Type != model.EventKill {
			t.Errorf("expected plain KILL, got %s", e.Type)
		}
	}
}

func TestOtherKillersDoNotMerge(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		kill(0, 1, 6),
		kill(4000, 1, 7),
		kill(9000, 1, 8),
		kill(10000, 2, 9),
	))

	plain := eventsOfType(events, model.EventKill)
	if len(plain) != 1 || plain[0].KillerID != 2 {
		t.Fatalf("expected one plain kill by participant 2, got %+v", plain)
	}
	if len(eventsOfType(events, model.EventMultiKill)) != 1 {
		t.Errorf("expected one multi-kill by participant 1")
	}
}

func TestMultiKillInsertKeepsChronologicalOrder(t *testing.T) {
	// An unrelated kill lands between the streak's start and its trigger. The
	// merged multi-kill must slot back before it, not at the stream tail.
	events, _ := ProcessEvents(frameOf(
		kill(0, 1, 6),
		kill(2000, 6, 1),
		kill(4000, 1, 7),
		kill(9000, 1, 8),
	))

	var last int64 = -1
	for _, e := range events {
		if e.Timestamp < last {
			t.Fatalf("stream out of order: %+v", events)
		}
		last = e.Timestamp
	}
	if events[0].Type != model.EventMultiKill {
		t.Errorf("expected multi-kill first, got %s", events[0].Type)
	}
}

func TestExecutionsAreIgnored(t *testing.T) {
	events, _ := ProcessEvents(frameOf(kill(1000, 0, 6)))
	if len(events) != 0 {
		t.Fatalf("expected no events for killerId 0, got %+v", events)
	}
}

func TestKillUsesReportedBounty(t *testing.T) {
	ev := kill(1000, 1, 6)
	ev.Bounty = 400
	ev.ShutdownBounty = 150
	events, _ := ProcessEvents(frameOf(ev))

	if len(events) != 1 || events[0].GoldValue != 550 {
		t.Fatalf("expected gold 550, got %+v", events)
	}
}

// ---- Aces ----

func TestFiveDistinctVictimsEmitAce(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		kill(0, 1, 6),
		kill(5000, 2, 7),
		kill(10000, 3, 8),
		kill(15000, 4, 9),
		kill(20000, 5, 10),
	))

	aces := eventsOfType(events, model.EventAce)
	if len(aces) != 1 {
		t.Fatalf("expected 1 ACE, got %d", len(aces))
	}
	if aces[0].Team != model.TeamBlue {
		t.Errorf("ACE team = %v, want blue", aces[0].Team)
	}
	if aces[0].Timestamp != 20000 {
		t.Errorf("ACE at %d, want 20000", aces[0].Timestamp)
	}
}

func TestRepeatVictimDoesNotAce(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		kill(0, 1, 6),
		kill(5000, 2, 7),
		kill(10000, 3, 8),
		kill(15000, 4, 9),
		kill(20000, 5, 9),
	))

	if len(eventsOfType(events, model.EventAce)) != 0 {
		t.Fatal("four distinct victims must not emit an ACE")
	}
}

func TestSlowKillsDoNotAce(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		kill(0, 1, 6),
		kill(10000, 2, 7),
		kill(20000, 3, 8),
		kill(30000, 4, 9),
		kill(40000, 5, 10),
	))

	if len(eventsOfType(events, model.EventAce)) != 0 {
		t.Fatal("kills outside the window must not emit an ACE")
	}
}

// ---- Objectives ----

func TestMonsterKillsAreDeduplicated(t *testing.T) {
	dragon := riot.TimelineEvent{
		Type:         "ELITE_MONSTER_KILL",
		Timestamp:    600000,
		KillerTeamID: 100,
		MonsterType:  "DRAGON",
	}
	events, _ := ProcessEvents([]riot.TimelineFrame{
		{Timestamp: 600000, Events: []riot.TimelineEvent{dragon}},
		{Timestamp: 660000, Events: []riot.TimelineEvent{dragon}},
	})

	if len(events) != 1 {
		t.Fatalf("expected 1 dragon, got %d", len(events))
	}
	if events[0].Type != model.EventDragon || events[0].GoldValue != 200 {
		t.Errorf("got %+v, want DRAGON worth 200", events[0])
	}
}

func TestObjectiveGoldValues(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		riot.TimelineEvent{Type: "ELITE_MONSTER_KILL", Timestamp: 1, KillerTeamID: 100, MonsterType: "BARON_NASHOR"},
		riot.TimelineEvent{Type: "ELITE_MONSTER_KILL", Timestamp: 2, KillerTeamID: 200, MonsterType: "RIFTHERALD"},
		riot.TimelineEvent{Type: "ELITE_MONSTER_KILL", Timestamp: 3, KillerTeamID: 100, MonsterType: "HORDE"},
		riot.TimelineEvent{Type: "ELITE_MONSTER_KILL", Timestamp: 4, KillerTeamID: 200, MonsterType: "DRAGON", MonsterSubType: "ELDER_DRAGON"},
	))

	want := []struct {
		typ  model.EventType
		gold int
	}{
		{model.EventBaron, 1500},
		{model.EventHerald, 400},
		{model.EventGrubs, 150},
		{model.EventDragon, 1000},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, w := range want {
		if events[i].Type != w.typ || events[i].GoldValue != w.gold {
			t.Errorf("event %d = %s/%d, want %s/%d", i, events[i].Type, events[i].GoldValue, w.typ, w.gold)
		}
	}
}

func TestBuildingKillCreditsOpposingTeam(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		// Blue loses an outer tower; red loses an inhibitor.
		riot.TimelineEvent{Type: "BUILDING_KILL", Timestamp: 1, TeamID: 100, BuildingType: "TOWER_BUILDING", TowerType: "OUTER_TURRET"},
		riot.TimelineEvent{Type: "BUILDING_KILL", Timestamp: 2, TeamID: 200, BuildingType: "INHIBITOR_BUILDING"},
	))

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Team != model.TeamRed || events[0].GoldValue != 250 {
		t.Errorf("tower event = %+v, want red team worth 250", events[0])
	}
	if events[1].Team != model.TeamBlue || events[1].GoldValue != 50 {
		t.Errorf("inhibitor event = %+v, want blue team worth 50", events[1])
	}
}

func TestTowerTierGold(t *testing.T) {
	events, _ := ProcessEvents(frameOf(
		riot.TimelineEvent{Type: "BUILDING_KILL", Timestamp: 1, TeamID: 100, BuildingType: "TOWER_BUILDING", TowerType: "INNER_TURRET"},
		riot.TimelineEvent{Type: "BUILDING_KILL", Timestamp: 2, TeamID: 100, BuildingType: "TOWER_BUILDING", TowerType: "BASE_TURRET"},
	))

	if events[0].GoldValue != 300 {
		t.Errorf("inner tower gold = %d, want 300", events[0].GoldValue)
	}
	if events[1].GoldValue != 350 {
		t.Errorf("base tower gold = %d, want 350", events[1].GoldValue)
	}
}

// ---- Teamfight clustering ----

func TestTeamfightClustering(t *testing.T) {
	_, fights := ProcessEvents(frameOf(
		// Three kills anchored at 10:00 form a fight.
		kill(600000, 1, 6),
		kill(610000, 2, 7),
		kill(620000, 6, 1),
		// A lone kill at 15:00 does not.
		kill(900000, 3, 8),
	))

	if len(fights) != 1 {
		t.Fatalf("expected 1 fight, got %d: %+v", len(fights), fights)
	}
	f := fights[0]
	if f.StartTimestamp != 600000 || f.EndTimestamp != 620000 {
		t.Errorf("fight span = %d-%d, want 600000-620000", f.StartTimestamp, f.EndTimestamp)
	}
	if f.BlueKills != 2 || f.RedKills != 1 {
		t.Errorf("kills = %d/%d, want 2 blue 1 red", f.BlueKills, f.RedKills)
	}
	if f.Winner() != model.TeamBlue {
		t.Errorf("winner = %v, want blue", f.Winner())
	}
}

func TestTeamfightGapStartsNewCluster(t *testing.T) {
	_, fights := ProcessEvents(frameOf(
		kill(600000, 1, 6),
		kill(610000, 2, 7),
		kill(620000, 3, 8),
		// 31s after the anchor: new cluster, too small to keep.
		kill(631000, 4, 9),
	))

	if len(fights) != 1 {
		t.Fatalf("expected 1 fight, got %d", len(fights))
	}
	if fights[0].TotalKills() != 3 {
		t.Errorf("fight kills = %d, want 3", fights[0].TotalKills())
	}
}

func TestTeamfightCountsMultiKills(t *testing.T) {
	_, fights := ProcessEvents(frameOf(
		kill(600000, 1, 6),
		kill(604000, 1, 7),
		kill(609000, 1, 8),
	))

	if len(fights) != 1 {
		t.Fatalf("expected 1 fight, got %d", len(fights))
	}
	if fights[0].BlueKills != 3 {
		t.Errorf("fight kills = %d, want 3 from the merged multi-kill", fights[0].BlueKills)
	}
}

func TestEvenTradeHasNoWinner(t *testing.T) {
	f := model.Teamfight{BlueKills: 2, RedKills: 2}
	if f.Winner() != 0 {
		t.Errorf("even trade winner = %v, want 0", f.Winner())
	}
}
