// Package timeline derives higher-level signals from raw match timelines:
// processed event streams, teamfight clusters, and per-lane frame analysis.
package timeline

import (
	"fmt"

	"github.com/laneiq/lolmetrics/internal/model"
	"github.com/laneiq/lolmetrics/internal/riot"
)

const (
	// multiKillMergeMs is the trailing window in which follow-up kills merge
	// into an existing multi-kill event.
	multiKillMergeMs = 15000
	// multiKillRecentMs is the lookback used to decide a kill streak started.
	multiKillRecentMs = 10000
	// teamfightGapMs is the maximum gap between a kill and the cluster anchor.
	teamfightGapMs = 30000
	// teamfightMinKills is the minimum total kills for a retained cluster.
	teamfightMinKills = 3
	// aceWindowMs is the trailing window for distinct-victim ace detection.
	aceWindowMs = 30000

	// defaultKillGold is the assumed bounty when the source reports none.
	defaultKillGold = 300
)

// Approximate gold-swing values per objective.
const (
	baronGold      = 1500
	dragonGold     = 200
	elderBonusGold = 800
	heraldGold     = 400
	grubsGold      = 150

	outerTowerGold = 250
	innerTowerGold = 300
	otherTowerGold = 350
	inhibitorGold  = 50
)

// ProcessEvents scans one match's frames in order and produces the flat
// chronological processed-event list plus detected teamfights. Raw events
// are never mutated; multi-kill events are the only derived records updated
// in place after creation.
func ProcessEvents(frames []riot.TimelineFrame) ([]model.ProcessedEvent, []model.Teamfight) {
	p := &eventPass{
		killTimes:      make(map[int][]int64),
		openMultiKills: make(map[int]int),
		seenMonsters:   make(map[string]bool),
		aceVictims:     map[model.Team]map[int]int64{model.TeamBlue: {}, model.TeamRed: {}},
	}

	for _, frame := range frames {
		for _, ev := range frame.Events {
			switch ev.Type {
			case "CHAMPION_KILL":
				p.processKill(ev)
			case "ELITE_MONSTER_KILL":
				p.processMonsterKill(ev)
			case "BUILDING_KILL":
				p.processBuildingKill(ev)
			}
		}
	}

	return p.out, clusterTeamfights(p.out)
}

type eventPass struct {
	out []model.ProcessedEvent

	// killTimes holds each killer's kill timestamps inside the trailing 15s.
	killTimes map[int][]int64
	// openMultiKills maps a killer to the index of their live MULTI_KILL
	// event in out, or -1 after it ages out.
	openMultiKills map[int]int
	// seenMonsters dedupes elite-monster kills that appear in adjacent frames.
	seenMonsters map[string]bool
	// aceVictims tracks distinct victims per killing team in the trailing 30s.
	aceVictims map[model.Team]map[int]int64
}

func (p *eventPass) processKill(ev riot.TimelineEvent) {
	if ev.KillerID < 1 || ev.KillerID > 10 {
		// Executions (killerId 0) swing no team's momentum.
		return
	}
	team := model.TeamOfParticipant(ev.KillerID)

	// Prune the killer's window, then count kills inside the 10s lookback.
	window := pruneTimes(p.killTimes[ev.KillerID], ev.Timestamp-multiKillMergeMs)
	recent := 0
	for _, t := range window {
		if ev.Timestamp-t <= multiKillRecentMs {
			recent++
		}
	}

	if recent >= 2 {
		if idx, ok := p.liveMultiKill(ev.KillerID, ev.Timestamp); ok {
			p.out[idx].KillCount++
			p.out[idx].GoldValue += killGold(ev)
		} else {
			// Absorb the killer's plain kills from the lookback into a new
			// multi-kill anchored where the streak started.
			start, insertAt := p.absorbRecentKills(ev.KillerID, ev.Timestamp)
			mk := model.ProcessedEvent{
				Type:      model.EventMultiKill,
				Timestamp: start,
				Team:      team,
				KillerID:  ev.KillerID,
				KillCount: recent + 1,
				GoldValue: killGold(ev) * (recent + 1),
			}
			p.out = append(p.out, model.ProcessedEvent{})
			copy(p.out[insertAt+1:], p.out[insertAt:])
			p.out[insertAt] = mk
			p.rebuildMultiKillIndex()
		}
	} else {
		p.out = append(p.out, model.ProcessedEvent{
			Type:      model.EventKill,
			Timestamp: ev.Timestamp,
			Team:      team,
			KillerID:  ev.KillerID,
			VictimID:  ev.VictimID,
			AssistIDs: ev.AssistingParticipantIDs,
			GoldValue: killGold(ev),
		})
	}

	p.killTimes[ev.KillerID] = append(window, ev.Timestamp)
	p.trackAce(team, ev.VictimID, ev.Timestamp)
}

// liveMultiKill returns the index of the killer's open multi-kill if it is
// still inside the merge window.
func (p *eventPass) liveMultiKill(killerID int, now int64) (int, bool) {
	idx, ok := p.openMultiKills[killerID]
	if !ok || idx < 0 {
		return 0, false
	}
	if now-p.out[idx].Timestamp > multiKillMergeMs {
		p.openMultiKills[killerID] = -1
		return 0, false
	}
	return idx, true
}

// absorbRecentKills removes the killer's plain KILL events from the 10s
// lookback and returns the earliest absorbed timestamp plus the slice index
// where the replacement multi-kill keeps the stream chronological.
func (p *eventPass) absorbRecentKills(killerID int, now int64) (int64, int) {
	start := now
	insertAt := -1
	kept := p.out[:0]
	for _, e := range p.out {
		if e.Type == model.EventKill && e.KillerID == killerID && now-e.Timestamp <= multiKillRecentMs {
			if e.Timestamp < start {
				start = e.Timestamp
			}
			if insertAt < 0 {
				insertAt = len(kept)
			}
			continue
		}
		kept = append(kept, e)
	}
	p.out = kept
	if insertAt < 0 {
		insertAt = len(p.out)
	}
	return start, insertAt
}

// rebuildMultiKillIndex re-derives open multi-kill handles after indexes shift.
func (p *eventPass) rebuildMultiKillIndex() {
	for k := range p.openMultiKills {
		p.openMultiKills[k] = -1
	}
	for i := range p.out {
		if p.out[i].Type == model.EventMultiKill {
			p.openMultiKills[p.out[i].KillerID] = i
		}
	}
}

// trackAce records the victim against the killing team and emits an ACE once
// five distinct victims fall inside the trailing window.
func (p *eventPass) trackAce(team model.Team, victimID int, now int64) {
	if victimID < 1 || victimID > 10 {
		return
	}
	victims := p.aceVictims[team]
	for id, t := range victims {
		if now-t > aceWindowMs {
			delete(victims, id)
		}
	}
	victims[victimID] = now
	if len(victims) >= 5 {
		p.out = append(p.out, model.ProcessedEvent{
			Type:      model.EventAce,
			Timestamp: now,
			Team:      team,
		})
		p.aceVictims[team] = map[int]int64{}
	}
}

func (p *eventPass) processMonsterKill(ev riot.TimelineEvent) {
	key := fmt.Sprintf("%d/%s", ev.Timestamp, ev.MonsterType)
	if p.seenMonsters[key] {
		return
	}
	p.seenMonsters[key] = true

	out := model.ProcessedEvent{
		Timestamp:   ev.Timestamp,
		Team:        model.Team(ev.KillerTeamID),
		MonsterType: ev.MonsterType,
	}
	switch ev.MonsterType {
	case "BARON_NASHOR":
		out.Type = model.EventBaron
		out.GoldValue = baronGold
	case "RIFTHERALD":
		out.Type = model.EventHerald
		out.GoldValue = heraldGold
	case "HORDE":
		out.Type = model.EventGrubs
		out.GoldValue = grubsGold
	case "DRAGON":
		out.Type = model.EventDragon
		out.GoldValue = dragonGold
		if ev.MonsterSubType == "ELDER_DRAGON" {
			out.GoldValue += elderBonusGold
		}
		out.MonsterType = ev.MonsterSubType
	default:
		return
	}
	p.out = append(p.out, out)
}

func (p *eventPass) processBuildingKill(ev riot.TimelineEvent) {
	// The raw event records the team that LOST the building.
	advantaged := model.Team(ev.TeamID).Opposite()

	switch ev.BuildingType {
	case "TOWER_BUILDING":
		gold := otherTowerGold
		switch ev.TowerType {
		case "OUTER_TURRET":
			gold = outerTowerGold
		case "INNER_TURRET":
			gold = innerTowerGold
		}
		p.out = append(p.out, model.ProcessedEvent{
			Type:         model.EventTower,
			Timestamp:    ev.Timestamp,
			Team:         advantaged,
			BuildingType: ev.TowerType,
			GoldValue:    gold,
		})
	case "INHIBITOR_BUILDING":
		p.out = append(p.out, model.ProcessedEvent{
			Type:      model.EventInhibitor,
			Timestamp: ev.Timestamp,
			Team:      advantaged,
			GoldValue: inhibitorGold,
		})
	}
}

func killGold(ev riot.TimelineEvent) int {
	gold := ev.Bounty + ev.ShutdownBounty
	if gold == 0 {
		gold = defaultKillGold
	}
	return gold
}

func pruneTimes(times []int64, cutoff int64) []int64 {
	kept := times[:0]
	for _, t := range times {
		if t >= cutoff {
			kept = append(kept, t)
		}
	}
	return kept
}

// clusterTeamfights groups the kill stream into fights: a kill more than 30s
// after the current cluster's anchor starts a new cluster, and only clusters
// with 3+ total kills are kept.
func clusterTeamfights(events []model.ProcessedEvent) []model.Teamfight {
	var fights []model.Teamfight
	var current *model.Teamfight
	var anchor int64

	flush := func() {
		if current != nil && current.TotalKills() >= teamfightMinKills {
			fights = append(fights, *current)
		}
		current = nil
	}

	for i := range events {
		e := &events[i]
		kills := 0
		switch e.Type {
		case model.EventKill:
			kills = 1
		case model.EventMultiKill:
			kills = e.KillCount
		default:
			continue
		}

		if current == nil || e.Timestamp-anchor > teamfightGapMs {
			flush()
			anchor = e.Timestamp
			current = &model.Teamfight{StartTimestamp: e.Timestamp, EndTimestamp: e.Timestamp}
		}
		current.EndTimestamp = e.Timestamp
		if e.Team == model.TeamBlue {
			current.BlueKills += kills
		} else {
			current.RedKills += kills
		}
	}
	flush()
	return fights
}
