package timeline

import (
	"math"
	"strconv"

	"github.com/laneiq/lolmetrics/internal/model"
	"github.com/laneiq/lolmetrics/internal/riot"
)

const (
	// throwThresholdGold is the lead/deficit that makes a lost/won game a
	// throw/comeback candidate.
	throwThresholdGold = 2000

	// Item power-spike gold thresholds. Proxies for completing a first,
	// second and third major item; kept deliberately heuristic because the
	// source format does not guarantee purchase events.
	firstItemGold  = 3000
	secondItemGold = 6000
	thirdItemGold  = 9500

	// Expected gold income per 5-minute window; a window below half of it is
	// flagged as a swing.
	swingWindowMinutes = 5
	expectedWindowGold = 2000
	swingCSDeltaCutoff = 20
	csGoldPerMinion    = 20
	passiveGoldPerMin  = 100
)

// AnalyzeFrames condenses one match's ordered frames for one participant
// against a designated lane opponent into a LaneStats record. The scan is
// linear; missing frames or a missing opponent degrade individual fields to
// nil rather than aborting.
func AnalyzeFrames(frames []riot.TimelineFrame, participantID, opponentID int, win bool, durationMin float64) model.LaneStats {
	stats := model.LaneStats{
		ParticipantID: participantID,
		OpponentID:    opponentID,
		Win:           win,
		DurationMin:   durationMin,
	}
	if len(frames) == 0 {
		return stats
	}

	type diffPoint struct {
		minute int
		diff   int
	}
	var diffs []diffPoint

	var lastFinal *riot.ParticipantFrame
	windowStartGold, windowStartCS := 0, 0
	lastWindowMinute := 0

	for i := range frames {
		frame := &frames[i]
		pf, ok := frame.ParticipantFrames[strconv.Itoa(participantID)]
		if !ok {
			continue
		}
		lastFinal = &pf
		minute := int(math.Round(float64(frame.Timestamp) / 60000.0))
		fracMinute := float64(frame.Timestamp) / 60000.0

		// Item power spikes.
		captureSpike(&stats.FirstItemMinute, pf.TotalGold, firstItemGold, fracMinute)
		captureSpike(&stats.SecondItemMinute, pf.TotalGold, secondItemGold, fracMinute)
		captureSpike(&stats.ThirdItemMinute, pf.TotalGold, thirdItemGold, fracMinute)

		// Gold-swing windows every 5 in-game minutes.
		if minute >= lastWindowMinute+swingWindowMinutes {
			gained := pf.TotalGold - windowStartGold
			csDelta := pf.CS() - windowStartCS
			if gained < expectedWindowGold/2 {
				swing := model.GoldSwing{
					StartMinute: lastWindowMinute,
					EndMinute:   minute,
					Severity:    expectedWindowGold - gained,
					Kind:        model.SwingMixed,
				}
				if csDelta < swingCSDeltaCutoff {
					swing.Kind = model.SwingCSDeficit
				}
				if stats.WorstSwing == nil || swing.Severity > stats.WorstSwing.Severity {
					stats.WorstSwing = &swing
				}
			}
			windowStartGold, windowStartCS = pf.TotalGold, pf.CS()
			lastWindowMinute = minute
		}

		// Everything below needs the lane opponent.
		of, ok := frame.ParticipantFrames[strconv.Itoa(opponentID)]
		if !ok {
			continue
		}
		diff := pf.TotalGold - of.TotalGold
		diffs = append(diffs, diffPoint{minute: minute, diff: diff})

		switch minute {
		case 10:
			if stats.GoldAt10 == nil {
				stats.GoldAt10 = intPtr(pf.TotalGold)
				stats.GoldDiffAt10 = intPtr(diff)
				stats.LevelAt10 = intPtr(pf.Level)
				stats.LevelDiffAt10 = intPtr(pf.Level - of.Level)
			}
		case 15:
			if stats.GoldAt15 == nil {
				stats.GoldAt15 = intPtr(pf.TotalGold)
				stats.GoldDiffAt15 = intPtr(diff)
			}
		case 20:
			if stats.GoldAt20 == nil {
				stats.GoldAt20 = intPtr(pf.TotalGold)
				stats.GoldDiffAt20 = intPtr(diff)
			}
		}

		if diff > stats.MaxLead {
			stats.MaxLead = diff
			stats.MaxLeadMinute = minute
		}
		if -diff > stats.MaxDeficit {
			stats.MaxDeficit = -diff
			stats.MaxDeficitMinute = minute
		}
	}

	// Throw: held a big lead, lost anyway. The throw minute is the first
	// point after the peak where the lead was gone.
	if stats.MaxLead >= throwThresholdGold && !win {
		minute := stats.MaxLeadMinute
		for _, d := range diffs {
			if d.minute > stats.MaxLeadMinute && d.diff <= 0 {
				minute = d.minute
				break
			}
		}
		stats.ThrowMinute = intPtr(minute)
	}

	// Comeback: symmetric.
	if stats.MaxDeficit >= throwThresholdGold && win {
		minute := stats.MaxDeficitMinute
		for _, d := range diffs {
			if d.minute > stats.MaxDeficitMinute && d.diff >= 0 {
				minute = d.minute
				break
			}
		}
		stats.ComebackMinute = intPtr(minute)
	}

	// Gold-source estimates from the final frame.
	if lastFinal != nil {
		stats.CSGold = lastFinal.CS() * csGoldPerMinion
		kill := lastFinal.TotalGold - stats.CSGold - int(durationMin*passiveGoldPerMin)
		if kill < 0 {
			kill = 0
		}
		stats.KillGold = kill
	}

	return stats
}

func captureSpike(slot **float64, gold, threshold int, minute float64) {
	if *slot == nil && gold >= threshold {
		m := minute
		*slot = &m
	}
}

func intPtr(v int) *int { return &v }
