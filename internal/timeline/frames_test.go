package timeline

import (
	"testing"

	"github.com/laneiq/lolmetrics/internal/model"
	"github.com/laneiq/lolmetrics/internal/riot"
)

// laneFrame builds a frame at the given minute holding both laners' state.
func laneFrame(minute int, myGold, oppGold, myLevel, oppLevel, myCS int) riot.TimelineFrame {
	return riot.TimelineFrame{
		Timestamp: int64(minute) * 60000,
		ParticipantFrames: map[string]riot.ParticipantFrame{
			"1": {ParticipantID: 1, TotalGold: myGold, Level: myLevel, MinionsKilled: myCS},
			"2": {ParticipantID: 2, TotalGold: oppGold, Level: oppLevel, MinionsKilled: minute * 7},
		},
	}
}

// steadyGame produces one frame per minute with a constant gold rate for
// both laners.
func steadyGame(minutes, myRate, oppRate int) []riot.TimelineFrame {
	frames := make([]riot.TimelineFrame, 0, minutes+1)
	for m := 0; m <= minutes; m++ {
		frames = append(frames, laneFrame(m, m*myRate, m*oppRate, 1+m/2, 1+m/2, m*8))
	}
	return frames
}

func TestCheckpointCapture(t *testing.T) {
	stats := AnalyzeFrames(steadyGame(25, 400, 350), 1, 2, true, 25)

	if stats.GoldAt10 == nil || *stats.GoldAt10 != 4000 {
		t.Fatalf("GoldAt10 = %v, want 4000", stats.GoldAt10)
	}
	if *stats.GoldDiffAt10 != 500 {
		t.Errorf("GoldDiffAt10 = %d, want 500", *stats.GoldDiffAt10)
	}
	if *stats.GoldDiffAt15 != 750 {
		t.Errorf("GoldDiffAt15 = %d, want 750", *stats.GoldDiffAt15)
	}
	if *stats.GoldDiffAt20 != 1000 {
		t.Errorf("GoldDiffAt20 = %d, want 1000", *stats.GoldDiffAt20)
	}
	if *stats.LevelDiffAt10 != 0 {
		t.Errorf("LevelDiffAt10 = %d, want 0", *stats.LevelDiffAt10)
	}
}

func TestShortGameLeavesLateCheckpointsNil(t *testing.T) {
	stats := AnalyzeFrames(steadyGame(12, 400, 350), 1, 2, true, 12)

	if stats.GoldAt10 == nil {
		t.Error("GoldAt10 should be set in a 12 minute game")
	}
	if stats.GoldAt15 != nil || stats.GoldAt20 != nil {
		t.Error("15/20 minute checkpoints should be nil in a 12 minute game")
	}
}

func TestLeadOnlyGameHasNoDeficit(t *testing.T) {
	stats := AnalyzeFrames(steadyGame(20, 450, 350), 1, 2, true, 20)

	if stats.MaxDeficit != 0 {
		t.Errorf("MaxDeficit = %d, want 0 for a lead-only game", stats.MaxDeficit)
	}
	if stats.MaxLead != 2000 {
		t.Errorf("MaxLead = %d, want 2000", stats.MaxLead)
	}
	if stats.MaxLeadMinute != 20 {
		t.Errorf("MaxLeadMinute = %d, want 20", stats.MaxLeadMinute)
	}
}

func TestThrowDetection(t *testing.T) {
	// Lead peaks at 2500 on minute 12, gone by minute 18, game lost.
	frames := []riot.TimelineFrame{}
	for m := 0; m <= 25; m++ {
		diff := 0
		switch {
		case m >= 8 && m < 12:
			diff = 2000
		case m == 12:
			diff = 2500
		case m > 12 && m < 18:
			diff = 800
		case m >= 18:
			diff = -400
		}
		frames = append(frames, laneFrame(m, 5000+m*300+diff, 5000+m*300, 10, 10, m*8))
	}

	stats := AnalyzeFrames(frames, 1, 2, false, 25)
	if !stats.HasThrow() {
		t.Fatal("expected a throw")
	}
	if *stats.ThrowMinute != 18 {
		t.Errorf("ThrowMinute = %d, want 18", *stats.ThrowMinute)
	}
	if stats.MaxLead != 2500 || stats.MaxLeadMinute != 12 {
		t.Errorf("peak = %d@%d, want 2500@12", stats.MaxLead, stats.MaxLeadMinute)
	}
	if stats.HasComeback() {
		t.Error("a lost game cannot be a comeback")
	}
}

func TestThrowRequiresLoss(t *testing.T) {
	frames := steadyGame(25, 500, 350) // lead passes 2000 easily
	stats := AnalyzeFrames(frames, 1, 2, true, 25)
	if stats.HasThrow() {
		t.Error("a won game is never a throw")
	}
}

func TestComebackDetection(t *testing.T) {
	// Deficit peaks at 2200 on minute 14, erased by minute 22, game won.
	frames := []riot.TimelineFrame{}
	for m := 0; m <= 25; m++ {
		diff := 0
		switch {
		case m >= 10 && m < 14:
			diff = -1800
		case m == 14:
			diff = -2200
		case m > 14 && m < 22:
			diff = -900
		case m >= 22:
			diff = 300
		}
		frames = append(frames, laneFrame(m, 5000+m*300+diff, 5000+m*300, 10, 10, m*8))
	}

	stats := AnalyzeFrames(frames, 1, 2, true, 25)
	if !stats.HasComeback() {
		t.Fatal("expected a comeback")
	}
	if *stats.ComebackMinute != 22 {
		t.Errorf("ComebackMinute = %d, want 22", *stats.ComebackMinute)
	}
	if stats.MaxDeficit != 2200 || stats.MaxDeficitMinute != 14 {
		t.Errorf("trough = %d@%d, want 2200@14", stats.MaxDeficit, stats.MaxDeficitMinute)
	}
}

func TestItemSpikeMinutes(t *testing.T) {
	stats := AnalyzeFrames(steadyGame(30, 400, 350), 1, 2, true, 30)

	// 400 gold/min: 3000 at 7.5 rounds up to the minute-8 frame, 6000 at 15,
	// 9500 at the minute-24 frame.
	if stats.FirstItemMinute == nil || *stats.FirstItemMinute != 8 {
		t.Fatalf("FirstItemMinute = %v, want 8", stats.FirstItemMinute)
	}
	if *stats.SecondItemMinute != 15 {
		t.Errorf("SecondItemMinute = %v, want 15", *stats.SecondItemMinute)
	}
	if *stats.ThirdItemMinute != 24 {
		t.Errorf("ThirdItemMinute = %v, want 24", *stats.ThirdItemMinute)
	}
}

func TestSpikesUnreachedStayNil(t *testing.T) {
	stats := AnalyzeFrames(steadyGame(10, 250, 250), 1, 2, false, 10)
	if stats.SecondItemMinute != nil || stats.ThirdItemMinute != nil {
		t.Error("unreached spike thresholds must stay nil")
	}
}

func TestGoldSwingWindow(t *testing.T) {
	// Normal income to minute 5, then a starved window earning 500.
	frames := []riot.TimelineFrame{
		laneFrame(0, 500, 500, 1, 1, 0),
		laneFrame(5, 2500, 2500, 4, 4, 40),
		laneFrame(10, 3000, 4500, 6, 8, 45),
	}

	stats := AnalyzeFrames(frames, 1, 2, false, 10)
	if stats.WorstSwing == nil {
		t.Fatal("expected a gold swing")
	}
	sw := stats.WorstSwing
	if sw.StartMinute != 5 || sw.EndMinute != 10 {
		t.Errorf("swing window = %d-%d, want 5-10", sw.StartMinute, sw.EndMinute)
	}
	if sw.Severity != 1500 {
		t.Errorf("severity = %d, want 1500", sw.Severity)
	}
	if sw.Kind != model.SwingCSDeficit {
		t.Errorf("kind = %s, want cs_deficit", sw.Kind)
	}
}

func TestHealthyIncomeHasNoSwing(t *testing.T) {
	stats := AnalyzeFrames(steadyGame(20, 400, 400), 1, 2, true, 20)
	if stats.WorstSwing != nil {
		t.Errorf("unexpected swing: %+v", stats.WorstSwing)
	}
}

func TestGoldSourceEstimates(t *testing.T) {
	frames := []riot.TimelineFrame{
		laneFrame(0, 500, 500, 1, 1, 0),
		laneFrame(25, 10000, 9000, 14, 13, 200),
	}

	stats := AnalyzeFrames(frames, 1, 2, true, 25)
	if stats.CSGold != 4000 {
		t.Errorf("CSGold = %d, want 4000", stats.CSGold)
	}
	// 10000 total - 4000 CS - 2500 passive.
	if stats.KillGold != 3500 {
		t.Errorf("KillGold = %d, want 3500", stats.KillGold)
	}
}

func TestMissingOpponentDegrades(t *testing.T) {
	frames := steadyGame(20, 400, 350)
	stats := AnalyzeFrames(frames, 1, 99, true, 20)

	if stats.GoldDiffAt10 != nil {
		t.Error("checkpoint diffs need the opponent frame")
	}
	if stats.FirstItemMinute == nil {
		t.Error("item spikes do not need the opponent frame")
	}
}

func TestEmptyFrames(t *testing.T) {
	stats := AnalyzeFrames(nil, 1, 2, false, 0)
	if stats.GoldAt10 != nil || stats.WorstSwing != nil {
		t.Error("empty input must produce an empty record")
	}
}
