// Package report renders analysis results as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/laneiq/lolmetrics/internal/model"
)

var (
	cBlue   = color.New(color.FgBlue, color.Bold)
	cRed    = color.New(color.FgRed, color.Bold)
	cHeader = color.New(color.FgCyan, color.Bold)
	cMuted  = color.New(color.Faint)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchTable lists stored matches.
func PrintMatchTable(w io.Writer, matches []model.MatchRecord) {
	table := newTable(w)
	table.Header("MATCH", "QUEUE", "CHAMPION", "ROLE", "W/L", "K/D/A", "KDA", "GOLD", "CS", "VISION", "MIN")

	for i := range matches {
		m := &matches[i]
		wl := "L"
		if m.Win {
			wl = "W"
		}
		table.Append(
			m.MatchID,
			fmt.Sprintf("%d", m.QueueID),
			m.ChampionName,
			string(m.Role),
			wl,
			fmt.Sprintf("%d/%d/%d", m.Kills, m.Deaths, m.Assists),
			fmt.Sprintf("%.2f", m.KDA()),
			fmt.Sprintf("%d", m.GoldEarned),
			fmt.Sprintf("%d", m.CS),
			fmt.Sprintf("%d", m.VisionScore),
			fmt.Sprintf("%.0f", m.DurationMinutes()),
		)
	}
	table.Render()
}

// PrintLaneStats prints one game's lane analysis.
func PrintLaneStats(w io.Writer, s *model.LaneStats) {
	outcome := "LOSS"
	if s.Win {
		outcome = "WIN"
	}
	cHeader.Fprintf(w, "\n%s — participant %d vs %d — %s (%.0f min)\n\n",
		s.MatchID, s.ParticipantID, s.OpponentID, outcome, s.DurationMin)

	table := newTable(w)
	table.Header("CHECKPOINT", "GOLD", "GOLD DIFF", "LEVEL DIFF")
	table.Append("10:00", fmtIntPtr(s.GoldAt10), fmtSignedPtr(s.GoldDiffAt10), fmtSignedPtr(s.LevelDiffAt10))
	table.Append("15:00", fmtIntPtr(s.GoldAt15), fmtSignedPtr(s.GoldDiffAt15), "—")
	table.Append("20:00", fmtIntPtr(s.GoldAt20), fmtSignedPtr(s.GoldDiffAt20), "—")
	table.Render()

	fmt.Fprintf(w, "\nMax lead   : %d gold (min %d)\n", s.MaxLead, s.MaxLeadMinute)
	fmt.Fprintf(w, "Max deficit: %d gold (min %d)\n", s.MaxDeficit, s.MaxDeficitMinute)
	if s.ThrowMinute != nil {
		cRed.Fprintf(w, "Throw at minute %d (lead %d lost)\n", *s.ThrowMinute, s.MaxLead)
	}
	if s.ComebackMinute != nil {
		cBlue.Fprintf(w, "Comeback at minute %d (deficit %d recovered)\n", *s.ComebackMinute, s.MaxDeficit)
	}
	fmt.Fprintf(w, "Item spikes: %s / %s / %s (minutes)\n",
		fmtFloatPtr(s.FirstItemMinute), fmtFloatPtr(s.SecondItemMinute), fmtFloatPtr(s.ThirdItemMinute))
	if s.WorstSwing != nil {
		fmt.Fprintf(w, "Worst window: min %d–%d, %d gold short (%s)\n",
			s.WorstSwing.StartMinute, s.WorstSwing.EndMinute, s.WorstSwing.Severity, s.WorstSwing.Kind)
	}
	fmt.Fprintf(w, "Gold sources: ~%d from CS, ~%d from kills/objectives\n", s.CSGold, s.KillGold)
}

// PrintAggregate prints the cross-game analysis tables.
func PrintAggregate(w io.Writer, agg *model.AggregateAnalysis) {
	cHeader.Fprintf(w, "\n=== Cross-game analysis — %d games as %s ===\n\n", agg.Games, agg.Role)
	if agg.Games == 0 {
		cMuted.Fprintln(w, "no analyzed games")
		return
	}

	table := newTable(w)
	table.Header("CHECKPOINT", "GAMES", "AVG GOLD DIFF", "LEAD RATE")
	table.Append("10:00", fmt.Sprintf("%d", agg.GamesAt10), fmtSigned(agg.AvgGoldDiffAt10), fmtPct(agg.LeadRateAt10))
	table.Append("15:00", fmt.Sprintf("%d", agg.GamesAt15), fmtSigned(agg.AvgGoldDiffAt15), fmtPct(agg.LeadRateAt15))
	table.Append("20:00", fmt.Sprintf("%d", agg.GamesAt20), fmtSigned(agg.AvgGoldDiffAt20), fmtPct(agg.LeadRateAt20))
	table.Render()

	fmt.Fprintf(w, "\nLead conversion (ahead at 15 → win): %s\n", fmtPct(agg.LeadConversionRate))
	fmt.Fprintf(w, "Avg max lead %.0f / avg max deficit %.0f\n", agg.AvgMaxLead, agg.AvgMaxDeficit)
	fmt.Fprintf(w, "Throws: %d (%s)   Comebacks: %d (%s)\n",
		agg.ThrowCount, fmtPct(agg.ThrowRate), agg.ComebackCount, fmtPct(agg.ComebackRate))
	if agg.BiggestThrow != nil {
		cRed.Fprintf(w, "Biggest throw   : %s — %d gold lead lost at minute %d\n",
			agg.BiggestThrow.MatchID, agg.BiggestThrow.Amount, agg.BiggestThrow.Minute)
	}
	if agg.BestComeback != nil {
		cBlue.Fprintf(w, "Best comeback   : %s — %d gold deficit recovered at minute %d\n",
			agg.BestComeback.MatchID, agg.BestComeback.Amount, agg.BestComeback.Minute)
	}

	fmt.Fprintln(w)
	spike := newTable(w)
	spike.Header("ITEM", "AVG MINUTE", "VS BENCHMARK")
	spike.Append("1st", fmtMinute(agg.AvgFirstItemMinute), fmtDelta(agg.FirstItemDelta))
	spike.Append("2nd", fmtMinute(agg.AvgSecondItemMinute), fmtDelta(agg.SecondItemDelta))
	spike.Append("3rd", fmtMinute(agg.AvgThirdItemMinute), fmtDelta(agg.ThirdItemDelta))
	spike.Render()

	fmt.Fprintf(w, "\nFast first spike: %d games, %s win rate   Slow: %d games, %s win rate\n",
		agg.FastSpikeGames, fmtPct(agg.FastSpikeWinRate), agg.SlowSpikeGames, fmtPct(agg.SlowSpikeWinRate))

	if len(agg.WorstSwings) > 0 {
		fmt.Fprintln(w)
		cHeader.Fprintln(w, "Worst income windows:")
		swing := newTable(w)
		swing.Header("MATCH", "WINDOW", "GOLD SHORT", "KIND")
		for _, sw := range agg.WorstSwings {
			swing.Append(sw.MatchID, fmt.Sprintf("%d–%d", sw.StartMinute, sw.EndMinute),
				fmt.Sprintf("%d", sw.Severity), string(sw.Kind))
		}
		swing.Render()
	}
}

// PrintEventLog prints the processed event stream.
func PrintEventLog(w io.Writer, events []model.ProcessedEvent) {
	table := newTable(w)
	table.Header("TIME", "TEAM", "EVENT", "DETAIL", "GOLD")

	for i := range events {
		e := &events[i]
		detail := ""
		switch e.Type {
		case model.EventKill:
			detail = fmt.Sprintf("p%d killed p%d (%d assists)", e.KillerID, e.VictimID, len(e.AssistIDs))
		case model.EventMultiKill:
			detail = fmt.Sprintf("p%d multi-kill x%d", e.KillerID, e.KillCount)
		case model.EventAce:
			detail = "team ace"
		case model.EventDragon, model.EventBaron, model.EventHerald, model.EventGrubs:
			detail = e.MonsterType
		case model.EventTower:
			detail = e.BuildingType
		}
		table.Append(
			fmt.Sprintf("%02d:%02d", e.Timestamp/60000, (e.Timestamp%60000)/1000),
			e.Team.String(),
			string(e.Type),
			detail,
			fmt.Sprintf("%d", e.GoldValue),
		)
	}
	table.Render()
}

// PrintTeamfights prints the detected teamfight clusters.
func PrintTeamfights(w io.Writer, fights []model.Teamfight) {
	if len(fights) == 0 {
		cMuted.Fprintln(w, "no teamfights detected")
		return
	}
	table := newTable(w)
	table.Header("START", "END", "BLUE", "RED", "WINNER")
	for i := range fights {
		f := &fights[i]
		winner := "even"
		if t := f.Winner(); t != 0 {
			winner = t.String()
		}
		table.Append(
			fmt.Sprintf("%02d:%02d", f.StartTimestamp/60000, (f.StartTimestamp%60000)/1000),
			fmt.Sprintf("%02d:%02d", f.EndTimestamp/60000, (f.EndTimestamp%60000)/1000),
			fmt.Sprintf("%d", f.BlueKills),
			fmt.Sprintf("%d", f.RedKills),
			winner,
		)
	}
	table.Render()
}

// PrintRoleAssignments prints a team's role mapping in role order.
func PrintRoleAssignments(w io.Writer, team model.Team, champions map[int]int, assigned map[int]model.Role) {
	if team == model.TeamBlue {
		cBlue.Fprintf(w, "\n%s team\n", team)
	} else {
		cRed.Fprintf(w, "\n%s team\n", team)
	}

	type row struct {
		index int
		role  model.Role
	}
	rows := make([]row, 0, len(assigned))
	for idx, role := range assigned {
		rows = append(rows, row{index: idx, role: role})
	}
	sort.Slice(rows, func(i, j int) bool {
		return roleOrder(rows[i].role) < roleOrder(rows[j].role)
	})

	table := newTable(w)
	table.Header("ROLE", "SLOT", "CHAMPION ID")
	for _, r := range rows {
		table.Append(string(r.role), fmt.Sprintf("%d", r.index), fmt.Sprintf("%d", champions[r.index]))
	}
	table.Render()
}

func roleOrder(r model.Role) int {
	for i, x := range model.AllRoles {
		if x == r {
			return i
		}
	}
	return len(model.AllRoles)
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%d", *v)
}

func fmtSignedPtr(v *int) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%+d", *v)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f", *v)
}

func fmtSigned(v float64) string { return fmt.Sprintf("%+.0f", v) }
func fmtPct(v float64) string    { return fmt.Sprintf("%.0f%%", v) }

func fmtMinute(v float64) string {
	if v == 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f", v)
}

func fmtDelta(v float64) string {
	if v == 0 {
		return "—"
	}
	return fmt.Sprintf("%+.1f min", v)
}
