package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/laneiq/lolmetrics/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix>",
	Short: "Show one stored match and its lane analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with prefix %q\n", args[0])
		return nil
	}

	wl := "Defeat"
	if match.Win {
		wl = "Victory"
	}
	when := time.UnixMilli(match.GameCreation).Format("2006-01-02 15:04")
	fmt.Fprintf(os.Stdout, "%s  %s  %s (%s)  %d/%d/%d  %.0fm\n\n",
		match.MatchID, when, match.ChampionName, match.Role,
		match.Kills, match.Deaths, match.Assists, match.DurationMinutes())
	fmt.Fprintf(os.Stdout, "%s, %d gold, %d CS, vision %d, %d damage to champions\n\n",
		wl, match.GoldEarned, match.CS, match.VisionScore, match.DamageDealt)

	stats, err := db.GetLaneStats(match.PUUID)
	if err != nil {
		return fmt.Errorf("query lane stats: %w", err)
	}
	for i := range stats {
		if stats[i].MatchID == match.MatchID {
			report.PrintLaneStats(os.Stdout, &stats[i])
			return nil
		}
	}
	fmt.Fprintln(os.Stdout, "No lane analysis stored for this match.")
	return nil
}
