package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laneiq/lolmetrics/internal/aggregator"
	"github.com/laneiq/lolmetrics/internal/model"
	"github.com/laneiq/lolmetrics/internal/report"
)

var analyzeRole string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <puuid>",
	Short: "Aggregate lane performance across stored games",
	Long: `Rolls a player's stored lane stats into a cross-game analysis:
average gold leads at the 10/15/20 minute checkpoints, throw and comeback
rates, item power-spike timing against the role benchmark, and the worst
gold-swing windows.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRole, "role", "", "override the benchmark role (TOP/JUNGLE/MIDDLE/BOTTOM/UTILITY)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	puuid := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.GetLaneStats(puuid)
	if err != nil {
		return fmt.Errorf("query lane stats: %w", err)
	}
	if len(stats) == 0 {
		return fmt.Errorf("no stored games for %s, run fetch first", puuid)
	}

	var role model.Role
	if analyzeRole != "" {
		role = model.ParseRole(analyzeRole)
	} else {
		role, err = db.PrimaryRole(puuid)
		if err != nil {
			return fmt.Errorf("resolve primary role: %w", err)
		}
	}

	agg := aggregator.Aggregate(stats, role)
	report.PrintAggregate(os.Stdout, &agg)
	return nil
}
