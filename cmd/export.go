package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laneiq/lolmetrics/internal/aggregator"
	"github.com/laneiq/lolmetrics/internal/model"
)

var (
	exportPlayer string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored matches and analysis as JSON",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportPlayer, "player", "", "restrict to one PUUID")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (defaults to stdout)")
}

// exportDoc is the top-level JSON export shape.
type exportDoc struct {
	Matches   []model.MatchRecord      `json:"matches"`
	LaneStats []model.LaneStats        `json:"lane_stats,omitempty"`
	Analysis  *model.AggregateAnalysis `json:"analysis,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	doc := exportDoc{}
	doc.Matches, err = listMatchesFor(db, exportPlayer)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	if exportPlayer != "" {
		doc.LaneStats, err = db.GetLaneStats(exportPlayer)
		if err != nil {
			return fmt.Errorf("query lane stats: %w", err)
		}
		if len(doc.LaneStats) > 0 {
			role, err := db.PrimaryRole(exportPlayer)
			if err != nil {
				return fmt.Errorf("resolve primary role: %w", err)
			}
			agg := aggregator.Aggregate(doc.LaneStats, role)
			doc.Analysis = &agg
		}
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d matches to %s\n", len(doc.Matches), exportOut)
	}
	return nil
}
