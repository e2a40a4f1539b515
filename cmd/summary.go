package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a database-wide overview",
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("query overview: %w", err)
	}

	header := color.New(color.FgCyan, color.Bold)
	header.Fprintln(os.Stdout, "Database overview")
	fmt.Fprintf(os.Stdout, "  Matches:      %d (%d players)\n", ov.TotalMatches, ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  Timelines:    %d\n", ov.Timelines)
	fmt.Fprintf(os.Stdout, "  Lane stats:   %d\n", ov.LaneStats)
	fmt.Fprintf(os.Stdout, "  Win rate:     %.0f%%\n", ov.WinRate)
	if ov.TotalMatches > 0 {
		from := time.UnixMilli(ov.EarliestGame).Format("2006-01-02")
		to := time.UnixMilli(ov.LatestGame).Format("2006-01-02")
		fmt.Fprintf(os.Stdout, "  Range:        %s to %s\n", from, to)
	}
	return nil
}
