package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laneiq/lolmetrics/internal/model"
	"github.com/laneiq/lolmetrics/internal/report"
	"github.com/laneiq/lolmetrics/internal/storage"
)

func listMatchesFor(db *storage.DB, puuid string) ([]model.MatchRecord, error) {
	if puuid == "" {
		return db.ListAllMatches()
	}
	return db.ListMatches(puuid)
}

var listPlayer string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listPlayer, "player", "", "restrict to one PUUID")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := listMatchesFor(db, listPlayer)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No stored matches.")
		return nil
	}

	report.PrintMatchTable(os.Stdout, matches)
	return nil
}
