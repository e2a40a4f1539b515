package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laneiq/lolmetrics/internal/report"
	"github.com/laneiq/lolmetrics/internal/riot"
	"github.com/laneiq/lolmetrics/internal/timeline"
)

var timelineFights bool

var timelineCmd = &cobra.Command{
	Use:   "timeline <match-id-prefix>",
	Short: "Print the processed event log for a stored match",
	Long: `Replays a stored timeline through the event processor and prints the
deduplicated event log: kills merged into multi-kills, aces, elite monsters,
and building takedowns with their approximate gold value.`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeline,
}

func init() {
	timelineCmd.Flags().BoolVar(&timelineFights, "fights", false, "also print detected teamfights")
}

func runTimeline(cmd *cobra.Command, args []string) error {
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

	payload, err := db.GetTimeline(match.MatchID)
	if err != nil {
		return fmt.Errorf("load timeline: %w", err)
	}
	if payload == nil {
		return fmt.Errorf("no timeline stored for %s", match.MatchID)
	}

	var tl riot.TimelineResponse
	if err := json.Unmarshal(payload, &tl); err != nil {
		return fmt.Errorf("decode timeline: %w", err)
	}

	events, fights := timeline.ProcessEvents(tl.Info.Frames)

	fmt.Fprintf(os.Stdout, "Match %s: %d events\n\n", match.MatchID, len(events))
	report.PrintEventLog(os.Stdout, events)

	if timelineFights {
		fmt.Fprintln(os.Stdout)
		report.PrintTeamfights(os.Stdout, fights)
	}
	return nil
}
