package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laneiq/lolmetrics/internal/model"
	"github.com/laneiq/lolmetrics/internal/riot"
	"github.com/laneiq/lolmetrics/internal/storage"
	"github.com/laneiq/lolmetrics/internal/timeline"
)

// fetch command flags.
var (
	// fetchPlayer is a Riot ID ("name#tag") or a raw PUUID.
	fetchPlayer string
	// fetchCount is the number of recent matches to ingest.
	fetchCount int
	// fetchQueue restricts ingestion to one queue (420 = ranked solo).
	fetchQueue int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and ingest recent matches for a player",
	Long: `Fetches a player's recent matches and timelines from the Riot API,
stores them locally, and runs the lane analyzer on each game.

Examples:
  # Last 10 ranked solo games
  lolmetrics fetch --player "name#tag" --count 10

  # All queues
  lolmetrics fetch --player "name#tag" --queue 0`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchPlayer, "player", "", "Riot ID (name#tag) or PUUID (required)")
	fetchCmd.Flags().IntVar(&fetchCount, "count", 10, "number of matches to ingest")
	fetchCmd.Flags().IntVar(&fetchQueue, "queue", 420, "queue id filter (0 = all queues)")
	_ = fetchCmd.MarkFlagRequired("player")
}

// resolvePUUID turns a "name#tag" Riot ID into a PUUID, passing raw PUUIDs
// through unchanged.
func resolvePUUID(ctx context.Context, client *riot.Client, player string) (string, error) {
	if !strings.Contains(player, "#") {
		return player, nil
	}
	parts := strings.SplitN(player, "#", 2)
	acct, err := client.AccountByRiotID(ctx, parts[0], parts[1])
	if err != nil {
		return "", fmt.Errorf("resolve riot id %q: %w", player, err)
	}
	return acct.PUUID, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := riot.NewClient()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	puuid, err := resolvePUUID(ctx, client, fetchPlayer)
	if err != nil {
		return err
	}

	ids, err := client.MatchIDs(ctx, puuid, fetchCount, fetchQueue)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Found %d matches for %s\n", len(ids), fetchPlayer)

	stored := 0
	for _, id := range ids {
		exists, err := db.MatchExists(id, puuid)
		if err != nil {
			return fmt.Errorf("check match %s: %w", id, err)
		}
		if exists {
			fmt.Fprintf(os.Stdout, "  %s already stored, skipping\n", id)
			continue
		}

		if err := ingestMatch(ctx, client, db, id, puuid); err != nil {
			// One bad game degrades that game only, not the batch.
			fmt.Fprintf(os.Stderr, "  %s: %v\n", id, err)
			continue
		}
		fmt.Fprintf(os.Stdout, "  %s stored\n", id)
		stored++
	}

	fmt.Fprintf(os.Stdout, "Done: %d new matches ingested.\n", stored)
	return nil
}

// ingestMatch fetches one match + timeline, stores both, updates the local
// champion-role aggregation, and runs the lane analyzer.
func ingestMatch(ctx context.Context, client *riot.Client, db *storage.DB, matchID, puuid string) error {
	match, err := client.Match(ctx, matchID)
	if err != nil {
		return fmt.Errorf("fetch match: %w", err)
	}

	var me *riot.MatchParticipant
	for i := range match.Info.Participants {
		p := &match.Info.Participants[i]
		if p.PUUID == puuid {
			me = p
		}
		if p.TeamPosition != "" {
			if err := db.IncrementChampionRole(p.ChampionID, model.Role(p.TeamPosition)); err != nil {
				return fmt.Errorf("bump champion roles: %w", err)
			}
		}
	}
	if me == nil {
		return fmt.Errorf("player not in match")
	}

	record := model.MatchRecord{
		MatchID:      matchID,
		PUUID:        puuid,
		QueueID:      match.Info.QueueID,
		GameCreation: match.Info.GameCreation,
		GameDuration: match.Info.GameDuration,
		ChampionID:   me.ChampionID,
		ChampionName: me.ChampionName,
		Role:         model.Role(me.TeamPosition),
		Win:          me.Win,
		Kills:        me.Kills,
		Deaths:       me.Deaths,
		Assists:      me.Assists,
		GoldEarned:   me.GoldEarned,
		CS:           me.CS(),
		VisionScore:  me.VisionScore,
		DamageDealt:  me.TotalDamageDealtToChampions,
	}
	if err := db.InsertMatch(record); err != nil {
		return fmt.Errorf("store match: %w", err)
	}

	tl, err := client.Timeline(ctx, matchID)
	if err != nil {
		return fmt.Errorf("fetch timeline: %w", err)
	}
	payload, err := json.Marshal(tl)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	if err := db.InsertTimeline(matchID, tl.Info.FrameInterval, payload); err != nil {
		return fmt.Errorf("store timeline: %w", err)
	}

	opponentID := laneOpponent(match, me)
	stats := timeline.AnalyzeFrames(tl.Info.Frames, me.ParticipantID, opponentID, me.Win, float64(match.Info.GameDuration)/60.0)
	stats.MatchID = matchID
	stats.PUUID = puuid
	if stats.WorstSwing != nil {
		stats.WorstSwing.MatchID = matchID
	}
	if err := db.InsertLaneStats(stats); err != nil {
		return fmt.Errorf("store lane stats: %w", err)
	}
	return nil
}

// laneOpponent finds the enemy participant in the mirrored position. Returns
// 0 when the roster has no mirror (the analyzer tolerates a missing
// opponent).
func laneOpponent(match *riot.MatchResponse, me *riot.MatchParticipant) int {
	for i := range match.Info.Participants {
		p := &match.Info.Participants[i]
		if p.TeamID != me.TeamID && p.TeamPosition != "" && p.TeamPosition == me.TeamPosition {
			return p.ParticipantID
		}
	}
	return 0
}
