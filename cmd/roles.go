package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laneiq/lolmetrics/internal/model"
	"github.com/laneiq/lolmetrics/internal/report"
	"github.com/laneiq/lolmetrics/internal/riot"
	"github.com/laneiq/lolmetrics/internal/roles"
)

var (
	rolesPlayer string
	rolesFeed   string
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Assign lane roles to a live game's players",
	Long: `Looks up the player's active game via the spectator API and assigns a
role to each champion on both teams: summoner spells pin the jungler and
flag likely supports, then historical play rates decide the rest.`,
	RunE: runRoles,
}

func init() {
	rolesCmd.Flags().StringVar(&rolesPlayer, "player", "", "Riot ID (name#tag) or PUUID (required)")
	rolesCmd.Flags().StringVar(&rolesFeed, "feed", "", "reference play-rate feed URL (optional)")
	_ = rolesCmd.MarkFlagRequired("player")
}

func runRoles(cmd *cobra.Command, args []string) error {
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

	puuid, err := resolvePUUID(ctx, client, rolesPlayer)
	if err != nil {
		return err
	}

	game, err := client.ActiveGame(ctx, puuid)
	if err != nil {
		if errors.Is(err, riot.ErrNotFound) {
			return fmt.Errorf("%s is not in a game right now", rolesPlayer)
		}
		return fmt.Errorf("fetch active game: %w", err)
	}

	var feed *roles.ReferenceFeed
	if rolesFeed != "" {
		feed = roles.NewReferenceFeed(rolesFeed)
	}
	engine := roles.NewEngine(roles.NewLayeredProvider(db, feed, nil))

	fmt.Fprintf(os.Stdout, "Game %d (%s, %dm in)\n\n", game.GameID, game.GameMode, game.GameLength/60)

	for _, team := range []model.Team{model.TeamBlue, model.TeamRed} {
		players := make([]roles.Player, 0, 5)
		champions := make(map[int]int)
		for _, p := range game.Participants {
			if model.Team(p.TeamID) != team {
				continue
			}
			idx := len(players)
			players = append(players, roles.Player{
				ChampionID: p.ChampionID,
				SpellA:     p.Spell1ID,
				SpellB:     p.Spell2ID,
				Index:      idx,
			})
			champions[idx] = p.ChampionID
		}

		assigned, err := engine.Assign(ctx, players)
		if err != nil {
			return fmt.Errorf("assign %s team: %w", team, err)
		}
		report.PrintRoleAssignments(os.Stdout, team, champions, assigned)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
