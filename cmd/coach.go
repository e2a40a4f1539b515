package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/laneiq/lolmetrics/internal/aggregator"
	"github.com/laneiq/lolmetrics/internal/model"
)

const coachSystemPrompt = `You are a League of Legends laning coach. You are given structured data
computed from match timelines and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable — focus on what the player can actually improve.
- Avoid generic League advice unless it directly explains a pattern in the data.

Metrics glossary:
- Gold diff @10/15/20: player gold minus lane opponent gold at that minute.
- Lead rate: % of games ahead of the lane opponent at the checkpoint.
- Lead conversion: of games ahead at 15, the % ultimately won.
- Throw: held a 2000+ gold lead over the lane opponent but lost the game.
- Comeback: trailed by 2000+ gold but won the game.
- Item spikes: minutes at which cumulative gold crossed 3000/6000/9500,
  compared against a per-role benchmark (positive delta = slower).
- Gold swings: 5-minute windows earning under half the expected baseline;
  severity is the gold shortfall, "cs_deficit" means the lost income came
  mostly from missed farm.`

var (
	coachModel  string
	coachAPIKey string
	coachRole   string
)

var coachCmd = &cobra.Command{
	Use:   "coach <puuid> <question>",
	Short: "AI-powered grounded coaching (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCoach,
}

func init() {
	coachCmd.Flags().StringVar(&coachModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	coachCmd.Flags().StringVar(&coachAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	coachCmd.Flags().StringVar(&coachRole, "role", "", "override the benchmark role")
}

func runCoach(cmd *cobra.Command, args []string) error {
	puuid, question := args[0], args[1]

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
	if coachRole != "" {
		role = model.ParseRole(coachRole)
	} else {
		role, err = db.PrimaryRole(puuid)
		if err != nil {
			return fmt.Errorf("resolve primary role: %w", err)
		}
	}

	matches, err := db.ListMatches(puuid)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	agg := aggregator.Aggregate(stats, role)
	contextJSON, err := buildCoachContext(&agg, matches)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	return callAnthropic(cmd.Context(), coachAPIKey, coachModel, contextJSON, question)
}

// buildCoachContext serialises the aggregate analysis plus a compact
// per-game history into JSON for the model.
func buildCoachContext(agg *model.AggregateAnalysis, matches []model.MatchRecord) (string, error) {
	type gameEntry struct {
		Match    string  `json:"match"`
		Champion string  `json:"champion"`
		Role     string  `json:"role"`
		Win      bool    `json:"win"`
		KDA      float64 `json:"kda"`
		CS       int     `json:"cs"`
		Minutes  float64 `json:"minutes"`
	}

	games := make([]gameEntry, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		games = append(games, gameEntry{
			Match:    m.MatchID,
			Champion: m.ChampionName,
			Role:     string(m.Role),
			Win:      m.Win,
			KDA:      round2(m.KDA()),
			CS:       m.CS,
			Minutes:  round2(m.DurationMinutes()),
		})
	}

	doc := map[string]interface{}{
		"subject":        "player",
		"role":           agg.Role,
		"games_analyzed": agg.Games,
		"checkpoints": map[string]interface{}{
			"avg_gold_diff_10":  round2(agg.AvgGoldDiffAt10),
			"avg_gold_diff_15":  round2(agg.AvgGoldDiffAt15),
			"avg_gold_diff_20":  round2(agg.AvgGoldDiffAt20),
			"avg_level_diff_10": round2(agg.AvgLevelDiffAt10),
			"lead_rate_10":      round2(agg.LeadRateAt10),
			"lead_rate_15":      round2(agg.LeadRateAt15),
			"lead_rate_20":      round2(agg.LeadRateAt20),
			"lead_conversion":   round2(agg.LeadConversionRate),
		},
		"stability": map[string]interface{}{
			"throws":          agg.ThrowCount,
			"comebacks":       agg.ComebackCount,
			"throw_rate":      round2(agg.ThrowRate),
			"comeback_rate":   round2(agg.ComebackRate),
			"avg_max_lead":    round2(agg.AvgMaxLead),
			"avg_max_deficit": round2(agg.AvgMaxDeficit),
		},
		"spikes": map[string]interface{}{
			"avg_first_item_min": round2(agg.AvgFirstItemMinute),
			"first_item_delta":   round2(agg.FirstItemDelta),
			"second_item_delta":  round2(agg.SecondItemDelta),
			"third_item_delta":   round2(agg.ThirdItemDelta),
			"fast_spike_winrate": round2(agg.FastSpikeWinRate),
			"slow_spike_winrate": round2(agg.SlowSpikeWinRate),
		},
		"worst_swings": agg.WorstSwings,
		"games":        games,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// round2 rounds a float64 to 2 decimal places, away from zero on ties.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Coaching ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: coachSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
