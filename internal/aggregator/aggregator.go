// Package aggregator folds many single-game lane analyses into one
// cross-game rollup benchmarked against role reference values.
package aggregator

import (
	"sort"

	"github.com/laneiq/lolmetrics/internal/model"
)

// topSwingCount is how many worst gold-swing windows survive the pooling.
const topSwingCount = 5

// Aggregate combines single-game lane stats into one AggregateAnalysis for
// the given primary role. Checkpoint averages only count games that reached
// the checkpoint; throw/comeback rates are over all games. Zero input games
// produce a zero-valued result, never a panic or NaN.
func Aggregate(stats []model.LaneStats, role model.Role) model.AggregateAnalysis {
	agg := model.AggregateAnalysis{
		Games: len(stats),
		Role:  role,
	}
	if len(stats) == 0 {
		return agg
	}

	var (
		sumDiff10, sumDiff15, sumDiff20 int
		sumLevelDiff10                  int
		games10, games15, games20       int
		leads10, leads15, leads20       int
		leadsAt15Won                    int
		sumMaxLead, sumMaxDeficit       int

		sumFirst, sumSecond, sumThird       float64
		firstGames, secondGames, thirdGames int
	)

	bench := model.SpikeBenchmarks[role]
	var swings []model.GoldSwing

	for i := range stats {
		s := &stats[i]

		if s.GoldDiffAt10 != nil {
			games10++
			sumDiff10 += *s.GoldDiffAt10
			if *s.GoldDiffAt10 > 0 {
				leads10++
			}
			if s.LevelDiffAt10 != nil {
				sumLevelDiff10 += *s.LevelDiffAt10
			}
		}
		if s.GoldDiffAt15 != nil {
			games15++
			sumDiff15 += *s.GoldDiffAt15
			if *s.GoldDiffAt15 > 0 {
				leads15++
				if s.Win {
					leadsAt15Won++
				}
			}
		}
		if s.GoldDiffAt20 != nil {
			games20++
			sumDiff20 += *s.GoldDiffAt20
			if *s.GoldDiffAt20 > 0 {
				leads20++
			}
		}

		sumMaxLead += s.MaxLead
		sumMaxDeficit += s.MaxDeficit

		if s.HasThrow() {
			agg.ThrowCount++
			// First game with the biggest lead wins the highlight; a strict
			// comparison keeps the forward scan deterministic.
			if agg.BiggestThrow == nil || s.MaxLead > agg.BiggestThrow.Amount {
				agg.BiggestThrow = &model.GameHighlight{
					MatchID: s.MatchID,
					Amount:  s.MaxLead,
					Minute:  *s.ThrowMinute,
				}
			}
		}
		if s.HasComeback() {
			agg.ComebackCount++
			if agg.BestComeback == nil || s.MaxDeficit > agg.BestComeback.Amount {
				agg.BestComeback = &model.GameHighlight{
					MatchID: s.MatchID,
					Amount:  s.MaxDeficit,
					Minute:  *s.ComebackMinute,
				}
			}
		}

		if s.FirstItemMinute != nil {
			firstGames++
			sumFirst += *s.FirstItemMinute
			// Fast/slow split is decided solely by the first item timing.
			if *s.FirstItemMinute <= bench[0] {
				agg.FastSpikeGames++
				if s.Win {
					agg.FastSpikeWins++
				}
			} else {
				agg.SlowSpikeGames++
				if s.Win {
					agg.SlowSpikeWins++
				}
			}
		}
		if s.SecondItemMinute != nil {
			secondGames++
			sumSecond += *s.SecondItemMinute
		}
		if s.ThirdItemMinute != nil {
			thirdGames++
			sumThird += *s.ThirdItemMinute
		}

		if s.WorstSwing != nil {
			sw := *s.WorstSwing
			if sw.MatchID == "" {
				sw.MatchID = s.MatchID
			}
			swings = append(swings, sw)
		}
	}

	agg.GamesAt10, agg.GamesAt15, agg.GamesAt20 = games10, games15, games20
	agg.AvgGoldDiffAt10 = ratio(sumDiff10, games10)
	agg.AvgGoldDiffAt15 = ratio(sumDiff15, games15)
	agg.AvgGoldDiffAt20 = ratio(sumDiff20, games20)
	agg.AvgLevelDiffAt10 = ratio(sumLevelDiff10, games10)

	agg.LeadRateAt10 = pct(leads10, games10)
	agg.LeadRateAt15 = pct(leads15, games15)
	agg.LeadRateAt20 = pct(leads20, games20)
	agg.LeadConversionRate = pct(leadsAt15Won, leads15)

	agg.AvgMaxLead = ratio(sumMaxLead, len(stats))
	agg.AvgMaxDeficit = ratio(sumMaxDeficit, len(stats))

	agg.ThrowRate = pct(agg.ThrowCount, len(stats))
	agg.ComebackRate = pct(agg.ComebackCount, len(stats))

	if firstGames > 0 {
		agg.AvgFirstItemMinute = sumFirst / float64(firstGames)
		agg.FirstItemDelta = agg.AvgFirstItemMinute - bench[0]
	}
	if secondGames > 0 {
		agg.AvgSecondItemMinute = sumSecond / float64(secondGames)
		agg.SecondItemDelta = agg.AvgSecondItemMinute - bench[1]
	}
	if thirdGames > 0 {
		agg.AvgThirdItemMinute = sumThird / float64(thirdGames)
		agg.ThirdItemDelta = agg.AvgThirdItemMinute - bench[2]
	}

	agg.FastSpikeWinRate = pct(agg.FastSpikeWins, agg.FastSpikeGames)
	agg.SlowSpikeWinRate = pct(agg.SlowSpikeWins, agg.SlowSpikeGames)

	// Pool the per-game worst windows and keep the most severe few. The sort
	// is stable so equal severities keep input order.
	sort.SliceStable(swings, func(i, j int) bool {
		return swings[i].Severity > swings[j].Severity
	})
	if len(swings) > topSwingCount {
		swings = swings[:topSwingCount]
	}
	agg.WorstSwings = swings

	return agg
}

func ratio(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(hits, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(hits) / float64(n) * 100
}
