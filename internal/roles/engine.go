// Package roles assigns lane roles to live-game rosters from loadout
// signals and historical play-rate data.
package roles

import (
	"context"
	"fmt"
	"sync"

	"github.com/laneiq/lolmetrics/internal/model"
)

// jungleSpellIDs are the jungle-clear summoner spells (11 = Smite). Held as
// a set so mode-specific variants slot in without touching the detector.
var jungleSpellIDs = map[int]bool{
	11: true,
}

// debuffSpellIDs are the spells that mark a likely support (3 = Exhaust).
var debuffSpellIDs = map[int]bool{
	3: true,
}

// supportRateThreshold is the minimum UTILITY play rate for the support
// heuristic to fire.
const supportRateThreshold = 0.30

// Player describes one roster slot handed to the engine.
type Player struct {
	ChampionID int
	SpellA     int
	SpellB     int
	Index      int
}

func (p Player) hasSpell(set map[int]bool) bool {
	return set[p.SpellA] || set[p.SpellB]
}

// Engine assigns roles to a team using loadout signals and play-rate data.
type Engine struct {
	rates RateProvider
}

// NewEngine returns an engine backed by the given play-rate provider.
func NewEngine(rates RateProvider) *Engine {
	return &Engine{rates: rates}
}

// Assign maps each player's Index to a role, covering all five roles exactly
// once when five players are supplied. Data-lookup failures degrade to
// zero rates and never surface; the only error is a roster larger than a
// team, which would otherwise blow up the factorial search.
func (e *Engine) Assign(ctx context.Context, players []Player) (map[int]model.Role, error) {
	if len(players) > len(model.AllRoles) {
		return nil, fmt.Errorf("roster of %d players exceeds team size %d", len(players), len(model.AllRoles))
	}

	assigned := make(map[int]model.Role, len(players))
	available := append([]model.Role(nil), model.AllRoles...)
	remaining := append([]Player(nil), players...)

	// One lookup per player, in parallel, before the synchronous search.
	rates := e.lookupRates(ctx, players)

	// Step 1: a jungle-clear spell decides JUNGLE outright.
	remaining = filterPlayers(remaining, func(p Player) bool {
		if contains(available, model.RoleJungle) && p.hasSpell(jungleSpellIDs) {
			assigned[p.Index] = model.RoleJungle
			available = remove(available, model.RoleJungle)
			return false
		}
		return true
	})

	// Step 2: debuff spell + high historical UTILITY rate marks the support.
	if contains(available, model.RoleUtility) {
		best := -1
		bestRate := 0.0
		for i, p := range remaining {
			if !p.hasSpell(debuffSpellIDs) {
				continue
			}
			r := rates[p.Index][model.RoleUtility]
			if r > supportRateThreshold && r > bestRate {
				best, bestRate = i, r
			}
		}
		if best >= 0 {
			assigned[remaining[best].Index] = model.RoleUtility
			available = remove(available, model.RoleUtility)
			remaining = append(remaining[:best], remaining[best+1:]...)
		}
	}

	// Step 3: exhaustive search over the remaining (≤5!) permutations for
	// the highest total play rate. Strict > keeps the first maximum, so with
	// no data at all the winner is the index-order assignment.
	bestScore := -1.0
	var bestPerm []model.Role
	buf := make([]model.Role, len(remaining))
	permuteRoles(buf, available, len(remaining), func(perm []model.Role) {
		score := 0.0
		for i, p := range remaining {
			score += rates[p.Index][perm[i]]
		}
		if score > bestScore {
			bestScore = score
			bestPerm = append(bestPerm[:0], perm...)
		}
	})
	for i, p := range remaining {
		if i < len(bestPerm) {
			assigned[p.Index] = bestPerm[i]
		}
	}

	return assigned, nil
}

// lookupRates fetches each player's role distribution concurrently. A nil
// provider or failed lookup yields an empty map.
func (e *Engine) lookupRates(ctx context.Context, players []Player) map[int]map[model.Role]float64 {
	out := make(map[int]map[model.Role]float64, len(players))
	if e.rates == nil {
		for _, p := range players {
			out[p.Index] = map[model.Role]float64{}
		}
		return out
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, p := range players {
		wg.Add(1)
		go func(p Player) {
			defer wg.Done()
			r := e.rates.RolePlayRates(ctx, p.ChampionID)
			if r == nil {
				r = map[model.Role]float64{}
			}
			mu.Lock()
			out[p.Index] = r
			mu.Unlock()
		}(p)
	}
	wg.Wait()
	return out
}

// permuteRoles enumerates k-permutations of roles in lexicographic order
// over the fixed role order, calling fn with each candidate. The buffer is
// reused between calls.
func permuteRoles(buf, roles []model.Role, k int, fn func([]model.Role)) {
	var recurse func(depth int, used map[model.Role]bool)
	recurse = func(depth int, used map[model.Role]bool) {
		if depth == k {
			fn(buf[:k])
			return
		}
		for _, r := range roles {
			if used[r] {
				continue
			}
			used[r] = true
			buf[depth] = r
			recurse(depth+1, used)
			used[r] = false
		}
	}
	recurse(0, make(map[model.Role]bool, len(roles)))
}

func filterPlayers(players []Player, keep func(Player) bool) []Player {
	out := players[:0]
	for _, p := range players {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func contains(roles []model.Role, r model.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

func remove(roles []model.Role, r model.Role) []model.Role {
	out := roles[:0]
	for _, x := range roles {
		if x != r {
			out = append(out, x)
		}
	}
	return out
}
