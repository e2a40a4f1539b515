package roles

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/laneiq/lolmetrics/internal/model"
)

// RateProvider supplies a champion's historical per-role play-rate
// distribution. Implementations never fail upward: any lookup problem
// degrades to an empty map (treated as rate 0 for every role).
type RateProvider interface {
	RolePlayRates(ctx context.Context, championID int) map[model.Role]float64
}

// LocalCounts is the local aggregation layer: per-champion per-role game
// counts built up by match ingestion. Implemented by the storage package.
type LocalCounts interface {
	ChampionRoleCounts(championID int) (map[model.Role]int, error)
}

const (
	localRateTTL = time.Hour
	feedRateTTL  = 24 * time.Hour
)

// LayeredProvider resolves play rates from the local aggregation first and
// falls back to the external reference feed, caching each layer's answer.
type LayeredProvider struct {
	Local LocalCounts
	Feed  *ReferenceFeed
	Cache Cache
}

// NewLayeredProvider wires the two layers behind a shared cache. Either
// layer may be nil.
func NewLayeredProvider(local LocalCounts, feed *ReferenceFeed, cache Cache) *LayeredProvider {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &LayeredProvider{Local: local, Feed: feed, Cache: cache}
}

// RolePlayRates returns the champion's role distribution, or an empty map
// when neither layer has data.
func (p *LayeredProvider) RolePlayRates(ctx context.Context, championID int) map[model.Role]float64 {
	key := fmt.Sprintf("rates:%d", championID)
	if v, ok := p.Cache.Get(key); ok {
		if rates, ok := v.(map[model.Role]float64); ok {
			return rates
		}
	}

	if p.Local != nil {
		if counts, err := p.Local.ChampionRoleCounts(championID); err == nil && len(counts) > 0 {
			rates := normalizeCounts(counts)
			p.Cache.Put(key, rates, localRateTTL)
			return rates
		}
	}

	if p.Feed != nil {
		if rates, err := p.Feed.Fetch(ctx, championID); err == nil && len(rates) > 0 {
			p.Cache.Put(key, rates, feedRateTTL)
			return rates
		}
	}

	return map[model.Role]float64{}
}

func normalizeCounts(counts map[model.Role]int) map[model.Role]float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	rates := make(map[model.Role]float64, len(counts))
	if total == 0 {
		return rates
	}
	for role, n := range counts {
		rates[role] = float64(n) / float64(total)
	}
	return rates
}

// ReferenceFeed fetches real pick rates by position from an external
// reference endpoint. The payload is deeply nested untyped JSON, probed
// with gjson rather than mapped to structs.
type ReferenceFeed struct {
	BaseURL string
	HTTP    *http.Client
}

// NewReferenceFeed returns a feed client for the given base URL.
func NewReferenceFeed(baseURL string) *ReferenceFeed {
	return &ReferenceFeed{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch returns the champion's role distribution from the feed. The payload
// shape is data.<championId>.<ROLE> = rate.
func (f *ReferenceFeed) Fetch(ctx context.Context, championID int) (map[model.Role]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch reference rates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reference feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	champ := gjson.GetBytes(body, fmt.Sprintf("data.%d", championID))
	if !champ.Exists() {
		return nil, fmt.Errorf("no feed data for champion %d", championID)
	}

	rates := make(map[model.Role]float64)
	champ.ForEach(func(key, value gjson.Result) bool {
		rates[model.Role(key.String())] = value.Float()
		return true
	})
	return rates, nil
}
