// Package riot provides a minimal rate-limited client for the Riot match,
// account and spectator APIs.
package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"
)

const (
	regionalBaseURL = "https://americas.api.riotgames.com"
	platformBaseURL = "https://na1.api.riotgames.com"

	// Dev-key rate limits, with headroom (actual: 20/s and 100/2min).
	requestsPerSecond = 15
	requestsPer2Min   = 90
)

// Client is a rate-limited Riot API client.
type Client struct {
	apiKey     string
	httpClient *http.Client

	regionalURL string
	platformURL string

	mu          sync.Mutex
	shortWindow []time.Time // requests in the last second
	longWindow  []time.Time // requests in the last 2 minutes
}

// NewClient creates a client using the RIOT_API_KEY environment variable.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY environment variable not set")
	}
	return &Client{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		regionalURL: regionalBaseURL,
		platformURL: platformBaseURL,
	}, nil
}

// NewClientWithBase creates a client pointed at custom base URLs. Used in tests.
func NewClientWithBase(apiKey, regional, platform string) *Client {
	return &Client{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		regionalURL: regional,
		platformURL: platform,
	}
}

// waitForRateLimit blocks until another request fits both sliding windows.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	for {
		c.mu.Lock()
		now := time.Now()

		c.shortWindow = pruneWindow(c.shortWindow, now.Add(-1*time.Second))
		c.longWindow = pruneWindow(c.longWindow, now.Add(-2*time.Minute))

		if len(c.shortWindow) < requestsPerSecond && len(c.longWindow) < requestsPer2Min {
			c.shortWindow = append(c.shortWindow, now)
			c.longWindow = append(c.longWindow, now)
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func pruneWindow(window []time.Time, cutoff time.Time) []time.Time {
	kept := window[:0]
	for _, t := range window {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// get performs a rate-limited GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	if err := c.waitForRateLimit(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("riot request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return fmt.Errorf("riot rate limit exceeded (429)")
	default:
		return fmt.Errorf("riot returned status %d for %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode riot response: %w", err)
	}
	return nil
}

// ErrNotFound is returned for 404 responses (unknown account, no live game).
var ErrNotFound = fmt.Errorf("riot: not found")

// AccountByRiotID resolves a "gameName#tagLine" pair to an account.
func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*AccountResponse, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionalURL, url.PathEscape(gameName), url.PathEscape(tagLine))
	var acct AccountResponse
	if err := c.get(ctx, u, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// MatchIDs returns the most recent match ids for a PUUID. queueID 0 means
// all queues.
func (c *Client) MatchIDs(ctx context.Context, puuid string, count, queueID int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?count=%d", c.regionalURL, puuid, count)
	if queueID > 0 {
		u += fmt.Sprintf("&queue=%d", queueID)
	}
	var ids []string
	if err := c.get(ctx, u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Match fetches a match summary.
func (c *Client) Match(ctx context.Context, matchID string) (*MatchResponse, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionalURL, matchID)
	var match MatchResponse
	if err := c.get(ctx, u, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// Timeline fetches a match timeline.
func (c *Client) Timeline(ctx context.Context, matchID string) (*TimelineResponse, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s/timeline", c.regionalURL, matchID)
	var tl TimelineResponse
	if err := c.get(ctx, u, &tl); err != nil {
		return nil, err
	}
	return &tl, nil
}

// ActiveGame fetches the live game a player is currently in, if any.
func (c *Client) ActiveGame(ctx context.Context, puuid string) (*CurrentGameInfo, error) {
	u := fmt.Sprintf("%s/lol/spectator/v5/active-games/by-summoner/%s", c.platformURL, puuid)
	var game CurrentGameInfo
	if err := c.get(ctx, u, &game); err != nil {
		return nil, err
	}
	return &game, nil
}
