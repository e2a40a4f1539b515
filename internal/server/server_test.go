package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/laneiq/lolmetrics/internal/model"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	laneStats map[string][]model.LaneStats
	roles     map[string]model.Role
	matches   map[string][]model.MatchRecord
	timelines map[string][]byte
	failAll   bool
}

func (f *fakeStore) GetLaneStats(puuid string) ([]model.LaneStats, error) {
	if f.failAll {
		return nil, errors.New("boom")
	}
	return f.laneStats[puuid], nil
}

func (f *fakeStore) PrimaryRole(puuid string) (model.Role, error) {
	if f.failAll {
		return "", errors.New("boom")
	}
	if r, ok := f.roles[puuid]; ok {
		return r, nil
	}
	return model.RoleMiddle, nil
}

func (f *fakeStore) ListMatches(puuid string) ([]model.MatchRecord, error) {
	if f.failAll {
		return nil, errors.New("boom")
	}
	return f.matches[puuid], nil
}

func (f *fakeStore) GetTimeline(matchID string) ([]byte, error) {
	if f.failAll {
		return nil, errors.New("boom")
	}
	return f.timelines[matchID], nil
}

func newTestServer(t *testing.T, store *fakeStore) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewRouter(store, logger))
	t.Cleanup(srv.Close)
	return srv
}

func intPtr(v int) *int { return &v }

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestGetAnalysis(t *testing.T) {
	store := &fakeStore{
		laneStats: map[string][]model.LaneStats{
			"p1": {
				{MatchID: "m1", Win: true, GoldDiffAt10: intPtr(400)},
				{MatchID: "m2", Win: false, GoldDiffAt10: intPtr(-200)},
			},
		},
		roles: map[string]model.Role{"p1": model.RoleJungle},
	}
	srv := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/players/p1/analysis")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var agg model.AggregateAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&agg); err != nil {
		t.Fatal(err)
	}
	if agg.Games != 2 {
		t.Errorf("Games = %d, want 2", agg.Games)
	}
	if agg.Role != model.RoleJungle {
		t.Errorf("Role = %s, want JUNGLE (stored primary)", agg.Role)
	}
	if agg.AvgGoldDiffAt10 != 100 {
		t.Errorf("AvgGoldDiffAt10 = %f, want 100", agg.AvgGoldDiffAt10)
	}
}

func TestGetAnalysisRoleOverride(t *testing.T) {
	store := &fakeStore{
		laneStats: map[string][]model.LaneStats{"p1": {{MatchID: "m1"}}},
		roles:     map[string]model.Role{"p1": model.RoleJungle},
	}
	srv := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/players/p1/analysis?role=TOP")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var agg model.AggregateAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&agg); err != nil {
		t.Fatal(err)
	}
	if agg.Role != model.RoleTop {
		t.Errorf("Role = %s, want TOP from the query override", agg.Role)
	}
}

func TestGetAnalysisRoleAliasNormalized(t *testing.T) {
	store := &fakeStore{
		laneStats: map[string][]model.LaneStats{"p1": {{MatchID: "m1"}}},
	}
	srv := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/players/p1/analysis?role=jgl")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var agg model.AggregateAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&agg); err != nil {
		t.Fatal(err)
	}
	// The alias must resolve to a real benchmark role, never to a
	// zero-valued one.
	if agg.Role != model.RoleJungle {
		t.Errorf("Role = %s, want JUNGLE from the alias", agg.Role)
	}
}

func TestGetMatches(t *testing.T) {
	store := &fakeStore{
		matches: map[string][]model.MatchRecord{
			"p1": {{MatchID: "m1", ChampionName: "Ahri"}},
		},
	}
	srv := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/players/p1/matches")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var matches []model.MatchRecord
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ChampionName != "Ahri" {
		t.Errorf("matches = %+v", matches)
	}
}

func TestGetMatchEvents(t *testing.T) {
	tl := `{"info":{"frameInterval":60000,"frames":[{"timestamp":0,"events":[
		{"type":"CHAMPION_KILL","timestamp":60000,"killerId":1,"victimId":6},
		{"type":"CHAMPION_KILL","timestamp":70000,"killerId":2,"victimId":7},
		{"type":"CHAMPION_KILL","timestamp":80000,"killerId":6,"victimId":1}
	]}]}}`
	store := &fakeStore{timelines: map[string][]byte{"m1": []byte(tl)}}
	srv := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/matches/m1/events")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		MatchID    string                 `json:"matchId"`
		Events     []model.ProcessedEvent `json:"events"`
		Teamfights []model.Teamfight      `json:"teamfights"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.MatchID != "m1" {
		t.Errorf("matchId = %q, want m1", body.MatchID)
	}
	if len(body.Events) != 3 {
		t.Errorf("events = %d, want 3", len(body.Events))
	}
	if len(body.Teamfights) != 1 {
		t.Errorf("teamfights = %d, want 1", len(body.Teamfights))
	}
}

func TestGetMatchEventsMissingTimeline(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/api/matches/unknown/events")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Not Found" {
		t.Errorf("error = %q, want Not Found", body.Error)
	}
}

func TestStoreFailureIs500(t *testing.T) {
	srv := newTestServer(t, &fakeStore{failAll: true})

	resp, err := http.Get(srv.URL + "/api/players/p1/analysis")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	// Generate one request so the counters have something to show.
	http.Get(srv.URL + "/health")

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		t.Error("metrics body is empty")
	}
}
