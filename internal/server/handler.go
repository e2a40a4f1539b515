package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/laneiq/lolmetrics/internal/aggregator"
	"github.com/laneiq/lolmetrics/internal/model"
	"github.com/laneiq/lolmetrics/internal/riot"
	"github.com/laneiq/lolmetrics/internal/timeline"
)

// Store is what the handlers need from the storage layer.
type Store interface {
	GetLaneStats(puuid string) ([]model.LaneStats, error)
	PrimaryRole(puuid string) (model.Role, error)
	ListMatches(puuid string) ([]model.MatchRecord, error)
	GetTimeline(matchID string) ([]byte, error)
}

// Handler serves the JSON API over the local store.
type Handler struct {
	store Store
}

// NewHandler creates a Handler backed by the given store.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetAnalysis handles GET /api/players/{puuid}/analysis. The optional role
// query parameter overrides the player's stored primary role.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	puuid := chi.URLParam(r, "puuid")

	stats, err := h.store.GetLaneStats(puuid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "query lane stats failed")
		return
	}

	var role model.Role
	if q := r.URL.Query().Get("role"); q != "" {
		role = model.ParseRole(q)
	} else {
		role, err = h.store.PrimaryRole(puuid)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "resolve primary role failed")
			return
		}
	}

	agg := aggregator.Aggregate(stats, role)
	analysesServedTotal.Inc()
	respondJSON(w, http.StatusOK, agg)
}

// GetMatches handles GET /api/players/{puuid}/matches.
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	puuid := chi.URLParam(r, "puuid")
	matches, err := h.store.ListMatches(puuid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "query matches failed")
		return
	}
	respondJSON(w, http.StatusOK, matches)
}

// eventsResponse is the payload for GET /api/matches/{id}/events.
type eventsResponse struct {
	MatchID    string                 `json:"matchId"`
	Events     []model.ProcessedEvent `json:"events"`
	Teamfights []model.Teamfight      `json:"teamfights"`
}

// GetMatchEvents handles GET /api/matches/{id}/events: it loads the stored
// timeline and runs the event processor on the fly.
func (h *Handler) GetMatchEvents(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "id")

	payload, err := h.store.GetTimeline(matchID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "load timeline failed")
		return
	}
	if payload == nil {
		respondError(w, http.StatusNotFound, "no timeline stored for match")
		return
	}

	var tl riot.TimelineResponse
	if err := json.Unmarshal(payload, &tl); err != nil {
		respondError(w, http.StatusInternalServerError, "decode stored timeline failed")
		return
	}

	events, fights := timeline.ProcessEvents(tl.Info.Frames)
	respondJSON(w, http.StatusOK, eventsResponse{
		MatchID:    matchID,
		Events:     events,
		Teamfights: fights,
	})
}

// ErrorResponse is the standardized error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
