package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsboard/internal/board"
	"github.com/yourusername/oddsboard/internal/models"
)

// Boards is what the handlers need from the board service
type Boards interface {
	Board(ctx context.Context, league models.League, date time.Time) (*board.Snapshot, error)
	Refresh(ctx context.Context, league models.League, date time.Time) (*board.Snapshot, error)
	Leagues() []models.League
}

// Handler serves the REST and websocket endpoints
type Handler struct {
	boards   Boards
	hub      *Hub
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates the HTTP handler set
func NewHandler(boards Boards, hub *Hub, log *logrus.Logger) *Handler {
	return &Handler{
		boards: boards,
		hub:    hub,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// parseQuery extracts and validates the league and date query parameters.
// Date defaults to today in UTC.
func (h *Handler) parseQuery(w http.ResponseWriter, r *http.Request) (models.League, time.Time, bool) {
	raw := r.URL.Query().Get("league")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "league is required")
		return "", time.Time{}, false
	}
	league, ok := models.ParseLeague(raw)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown league: "+raw)
		return "", time.Time{}, false
	}

	date := time.Now().UTC()
	if rawDate := r.URL.Query().Get("date"); rawDate != "" {
		parsed, err := time.Parse("2006-01-02", rawDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return "", time.Time{}, false
		}
		date = parsed
	}
	return league, date, true
}

// GetLeagues lists the leagues the service covers
func (h *Handler) GetLeagues(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"leagues": h.boards.Leagues(),
	})
}

// GetBoard returns the resolved board for a league and date
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	league, date, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	snap, err := h.boards.Board(r.Context(), league, date)
	if err != nil {
		h.log.WithError(err).WithField("league", league).Error("board request failed")
		respondError(w, http.StatusBadGateway, "failed to build board")
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// RefreshBoard forces a refresh and pushes the result to subscribers
func (h *Handler) RefreshBoard(w http.ResponseWriter, r *http.Request) {
	league, date, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	snap, err := h.boards.Refresh(r.Context(), league, date)
	if err != nil {
		h.log.WithError(err).WithField("league", league).Error("forced refresh failed")
		respondError(w, http.StatusBadGateway, "refresh failed")
		return
	}
	if h.hub != nil {
		h.hub.Publish(snap)
	}
	respondJSON(w, http.StatusOK, snap)
}

// GetSchedule returns the raw schedule backing the board
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	league, date, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	snap, err := h.boards.Board(r.Context(), league, date)
	if err != nil {
		h.log.WithError(err).WithField("league", league).Error("schedule request failed")
		respondError(w, http.StatusBadGateway, "failed to fetch schedule")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"league":   snap.League,
		"date":     snap.Date,
		"schedule": snap.Schedule,
	})
}

// GetOdds returns the merged raw odds rows backing the board
func (h *Handler) GetOdds(w http.ResponseWriter, r *http.Request) {
	league, date, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	snap, err := h.boards.Board(r.Context(), league, date)
	if err != nil {
		h.log.WithError(err).WithField("league", league).Error("odds request failed")
		respondError(w, http.StatusBadGateway, "failed to fetch odds")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"league": snap.League,
		"date":   snap.Date,
		"rows":   snap.OddsRows,
	})
}

// ServeWS upgrades the connection and registers it with the hub
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := newWSClient(h.hub, conn)
	if !h.hub.add(c) {
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
