package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/oddsboard/internal/board"
	"github.com/yourusername/oddsboard/internal/config"
	"github.com/yourusername/oddsboard/internal/logger"
	"github.com/yourusername/oddsboard/internal/models"
)

type stubBoards struct {
	snap *board.Snapshot
	err  error
}

func (s *stubBoards) Board(ctx context.Context, league models.League, date time.Time) (*board.Snapshot, error) {
	return s.snap, s.err
}

func (s *stubBoards) Refresh(ctx context.Context, league models.League, date time.Time) (*board.Snapshot, error) {
	return s.snap, s.err
}

func (s *stubBoards) Leagues() []models.League {
	return []models.League{models.LeagueMLB, models.LeagueNHL}
}

func testSnapshot() *board.Snapshot {
	return &board.Snapshot{
		RefreshID:   "test-refresh",
		League:      models.LeagueMLB,
		Date:        "2026-06-12",
		GeneratedAt: time.Now().UTC(),
		Rows: []models.BoardRow{{
			Game: models.ScheduleEntry{
				League: models.LeagueMLB,
				Home:   "New York Yankees",
				Away:   "Boston Red Sox",
			},
		}},
	}
}

func testRouter(boards Boards) http.Handler {
	cfg := &config.Config{}
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	log := logger.NewLogger("error", "development")
	return NewRouter(cfg, NewHandler(boards, NewHub(log), log))
}

func TestGetBoard(t *testing.T) {
	router := testRouter(&stubBoards{snap: testSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/board?league=MLB&date=2026-06-12", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var snap board.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, models.LeagueMLB, snap.League)
	assert.Len(t, snap.Rows, 1)
}

func TestGetBoardValidation(t *testing.T) {
	router := testRouter(&stubBoards{snap: testSnapshot()})

	cases := []struct {
		name string
		url  string
	}{
		{"missing league", "/api/v1/board"},
		{"unknown league", "/api/v1/board?league=XFL"},
		{"bad date", "/api/v1/board?league=MLB&date=June-12"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetBoardUpstreamFailure(t *testing.T) {
	router := testRouter(&stubBoards{err: errors.New("upstream down")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/board?league=MLB", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetLeagues(t *testing.T) {
	router := testRouter(&stubBoards{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Leagues []models.League `json:"leagues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []models.League{models.LeagueMLB, models.LeagueNHL}, body.Leagues)
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(&stubBoards{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebsocketBroadcast(t *testing.T) {
	log := logger.NewLogger("error", "development")
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	handler := NewHandler(&stubBoards{snap: testSnapshot()}, hub, log)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// give the register a moment to land before publishing
	time.Sleep(50 * time.Millisecond)
	hub.Publish(testSnapshot())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "board", msg.Type)
	require.NotNil(t, msg.Payload)
	assert.Equal(t, models.LeagueMLB, msg.Payload.League)
}

func TestHubStopUnblocksClients(t *testing.T) {
	log := logger.NewLogger("error", "development")
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case <-hub.done:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	c := newWSClient(hub, nil)
	assert.False(t, hub.add(c))

	// a client departing after shutdown must not hang on unregister
	finished := make(chan struct{})
	go func() {
		hub.remove(c)
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after hub stopped")
	}
}

func TestWebsocketLeagueFilter(t *testing.T) {
	log := logger.NewLogger("error", "development")
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	handler := NewHandler(&stubBoards{}, hub, log)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(wsCommand{Type: "subscribe", Leagues: []string{"NHL"}}))
	time.Sleep(50 * time.Millisecond)

	// MLB snapshot is filtered out, the later NHL one arrives first
	hub.Publish(testSnapshot())
	nhl := testSnapshot()
	nhl.League = models.LeagueNHL
	hub.Publish(nhl)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.NotNil(t, msg.Payload)
	assert.Equal(t, models.LeagueNHL, msg.Payload.League)
}
