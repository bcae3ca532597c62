// Package server exposes the resolved board over HTTP and websocket. The
// REST surface serves the latest snapshot on demand; the hub pushes fresh
// snapshots to subscribers whenever a refresh completes.
package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsboard/internal/board"
	"github.com/yourusername/oddsboard/internal/metrics"
	"github.com/yourusername/oddsboard/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// wsMessage is the envelope for every frame sent to a subscriber
type wsMessage struct {
	Type      string          `json:"type"`
	Payload   *board.Snapshot `json:"payload,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// wsCommand is what subscribers send: a league filter update
type wsCommand struct {
	Type    string   `json:"type"`
	Leagues []string `json:"leagues,omitempty"`
}

// Hub maintains the set of connected subscribers and fans snapshots out to
// them. Slow clients get disconnected rather than blocking the broadcast.
type Hub struct {
	log *logrus.Logger

	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan *board.Snapshot
	done       chan struct{}
}

// NewHub creates an idle hub; Run starts the loop
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan *board.Snapshot, 64),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until the context ends
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			metrics.WebsocketClients.Set(0)
			return

		case c := <-h.register:
			h.clients[c] = true
			metrics.WebsocketClients.Set(float64(len(h.clients)))
			h.log.WithField("clients", len(h.clients)).Debug("websocket client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				metrics.WebsocketClients.Set(float64(len(h.clients)))
				h.log.WithField("clients", len(h.clients)).Debug("websocket client disconnected")
			}

		case snap := <-h.broadcast:
			h.fanOut(snap)
		}
	}
}

// Publish queues a snapshot for broadcast. It never blocks; when the
// buffer is full the snapshot is dropped and the next refresh supersedes it.
func (h *Hub) Publish(snap *board.Snapshot) {
	select {
	case h.broadcast <- snap:
	default:
		h.log.Warn("broadcast buffer full, dropping snapshot")
	}
}

// add registers a client with the loop, reporting false once Run has
// stopped so callers can close the connection instead of blocking.
func (h *Hub) add(c *wsClient) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *wsClient) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) fanOut(snap *board.Snapshot) {
	frame, err := json.Marshal(wsMessage{Type: "board", Payload: snap, Timestamp: time.Now().UTC()})
	if err != nil {
		h.log.WithError(err).Error("failed to encode snapshot")
		return
	}
	for c := range h.clients {
		if !c.wantsLeague(snap.League) {
			continue
		}
		select {
		case c.send <- frame:
		default:
			delete(h.clients, c)
			close(c.send)
			metrics.WebsocketClients.Set(float64(len(h.clients)))
			h.log.Warn("websocket client too slow, disconnecting")
		}
	}
}

// wsClient is one websocket subscriber with an optional league filter
type wsClient struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	filterMu sync.RWMutex
	leagues  map[models.League]bool // empty means all leagues
}

func newWSClient(hub *Hub, conn *websocket.Conn) *wsClient {
	return &wsClient{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		leagues: make(map[models.League]bool),
	}
}

func (c *wsClient) wantsLeague(league models.League) bool {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	if len(c.leagues) == 0 {
		return true
	}
	return c.leagues[league]
}

func (c *wsClient) setFilter(filter map[models.League]bool) {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	c.leagues = filter
}

// readPump consumes subscription commands until the peer goes away
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var cmd wsCommand
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Debug("websocket unexpected close")
			}
			return
		}
		if cmd.Type == "subscribe" {
			filter := make(map[models.League]bool, len(cmd.Leagues))
			for _, raw := range cmd.Leagues {
				if league, ok := models.ParseLeague(raw); ok {
					filter[league] = true
				}
			}
			c.setFilter(filter)
		}
	}
}

// writePump drains the send buffer and keeps the connection alive with pings
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
