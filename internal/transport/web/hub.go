package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Buffered outbound messages per client.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event names pushed to clients.
const (
	EventState = "state"
	EventTurn  = "turn"
	EventError = "error"
)

// Message is a server-to-client WebSocket message.
type Message struct {
	GameID   string            `json:"game_id"`
	Event    string            `json:"event"`
	Turn     *session.Turn     `json:"turn,omitempty"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Client actions.
const (
	ActionMove    = "move"
	ActionSettled = "settled"
)

// ClientMessage is a client-to-server WebSocket message.
type ClientMessage struct {
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
}

// MessageHandler processes a client message for a game. A returned error
// is sent back to that client only.
type MessageHandler func(gameID string, msg ClientMessage) error

// Client is one WebSocket connection watching a game.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

type directMessage struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients per game and fans out messages.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	games      map[string]map[*Client]bool
	broadcast  chan *Message
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	handler    MessageHandler
	logger     *log.Logger
	done       chan struct{}
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		games:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 16),
		direct:     make(chan directMessage, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// SetHandler sets the function that receives client messages.
func (h *Hub) SetHandler(fn MessageHandler) {
	h.handler = fn
}

// Run starts the hub's event loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.games {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case dm := <-h.direct:
			if h.games[dm.client.gameID][dm.client] {
				h.deliver(dm.client, dm.data)
			}
		}
	}
}

// ServeWS upgrades the request and attaches the connection to gameID.
// initial, if not nil, is the first message the client receives.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string, initial *Message) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		gameID: gameID,
	}

	if initial != nil {
		if data, err := json.Marshal(initial); err == nil {
			client.send <- data
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastTurn sends a turn to every client watching the game.
func (h *Hub) BroadcastTurn(gameID string, turn session.Turn) {
	h.publish(&Message{GameID: gameID, Event: EventTurn, Turn: &turn})
}

// BroadcastState sends a snapshot to every client watching the game.
func (h *Hub) BroadcastState(gameID string, snap session.Snapshot) {
	h.publish(&Message{GameID: gameID, Event: EventState, Snapshot: &snap})
}

// publish hands a message to the Run loop unless the hub has stopped.
func (h *Hub) publish(m *Message) {
	select {
	case h.broadcast <- m:
	case <-h.done:
	}
}

// sendError replies to one client.
func (h *Hub) sendError(c *Client, err error) {
	data, mErr := json.Marshal(&Message{GameID: c.gameID, Event: EventError, Error: err.Error()})
	if mErr != nil {
		return
	}
	select {
	case h.direct <- directMessage{client: c, data: data}:
	case <-h.done:
	}
}

// registerClient adds a client to a game.
func (h *Hub) registerClient(client *Client) {
	if h.games[client.gameID] == nil {
		h.games[client.gameID] = make(map[*Client]bool)
	}
	h.games[client.gameID][client] = true

	h.logger.Debug("client registered", "game", client.gameID, "clients", len(h.games[client.gameID]))
}

// unregisterClient removes a client from a game.
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.games[client.gameID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.games, client.gameID)
	}

	h.logger.Debug("client unregistered", "game", client.gameID, "clients", len(clients))
}

// broadcastMessage sends a message to all clients of its game.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("cannot marshal websocket message", "error", err)
		return
	}

	for client := range h.games[message.GameID] {
		h.deliver(client, data)
	}
}

// deliver queues data for a client, dropping the client when it is too slow.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.unregisterClient(client)
	}
}

// clientCount returns the number of clients watching a game.
// Only safe on the Run goroutine or before Run starts.
func (h *Hub) clientCount(gameID string) int {
	return len(h.games[gameID])
}

// readPump reads client actions and hands them to the hub's handler.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "game", c.gameID, "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.sendError(c, fmt.Errorf("web: malformed message: %w", err))
			continue
		}

		if c.hub.handler == nil {
			continue
		}
		if err := c.hub.handler(c.gameID, msg); err != nil {
			c.hub.sendError(c, err)
		}
	}
}

// writePump writes queued messages and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
