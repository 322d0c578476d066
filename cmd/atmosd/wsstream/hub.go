// Package wsstream streams each tick's wind/pressure snapshot to
// connected viewers over a websocket, in the hub/client shape of
// tw-backend/cmd/game-server/websocket (a Client with a buffered Send
// channel pumped by ReadPump/WritePump, registered and unregistered
// through the hub's channels) — narrowed here to the host/collaborator
// boundary spec.md §6 draws around the core: the daemon pushes frames
// out, nothing comes back in.
package wsstream

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client is one connected viewer.
type Client struct {
	ID   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Frame is one tick's wire payload: the dense grids plus the scalar
// diagnostics, JSON-encoded once per tick and fanned out to every client.
type Frame struct {
	Tick      uint64    `json:"tick"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Pressure  []float32 `json:"pressure"`
	WindU     []float32 `json:"wind_u"`
	WindV     []float32 `json:"wind_v"`
	MeanWind  float64   `json:"mean_wind_mps"`
	MaxWind   float64   `json:"max_wind_mps"`
}

// Hub fans out Frames to every registered Client.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[*Client]bool
}

// NewHub creates an idle Hub; call Run to start its event loop.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 8),
		clients:    make(map[*Client]bool),
	}
}

// Run services register/unregister/broadcast for the life of the process;
// it has no stop signal and never returns. A caller that stops calling
// Broadcast leaves it idle while clients disconnect naturally, mirroring
// the core's no-cancellation-point stance (spec.md §5) for this
// best-effort side channel.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					log.Warn().Str("client", c.ID.String()).Msg("dropping slow websocket viewer")
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast marshals frame and fans it out to every connected client.
// Marshal errors are logged and dropped; a bad frame never blocks the
// next tick.
func (h *Hub) Broadcast(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal tick frame for websocket viewers")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn().Msg("dropping tick frame: broadcast channel full")
	}
}

// ServeHTTP upgrades the request to a websocket and registers a Client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &Client{ID: uuid.New(), hub: h, conn: conn, send: make(chan []byte, 4)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump only exists to notice the viewer going away; the core never
// reads anything back from a viewer.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
