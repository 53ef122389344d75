package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/avolkov/dogwalk/game/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Clients only listen, so
	// anything beyond control frames is noise.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The game is served from the same origin; cross-origin
		// viewers are harmless because the socket is read-only.
		return true
	},
}

// Message is what subscribers receive after every world tick.
type Message struct {
	Event   string                      `json:"event"`
	Players map[string]service.DogState `json:"players"`
}

// Client is one websocket subscriber bound to a map room.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	mapID string
}

// Hub fans game-state snapshots out to subscribers, one room per map.
// All room bookkeeping happens on the Run goroutine.
type Hub struct {
	// Subscribers by map id
	rooms map[string]map[*Client]bool

	// Outbound state snapshots, pre-marshaled per map
	broadcast chan roomMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

type roomMessage struct {
	mapID string
	data  []byte
}

// NewHub creates a hub; call Run on its own goroutine before use.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan roomMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// ServeWS upgrades the request and subscribes it to mapID's room.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, mapID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, 256),
		mapID: mapID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastState sends a state snapshot to every subscriber of mapID.
func (h *Hub) BroadcastState(mapID string, state *service.GameState) {
	msg := &Message{
		Event:   "state",
		Players: state.Players,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal state broadcast: %v", err)
		return
	}

	h.broadcast <- roomMessage{mapID: mapID, data: data}
}

// registerClient adds a client to its map room.
func (h *Hub) registerClient(client *Client) {
	if h.rooms[client.mapID] == nil {
		h.rooms[client.mapID] = make(map[*Client]bool)
	}
	h.rooms[client.mapID][client] = true

	log.Printf("State subscriber joined map %s (total: %d)",
		client.mapID, len(h.rooms[client.mapID]))
}

// unregisterClient removes a client from its map room.
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.rooms[client.mapID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.rooms, client.mapID)
			}
		}
	}
}

// deliver fans one snapshot out to a room. A client with a full send
// buffer is dropped rather than allowed to stall the loop.
func (h *Hub) deliver(msg roomMessage) {
	for client := range h.rooms[msg.mapID] {
		select {
		case client.send <- msg.data:
		default:
			h.unregisterClient(client)
		}
	}
}

// readPump drains the connection so control frames are processed.
// Clients are not expected to send anything.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps snapshots from the hub to the connection.
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
				// The hub closed the channel.
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
