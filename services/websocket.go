package services

import (
	"bytes"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024 * 1024 // 1MB
)

// Message types pushed to connected sessions.
const (
	MessageState = "state" // full store snapshot after a mutation
	MessagePing  = "ping"
	MessagePong  = "pong"
)

// Client is one connected UI session (a tab or the popup widget).
type Client struct {
	Hub   *Hub
	Conn  *websocket.Conn
	Send  chan []byte
	Email string
}

// WebSocketMessage is the envelope for everything on the wire.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
	User string `json:"user,omitempty"`
}

// ReadPump pumps messages from the WebSocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshalling WebSocket message: %v", err)
			continue
		}
		wsMessage.User = c.Email

		if wsMessage.Type == MessagePing {
			pong := WebSocketMessage{
				Type: MessagePong,
				Data: map[string]string{"timestamp": time.Now().Format(time.RFC3339)},
			}
			if pongJSON, err := json.Marshal(pong); err == nil {
				c.Send <- pongJSON
			}
			continue
		}

		jsonMessage, err := json.Marshal(wsMessage)
		if err != nil {
			log.Printf("Error marshalling WebSocket message: %v", err)
			continue
		}
		c.Hub.broadcast <- jsonMessage
	}
}

// WritePump pumps messages from the hub to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain anything already queued into the same frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub maintains the set of connected sessions and fans state updates
// out to them.
type Hub struct {
	Clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends a message to connected clients. An empty
// excludeEmail reaches every client, the sender included.
func (h *Hub) Broadcast(message WebSocketMessage, excludeEmail string) {
	message.User = excludeEmail

	jsonMessage, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshalling WebSocket message: %v", err)
		return
	}
	h.broadcast <- jsonMessage
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.Clients[client] = true
			log.Printf("Client connected: %s", client.Email)
		case client := <-h.unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				log.Printf("Client disconnected: %s", client.Email)
			}
		case message := <-h.broadcast:
			var wsMessage WebSocketMessage
			decoder := json.NewDecoder(bytes.NewReader(message))
			if err := decoder.Decode(&wsMessage); err != nil {
				log.Printf("Error decoding message: %v", err)
				continue
			}
			excludeEmail := wsMessage.User

			for client := range h.Clients {
				if excludeEmail != "" && client.Email == excludeEmail {
					continue
				}
				select {
				case client.Send <- message:
				default:
					// Send buffer full, assume the client is gone
					log.Printf("Client send buffer full, removing client: %s", client.Email)
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}
