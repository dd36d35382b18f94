// backend/pkg/websocket/hub.go
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Message represents the standard message format pushed over WebSocket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// upgrader configures the WebSocket connection upgrade.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks connected students and pushes profile events to them. Events are
// one-directional: clients only listen for skills_recomputed and quiz_scored
// notifications.
type Hub struct {
	students   map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		students:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	studentID string
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.students[client.studentID]; !ok {
				h.students[client.studentID] = make(map[*Client]bool)
			}
			h.students[client.studentID][client] = true
			h.mu.Unlock()
			log.Printf("Client registered for student %s", client.studentID)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.students[client.studentID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.students, client.studentID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("Client unregistered for student %s", client.studentID)
		}
	}
}

// NotifyStudent pushes an event to every open connection for the student.
// Students without a connection simply miss the push; the HTTP responses carry
// the same data.
func (h *Hub) NotifyStudent(studentID string, messageType string, data interface{}) {
	msg := Message{
		Type: messageType,
		Data: data,
	}
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %s message for student %s: %v", messageType, studentID, err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.students[studentID]))
	for client := range h.students[studentID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- messageBytes:
		default:
			log.Printf("Send channel full for student %s; dropping client", studentID)
			h.unregister <- client
		}
	}
}

// HandleWebSocket upgrades the connection and subscribes it to the student's
// event stream.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]
	if studentID == "" {
		http.Error(w, "Student ID required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 16),
		studentID: studentID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains inbound frames so pings and close frames are processed.
// Client messages carry no meaning in this protocol and are discarded.
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Unexpected close for student %s: %v", c.studentID, err)
			}
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing to student %s: %v", c.studentID, err)
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
