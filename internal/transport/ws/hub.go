package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgCheckInLogged  MessageType = "checkin_logged"
	MsgCheckInUpdated MessageType = "checkin_updated"
	MsgCheckInDeleted MessageType = "checkin_deleted"
	MsgInsightsStale  MessageType = "insights_stale"
	MsgError          MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per user. A user can have one owner
// connection (their own device) and any number of viewer connections
// (share-token dashboards); all of them receive the same update stream.
type Hub struct {
	ownerConns  map[string]*Connection            // userID -> conn
	viewerConns map[string]map[string]*Connection // userID -> connID -> conn

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID  string
	ConnID  string // Only set for viewer connections
	IsOwner bool
	Send    chan []byte
	Hub     *Hub
}

// BroadcastMessage is a message to broadcast to all of a user's connections
type BroadcastMessage struct {
	UserID  string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		ownerConns:  make(map[string]*Connection),
		viewerConns: make(map[string]map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsOwner {
				h.ownerConns[conn.UserID] = conn
				log.Printf("Owner connected for user %s", conn.UserID)
			} else {
				if h.viewerConns[conn.UserID] == nil {
					h.viewerConns[conn.UserID] = make(map[string]*Connection)
				}
				h.viewerConns[conn.UserID][conn.ConnID] = conn
				log.Printf("Viewer %s connected for user %s", conn.ConnID, conn.UserID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsOwner {
				if existing, ok := h.ownerConns[conn.UserID]; ok && existing == conn {
					delete(h.ownerConns, conn.UserID)
					close(conn.Send)
					log.Printf("Owner disconnected for user %s", conn.UserID)
				}
			} else {
				if viewers, ok := h.viewerConns[conn.UserID]; ok {
					if existing, ok := viewers[conn.ConnID]; ok && existing == conn {
						delete(viewers, conn.ConnID)
						close(conn.Send)
						log.Printf("Viewer %s disconnected for user %s", conn.ConnID, conn.UserID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if conn, ok := h.ownerConns[msg.UserID]; ok {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			for _, conn := range h.viewerConns[msg.UserID] {
				select {
				case conn.Send <- data:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToUser sends a message to all of a user's connections
// (implements service.Broadcaster)
func (h *Hub) BroadcastToUser(userID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		UserID: userID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
