package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/localhive/local_hive/models"
)

// Conn is the slice of the websocket connection the hub needs.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client wraps a connection with a write lock: the hub goroutine and the
// connection's own reader goroutine both send on it, and the underlying
// websocket forbids concurrent writers.
type Client struct {
	UserID uuid.UUID
	conn   Conn
	mu     sync.Mutex
}

func NewClient(userID uuid.UUID, conn Conn) *Client {
	return &Client{UserID: userID, conn: conn}
}

// WriteJSON is safe for concurrent use.
func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) Close() error { return c.conn.Close() }

type MessagePayload struct {
	ThreadID string `json:"thread_id"`
	Text     string `json:"text"`
}

var clients = make(map[uuid.UUID]*Client)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.ChatMessage)

// RunHub fans persisted messages out to the receiving participant's live
// connection. A message whose receiver is offline is simply not delivered
// here; the receiver picks it up from the thread history on next read.
func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Chat client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Chat client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if current, ok := clients[client.UserID]; ok && current == client {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case message := <-Broadcast:
			clientsMu.RLock()
			client, ok := clients[message.ReceiverID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := client.WriteJSON(message); err != nil {
				log.Printf("Error sending message to client %s: %v", message.ReceiverID, err)
				client.Close()
				clientsMu.Lock()
				if current, exists := clients[message.ReceiverID]; exists && current == client {
					delete(clients, message.ReceiverID)
				}
				clientsMu.Unlock()
			}
		}
	}
}
