package gamehub

import (
	"sync"
	"time"

	"endgame/backend/internal/logger"
	"endgame/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	defaultSendBuffer = 256
)

// WebSocketClient implements Client over a gorilla websocket connection.
type WebSocketClient struct {
	id       string
	playerID string
	conn     *websocket.Conn
	hub      *ManagerService
	log      logger.Logger

	mu     sync.RWMutex
	send   chan models.ServerMessage
	closed bool
}

// NewWebSocketClient wraps an upgraded connection. sendBuffer bounds how many
// outbound messages may queue before the client counts as stalled.
func NewWebSocketClient(conn *websocket.Conn, hub *ManagerService, playerID string, sendBuffer int, log logger.Logger) *WebSocketClient {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &WebSocketClient{
		id:       uuid.NewString(),
		playerID: playerID,
		conn:     conn,
		hub:      hub,
		log:      log,
		send:     make(chan models.ServerMessage, sendBuffer),
	}
}

func (c *WebSocketClient) GetID() string       { return c.id }
func (c *WebSocketClient) GetPlayerID() string { return c.playerID }

func (c *WebSocketClient) Send(msg models.ServerMessage) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Run starts the pumps. The read pump owns the connection's lifetime and
// unregisters the client from the hub when it exits.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the send channel, which makes the write pump send a close
// frame and tear down the connection.
func (c *WebSocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
