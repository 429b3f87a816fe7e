package gamehub

import "endgame/backend/internal/models"

// Client is one connection to a player. The hub only ever talks to clients
// through this interface, so a test double or another transport can stand in
// for the websocket implementation.
type Client interface {
	// GetID returns the connection identity. It is unique per connection:
	// a player who reconnects gets a new one.
	GetID() string
	// GetPlayerID returns the anonymous player id the connection
	// authenticated as. It is only used for game records.
	GetPlayerID() string

	// Send queues msg for delivery without blocking. It fails with
	// ErrSendBufferFull when the client is not keeping up and with
	// ErrClientClosed after Close.
	Send(msg models.ServerMessage) error

	// Run starts the client's read and write pumps.
	Run()
	// Close stops outbound delivery and closes the connection. It is safe
	// to call more than once.
	Close()
}
