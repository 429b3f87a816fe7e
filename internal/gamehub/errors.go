package gamehub

import "errors"

var (
	// ErrUnknownConnection is logged when a message arrives for a
	// connection that is not registered or holds no session.
	ErrUnknownConnection = errors.New("unknown connection")
	ErrOutOfTurn         = errors.New("not your turn")
	ErrNotParticipant    = errors.New("not a participant in this game")
	ErrSessionFinished   = errors.New("game is over")
	// ErrPeerDisconnected ends a session whose other participant left.
	ErrPeerDisconnected = errors.New("opponent disconnected")

	ErrSendBufferFull = errors.New("send buffer full")
	ErrClientClosed   = errors.New("client closed")
	ErrHubStopped     = errors.New("game hub stopped")
)
