package gamehub

import (
	"sync"

	"endgame/backend/internal/models"
)

// MockClient records every message the hub sends it.
type MockClient struct {
	id       string
	playerID string

	mu       sync.Mutex
	messages []models.ServerMessage
	closed   bool
	// sendErr, when set, is returned by Send instead of recording.
	sendErr error
}

func newMockClient(id string) *MockClient {
	return &MockClient{id: id, playerID: "player-" + id}
}

func (c *MockClient) GetID() string       { return c.id }
func (c *MockClient) GetPlayerID() string { return c.playerID }

func (c *MockClient) Send(msg models.ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	if c.sendErr != nil {
		return c.sendErr
	}
	c.messages = append(c.messages, msg)
	return nil
}

func (c *MockClient) Run() {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) Messages() []models.ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ServerMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *MockClient) Last() (models.ServerMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return models.ServerMessage{}, false
	}
	return c.messages[len(c.messages)-1], true
}

func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *MockClient) failSends(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = err
}

// recordingRecorder keeps every event in order.
type recordingRecorder struct {
	mu     sync.Mutex
	events []models.GameEvent
}

func (r *recordingRecorder) Record(ev models.GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingRecorder) Kinds() []models.GameEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.GameEventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *recordingRecorder) Events() []models.GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.GameEvent, len(r.events))
	copy(out, r.events)
	return out
}
