package models

import (
	"encoding/json"
	"time"
)

// GameEventKind names a broker lifecycle event handed to the recorder.
type GameEventKind string

const (
	EventQueued         GameEventKind = "queued"
	EventDequeued       GameEventKind = "dequeued"
	EventGameStarted    GameEventKind = "game_started"
	EventActionApplied  GameEventKind = "action_applied"
	EventActionRejected GameEventKind = "action_rejected"
	EventGameOver       GameEventKind = "game_over"
)

// GameEvent is a value copy of something that happened in the broker. It is
// safe to hand to another goroutine: it shares no state with the session.
type GameEvent struct {
	Kind     GameEventKind `json:"kind"`
	GameID   string        `json:"game_id,omitempty"`
	Variant  string        `json:"variant,omitempty"`
	PlayerID string        `json:"player_id,omitempty"`
	Role     string        `json:"role,omitempty"`
	// Players is [first, second] for game_started.
	Players []string        `json:"players,omitempty"`
	Ply     int             `json:"ply,omitempty"`
	Action  json.RawMessage `json:"action,omitempty"`
	State   string          `json:"state,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Outcome string          `json:"outcome,omitempty"`
	At      time.Time       `json:"at"`
}
