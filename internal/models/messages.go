package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrMalformedMessage is returned for frames that are not JSON objects or
// carry no "type" discriminator. Such frames are dropped, never answered.
var ErrMalformedMessage = errors.New("malformed message")

// Wire message types. The set is closed: anything else parses as KindUnknown.
const (
	TypeFindGame       = "FindGame"
	TypeGameStarted    = "GameStarted"
	TypeAction         = "Action"
	TypeActionApplied  = "ActionApplied"
	TypeActionRejected = "ActionRejected"
	TypeGameOver       = "GameOver"

	// Spoken by the legacy web client.
	legacyTypeInitGame = "init_game"
	legacyTypeMove     = "move"
)

// Game results as seen by the recipient of a GameOver message.
const (
	ResultWin                  = "win"
	ResultLoss                 = "loss"
	ResultDraw                 = "draw"
	ResultOpponentDisconnected = "opponent_disconnected"
)

// MessageKind is the parsed discriminator of an inbound frame.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindFindGame
	KindAction
)

func (k MessageKind) String() string {
	switch k {
	case KindFindGame:
		return TypeFindGame
	case KindAction:
		return TypeAction
	default:
		return "Unknown"
	}
}

// ClientMessage is an inbound frame after parsing.
type ClientMessage struct {
	Kind MessageKind
	// Type is the raw discriminator, kept for logging unknown kinds.
	Type string
	// Action is the opaque domain payload of an Action message.
	Action json.RawMessage
}

type clientFrame struct {
	Type    *string         `json:"type"`
	Action  json.RawMessage `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type legacyMovePayload struct {
	Move json.RawMessage `json:"move"`
}

// ParseClientMessage decodes one inbound frame. Unknown but well-formed
// types are not an error: they come back as KindUnknown for the caller to drop.
func ParseClientMessage(raw []byte) (ClientMessage, error) {
	var frame clientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return ClientMessage{}, ErrMalformedMessage
	}
	if frame.Type == nil || *frame.Type == "" {
		return ClientMessage{}, ErrMalformedMessage
	}

	msg := ClientMessage{Type: *frame.Type}
	switch *frame.Type {
	case TypeFindGame, legacyTypeInitGame:
		msg.Kind = KindFindGame
	case TypeAction:
		msg.Kind = KindAction
		msg.Action = normalizeRaw(frame.Action)
	case legacyTypeMove:
		msg.Kind = KindAction
		msg.Action = legacyAction(frame.Payload)
	default:
		msg.Kind = KindUnknown
	}
	return msg, nil
}

// legacyAction unwraps {"payload":{"move":{...}}}, falling back to the payload itself.
func legacyAction(payload json.RawMessage) json.RawMessage {
	payload = normalizeRaw(payload)
	if payload == nil {
		return nil
	}
	var p legacyMovePayload
	if err := json.Unmarshal(payload, &p); err == nil && normalizeRaw(p.Move) != nil {
		return normalizeRaw(p.Move)
	}
	return payload
}

func normalizeRaw(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.RawMessage(trimmed)
}

// ServerMessage is every outbound frame. Only the fields of its Type are set.
type ServerMessage struct {
	Type   string          `json:"type"`
	Role   string          `json:"role,omitempty"`
	GameID string          `json:"game_id,omitempty"`
	Action json.RawMessage `json:"action,omitempty"`
	Reason string          `json:"reason,omitempty"`
	Result string          `json:"result,omitempty"`
}

func NewGameStarted(role, gameID string) ServerMessage {
	return ServerMessage{Type: TypeGameStarted, Role: role, GameID: gameID}
}

func NewActionApplied(action json.RawMessage) ServerMessage {
	return ServerMessage{Type: TypeActionApplied, Action: action}
}

func NewActionRejected(reason string) ServerMessage {
	return ServerMessage{Type: TypeActionRejected, Reason: reason}
}

func NewGameOver(result string) ServerMessage {
	return ServerMessage{Type: TypeGameOver, Result: result}
}
