package models

import (
	"time"

	"gorm.io/gorm"
)

// MoveRecord is one accepted action in a game.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt.
type MoveRecord struct {
	gorm.Model
	// GameID is the session the action was accepted in.
	GameID string `gorm:"type:text;not null;index:idx_game_ply" json:"game_id"`
	// Ply is the 1-based index of the action within the game.
	Ply int `gorm:"not null;index:idx_game_ply" json:"ply"`
	// Role is the mover's role ("first" or "second").
	Role string `gorm:"type:text;not null" json:"role"`
	// PlayerID is the mover's anonymous id.
	PlayerID string `gorm:"type:text;not null" json:"player_id"`
	// Action is the raw action JSON exactly as relayed to both players.
	Action string `gorm:"type:text;not null" json:"action"`
	// State is the authoritative state after the action (e.g. a FEN).
	State     string    `gorm:"type:text" json:"state"`
	AppliedAt time.Time `json:"applied_at"`
}
