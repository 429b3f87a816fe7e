package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Game record statuses.
const (
	GameStatusActive   = "active"
	GameStatusFinished = "finished"
	// GameStatusAborted marks records a previous process left active.
	GameStatusAborted = "aborted"
)

// Outcomes stored on a finished GameRecord, from the first mover's side of the board.
const (
	OutcomeFirstWins          = "first_wins"
	OutcomeSecondWins         = "second_wins"
	OutcomeDraw               = "draw"
	OutcomeFirstDisconnected  = "first_disconnected"
	OutcomeSecondDisconnected = "second_disconnected"
)

// GameRecord is the history row of one session between two anonymous players.
// It is written by the recorder and never read back into a live session.
type GameRecord struct {
	// GameID is the session id (UUID).
	GameID string `gorm:"primaryKey" json:"game_id"`
	// Variant names the rules the game was played under ("chess", "tictactoe").
	Variant string `gorm:"type:text;not null" json:"variant"`
	// FirstPlayerID is the anonymous id of the first mover.
	FirstPlayerID string `gorm:"type:text;not null;index" json:"first_player_id"`
	// SecondPlayerID is the anonymous id of the second mover.
	SecondPlayerID string `gorm:"type:text;not null;index" json:"second_player_id"`
	// Players holds both anonymous ids for "? = ANY(players)" lookups.
	Players pq.StringArray `gorm:"type:text[]" json:"players"`
	Status  string         `gorm:"type:text;not null;index" json:"status"`
	Outcome string         `gorm:"type:text" json:"outcome,omitempty"`
	// Plies counts accepted actions.
	Plies     int        `json:"plies"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// BeforeCreate fills in a game id when none was assigned and keeps Players
// in step with the two player columns.
func (g *GameRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if g.GameID == "" {
		g.GameID = uuid.New().String()
	}
	if len(g.Players) == 0 {
		g.Players = pq.StringArray{g.FirstPlayerID, g.SecondPlayerID}
	}
	return
}
