// Package rules defines the contract between the session broker and the game
// rules it delegates to. The broker never inspects game state itself: it hands
// the current state and a proposed action to an Oracle and adopts whatever the
// Oracle returns.
//
// Oracles must be pure functions of their inputs so that a session can treat
// the returned state as authoritative and replay-safe.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIllegalAction is wrapped by every Rejection.
var ErrIllegalAction = errors.New("illegal action")

// Role is a participant's fixed position in a session.
type Role int

const (
	First Role = iota
	Second
)

func (r Role) String() string {
	if r == Second {
		return "second"
	}
	return "first"
}

// Other returns the opposing role.
func (r Role) Other() Role {
	if r == First {
		return Second
	}
	return First
}

// State is an oracle-defined snapshot of a game (a FEN for chess, a board
// string for tic-tac-toe). The broker stores and forwards it untouched.
type State string

// Outcome reports whether a state is terminal and who won.
type Outcome int

const (
	Ongoing Outcome = iota
	FirstWins
	SecondWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case FirstWins:
		return "first_wins"
	case SecondWins:
		return "second_wins"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Concluded reports whether the game is over.
func (o Outcome) Concluded() bool {
	return o != Ongoing
}

// Verdict is the result of a legal action.
type Verdict struct {
	State   State
	Outcome Outcome
}

// Rejection explains why an action was refused.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", ErrIllegalAction, r.Reason)
}

func (r *Rejection) Unwrap() error {
	return ErrIllegalAction
}

func reject(format string, args ...interface{}) error {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// Oracle validates actions and computes resulting states.
type Oracle interface {
	// Variant names the game, e.g. "chess".
	Variant() string
	// Initial returns the state every new session starts from.
	Initial() State
	// Apply returns the state after role plays action, or a *Rejection.
	Apply(state State, action json.RawMessage, role Role) (Verdict, error)
}

// New returns the oracle for a configured variant name.
func New(variant string) (Oracle, bool) {
	switch variant {
	case "chess":
		return NewChessOracle(), true
	case "tictactoe":
		return NewTicTacToeOracle(), true
	default:
		return nil, false
	}
}
