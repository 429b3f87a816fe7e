package rules

import (
	"encoding/json"
	"strings"

	"github.com/notnil/chess"
)

// ChessMove is the action payload the web client sends, e.g.
// {"from":"e7","to":"e8","promotion":"q"}.
type ChessMove struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// uci renders the move in UCI long algebraic notation ("e7e8q").
func (m ChessMove) uci() string {
	return strings.ToLower(m.From + m.To + m.Promotion)
}

// ChessOracle plays standard chess. First is white, Second is black, and the
// state is the position's FEN.
type ChessOracle struct{}

func NewChessOracle() *ChessOracle {
	return &ChessOracle{}
}

func (o *ChessOracle) Variant() string { return "chess" }

func (o *ChessOracle) Initial() State {
	return State(chess.NewGame().Position().String())
}

func (o *ChessOracle) Apply(state State, action json.RawMessage, role Role) (Verdict, error) {
	var move ChessMove
	if err := json.Unmarshal(action, &move); err != nil {
		return Verdict{}, reject("action is not a move object")
	}
	if len(move.From) != 2 || len(move.To) != 2 {
		return Verdict{}, reject("move needs two-character from and to squares")
	}
	if len(move.Promotion) > 1 {
		return Verdict{}, reject("promotion must be a single piece letter")
	}

	fen, err := chess.FEN(string(state))
	if err != nil {
		return Verdict{}, reject("corrupt position: %v", err)
	}
	game := chess.NewGame(fen, chess.UseNotation(chess.UCINotation{}))

	if game.Position().Turn() != colorFor(role) {
		return Verdict{}, reject("it is %s to move", game.Position().Turn().Name())
	}

	if err := game.MoveStr(move.uci()); err != nil {
		return Verdict{}, reject("%s is not a legal move", move.uci())
	}

	return Verdict{
		State:   State(game.Position().String()),
		Outcome: chessOutcome(game.Outcome()),
	}, nil
}

func colorFor(role Role) chess.Color {
	if role == Second {
		return chess.Black
	}
	return chess.White
}

func chessOutcome(o chess.Outcome) Outcome {
	switch o {
	case chess.WhiteWon:
		return FirstWins
	case chess.BlackWon:
		return SecondWins
	case chess.Draw:
		return Draw
	default:
		return Ongoing
	}
}
