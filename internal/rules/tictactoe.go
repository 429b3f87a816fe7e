package rules

import (
	"encoding/json"
	"strings"
)

const (
	emptyCell   = '.'
	firstMark   = 'X'
	secondMark  = 'O'
	boardLength = 9
)

// TicTacToeMove addresses a cell either by index (0-8, row-major) or by
// row and column (0-2).
type TicTacToeMove struct {
	Cell *int `json:"cell,omitempty"`
	Row  *int `json:"row,omitempty"`
	Col  *int `json:"col,omitempty"`
}

func (m TicTacToeMove) index() (int, bool) {
	if m.Cell != nil {
		return *m.Cell, *m.Cell >= 0 && *m.Cell < boardLength
	}
	if m.Row != nil && m.Col != nil {
		if *m.Row < 0 || *m.Row > 2 || *m.Col < 0 || *m.Col > 2 {
			return 0, false
		}
		return *m.Row*3 + *m.Col, true
	}
	return 0, false
}

// TicTacToeOracle plays 3x3 tic-tac-toe. First plays X. The state is a
// nine-character row-major board of 'X', 'O' and '.'.
type TicTacToeOracle struct{}

func NewTicTacToeOracle() *TicTacToeOracle {
	return &TicTacToeOracle{}
}

func (o *TicTacToeOracle) Variant() string { return "tictactoe" }

func (o *TicTacToeOracle) Initial() State {
	return State(strings.Repeat(string(emptyCell), boardLength))
}

func (o *TicTacToeOracle) Apply(state State, action json.RawMessage, role Role) (Verdict, error) {
	board := []byte(state)
	if len(board) != boardLength {
		return Verdict{}, reject("corrupt board")
	}

	var move TicTacToeMove
	if err := json.Unmarshal(action, &move); err != nil {
		return Verdict{}, reject("action is not a move object")
	}
	idx, ok := move.index()
	if !ok {
		return Verdict{}, reject("cell out of bounds")
	}

	mark := markFor(role)
	if toMove(board) != mark {
		return Verdict{}, reject("it is %c to move", toMove(board))
	}
	if board[idx] != emptyCell {
		return Verdict{}, reject("cell already occupied")
	}

	board[idx] = mark

	outcome := Ongoing
	switch {
	case checkWin(board, mark) && mark == firstMark:
		outcome = FirstWins
	case checkWin(board, mark):
		outcome = SecondWins
	case isDraw(board):
		outcome = Draw
	}

	return Verdict{State: State(board), Outcome: outcome}, nil
}

func markFor(role Role) byte {
	if role == Second {
		return secondMark
	}
	return firstMark
}

// toMove derives whose mark goes next from the counts on the board.
func toMove(board []byte) byte {
	var crosses, noughts int
	for _, c := range board {
		switch c {
		case firstMark:
			crosses++
		case secondMark:
			noughts++
		}
	}
	if crosses > noughts {
		return secondMark
	}
	return firstMark
}

func checkWin(board []byte, mark byte) bool {
	at := func(row, col int) bool { return board[row*3+col] == mark }
	for i := 0; i < 3; i++ {
		if at(i, 0) && at(i, 1) && at(i, 2) {
			return true
		}
		if at(0, i) && at(1, i) && at(2, i) {
			return true
		}
	}
	if at(0, 0) && at(1, 1) && at(2, 2) {
		return true
	}
	if at(0, 2) && at(1, 1) && at(2, 0) {
		return true
	}
	return false
}

func isDraw(board []byte) bool {
	for _, c := range board {
		if c == emptyCell {
			return false
		}
	}
	return true
}
