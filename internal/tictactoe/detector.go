package tictactoe

import "github.com/rocketscienceinc/gridmatch-backend/internal/entity"

type OutcomeKind int

const (
	Ongoing OutcomeKind = iota
	Win
	Draw
)

func (that OutcomeKind) String() string {
	switch that {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Outcome - result of evaluating a board. Symbol and Line are set only for a win.
type Outcome struct {
	Kind   OutcomeKind
	Symbol string
	Line   entity.WinLine
}

// Evaluate - reports the first completed line in catalogue order, then a draw on a full board.
// When a move completes several lines at once the earliest line of the catalogue is reported;
// they all carry the same symbol.
func Evaluate(board entity.Board, lines []entity.WinLine) Outcome {
	for _, line := range lines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return Outcome{Kind: Win, Symbol: a, Line: line}
		}
	}

	if board.IsFull() {
		return Outcome{Kind: Draw}
	}

	return Outcome{Kind: Ongoing}
}
