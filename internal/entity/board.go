package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
)

const EmptyCell = ""

// Board - a square grid stored row by row. An empty string marks a free cell.
type Board []string

// NewBoard - creates an empty board with size*size cells.
func NewBoard(size int) Board {
	return make(Board, size*size)
}

// Place - returns a copy of the board with symbol written into the cell.
// The receiver is never modified.
func (that Board) Place(index int, symbol string) (Board, error) {
	if index < 0 || index >= len(that) {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrOutOfRange, index)
	}

	if that[index] != EmptyCell {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, index)
	}

	next := that.Clone()
	next[index] = symbol

	return next, nil
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) Clone() Board {
	next := make(Board, len(that))
	copy(next, that)

	return next
}
