package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
)

func TestNewBoard(t *testing.T) {
	t.Run("3x3 board has 9 empty cells", func(t *testing.T) {
		// When: creating a board of size 3
		board := NewBoard(3)

		// Then: it has 9 empty cells
		require.Len(t, board, 9)
		for _, cell := range board {
			assert.Equal(t, EmptyCell, cell)
		}
	})

	t.Run("4x4 board has 16 empty cells", func(t *testing.T) {
		board := NewBoard(4)

		require.Len(t, board, 16)
		assert.False(t, board.IsFull())
	})
}

func TestBoard_Place(t *testing.T) {
	t.Run("Places symbol without touching the original", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard(3)

		// When: placing X into cell 4
		next, err := board.Place(4, "X")

		// Then: the new board holds X and the original stays empty
		require.NoError(t, err)
		assert.Equal(t, "X", next[4])
		assert.Equal(t, EmptyCell, board[4])
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		// Given: a board with X in cell 0
		board, err := NewBoard(3).Place(0, "X")
		require.NoError(t, err)

		// When: placing O into the same cell
		_, err = board.Place(0, "O")

		// Then: ErrCellOccupied is returned and the cell keeps X
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, "X", board[0])
	})

	t.Run("Error on index out of range", func(t *testing.T) {
		board := NewBoard(3)

		_, err := board.Place(9, "X")
		require.ErrorIs(t, err, apperror.ErrOutOfRange)

		_, err = board.Place(-1, "X")
		require.ErrorIs(t, err, apperror.ErrOutOfRange)
	})
}

func TestBoard_IsFull(t *testing.T) {
	board := Board{"X", "O", "X", "O", "X", "O", "O", "X", "O"}
	assert.True(t, board.IsFull())

	board[8] = EmptyCell
	assert.False(t, board.IsFull())
}
