package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

func newPlayingRoom(t *testing.T, boardSize, seats int) *entity.Room {
	t.Helper()

	rules, err := entity.NewRules(boardSize, seats, nil, 0)
	require.NoError(t, err)

	room := entity.NewRoom("room-1", rules)
	for i := 0; i < seats; i++ {
		conn := []string{"c1", "c2", "c3"}[i]
		_, err = room.Join(entity.Player{Name: "player-" + conn, ConnID: conn, Amount: 10})
		require.NoError(t, err)
	}
	room.Start()

	return room
}

func TestMakeMove(t *testing.T) {
	t.Run("Accepted move advances the turn", func(t *testing.T) {
		// Given: a started two seat room
		room := newPlayingRoom(t, 3, 2)

		// When: the first seat marks the center
		result, err := MakeMove(room, "c1", 4)
		require.NoError(t, err)

		// Then: X is on the board and the turn moved to seat 1
		assert.Equal(t, "X", room.Board[4])
		assert.Equal(t, Ongoing, result.Outcome.Kind)
		assert.Equal(t, 1, result.NextPlayer)
		assert.Equal(t, 1, room.CurrentPlayer)
		assert.Equal(t, "X", result.Player.Symbol)
		assert.Equal(t, 4, result.Index)
	})

	t.Run("Error on wrong turn", func(t *testing.T) {
		// Given: a started room where seat 0 holds the turn
		room := newPlayingRoom(t, 3, 2)

		// When: seat 1 tries to move
		_, err := MakeMove(room, "c2", 0)

		// Then: the move is rejected and nothing changes
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.NewBoard(3), room.Board)
		assert.Equal(t, 0, room.CurrentPlayer)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: X on cell 4, O on cell 0
		room := newPlayingRoom(t, 3, 2)
		_, err := MakeMove(room, "c1", 4)
		require.NoError(t, err)
		_, err = MakeMove(room, "c2", 0)
		require.NoError(t, err)
		before := room.Board.Clone()

		// When: X tries cell 0
		_, err = MakeMove(room, "c1", 0)

		// Then: the move is rejected, the board and cursor are untouched
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, room.Board)
		assert.Equal(t, 0, room.CurrentPlayer)
	})

	t.Run("Error on index out of range", func(t *testing.T) {
		room := newPlayingRoom(t, 3, 2)

		_, err := MakeMove(room, "c1", 9)

		require.ErrorIs(t, err, apperror.ErrOutOfRange)
		assert.Equal(t, 0, room.CurrentPlayer)
	})

	t.Run("Error when the room is not playing", func(t *testing.T) {
		rules, err := entity.NewRules(3, 2, nil, 0)
		require.NoError(t, err)
		room := entity.NewRoom("room-1", rules)
		_, err = room.Join(entity.Player{Name: "ann", ConnID: "c1", Amount: 10})
		require.NoError(t, err)

		_, err = MakeMove(room, "c1", 0)

		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Error on malformed board", func(t *testing.T) {
		room := newPlayingRoom(t, 3, 2)
		room.Board = entity.NewBoard(4)

		_, err := MakeMove(room, "c1", 0)

		require.ErrorIs(t, err, apperror.ErrMalformedBoard)
	})

	t.Run("Completing a line wins and terminates", func(t *testing.T) {
		// Given: X on 0 and 1, O on 3 and 4
		room := newPlayingRoom(t, 3, 2)
		for _, move := range []struct {
			conn string
			cell int
		}{{"c1", 0}, {"c2", 3}, {"c1", 1}, {"c2", 4}} {
			_, err := MakeMove(room, move.conn, move.cell)
			require.NoError(t, err)
		}

		// When: X takes cell 2
		result, err := MakeMove(room, "c1", 2)
		require.NoError(t, err)

		// Then: X wins with the top row and the room is terminated
		assert.Equal(t, Win, result.Outcome.Kind)
		assert.Equal(t, "X", result.Outcome.Symbol)
		assert.Equal(t, entity.WinLine{0, 1, 2}, result.Outcome.Line)
		assert.True(t, room.IsTerminated())
		assert.Equal(t, 0, room.CurrentPlayer)
	})

	t.Run("Filling the board without a line is a draw", func(t *testing.T) {
		// Given: a sequence ending in a full board with no winner
		room := newPlayingRoom(t, 3, 2)
		moves := []int{0, 1, 2, 4, 3, 5, 7, 6}
		for i, cell := range moves {
			_, err := MakeMove(room, []string{"c1", "c2"}[i%2], cell)
			require.NoError(t, err)
		}

		// When: X takes the last cell
		result, err := MakeMove(room, "c1", 8)
		require.NoError(t, err)

		// Then: the result is a draw
		assert.Equal(t, Draw, result.Outcome.Kind)
		assert.True(t, room.IsTerminated())
	})

	t.Run("Three seats rotate X, O, A", func(t *testing.T) {
		room := newPlayingRoom(t, 4, 3)

		for i, conn := range []string{"c1", "c2", "c3"} {
			result, err := MakeMove(room, conn, i*5)
			require.NoError(t, err)
			assert.Equal(t, room.Rules.Symbols[i], result.Player.Symbol)
		}

		assert.Equal(t, 0, room.CurrentPlayer)
	})

	t.Run("Accepted move resets idle streak", func(t *testing.T) {
		room := newPlayingRoom(t, 3, 2)
		room.RecordIdleTurn()
		room.RecordIdleTurn()

		_, err := MakeMove(room, "c1", 0)
		require.NoError(t, err)

		assert.Equal(t, 1, room.RecordIdleTurn())
	})
}
