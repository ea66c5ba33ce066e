package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

// MoveResult - what an accepted move did to the room.
type MoveResult struct {
	Index      int
	Player     entity.Player
	Outcome    Outcome
	NextPlayer int
}

// MakeMove - applies a move of the connection to the room. The caller holds the room lock.
// A rejected move leaves the board and the turn cursor untouched.
func MakeMove(room *entity.Room, connID string, cell int) (*MoveResult, error) {
	player, err := validateMove(room, connID, cell)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	board, err := room.Board.Place(cell, player.Symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	room.Board = board
	room.ResetIdleTurns()

	result := &MoveResult{
		Index:   cell,
		Player:  *player,
		Outcome: Evaluate(room.Board, room.Rules.Lines),
	}

	if result.Outcome.Kind == Ongoing {
		result.NextPlayer = room.AdvanceTurn()
	} else {
		room.Terminate()
		result.NextPlayer = room.CurrentPlayer
	}

	return result, nil
}

// validateMove - checks room state, turn ownership, then the cell itself.
func validateMove(room *entity.Room, connID string, cell int) (*entity.Player, error) {
	if !room.IsPlaying() || len(room.Players) < entity.MinSeats {
		return nil, apperror.ErrInvalidState
	}

	if len(room.Board) != room.Rules.Cells() {
		return nil, fmt.Errorf("%w: %d cells, expected %d", apperror.ErrMalformedBoard, len(room.Board), room.Rules.Cells())
	}

	player := room.ActivePlayer()
	if player == nil || player.ConnID != connID {
		return nil, apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(room.Board) {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrOutOfRange, cell)
	}

	if room.Board[cell] != entity.EmptyCell {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return player, nil
}
