package apperror

import "errors"

// Join rejections.
var (
	ErrInvalidJoin   = errors.New("invalid join request")
	ErrInvalidBet    = errors.New("amount must match the existing room")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadySeated = errors.New("connection already holds a seat in this room")
)

// Move rejections. Every one of them wraps ErrInvalidMove.
var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrInvalidState   = errors.New("invalid game state or not enough players")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrOutOfRange     = errors.New("invalid cell index")
	ErrMalformedBoard = errors.New("invalid board state")
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrPushTargetNotFound  = errors.New("push target not found")
	ErrNotificationFailure = errors.New("notification failure")
)
