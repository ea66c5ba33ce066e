package usecase

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

// Outbound event names.
const (
	EventInvalidJoin   = "invalidJoin"
	EventInvalidBet    = "invalidBet"
	EventRoomFull      = "roomFull"
	EventPlayerJoined  = "playerJoined"
	EventPlayerInfo    = "playerInfo"
	EventPlayersUpdate = "playersUpdate"
	EventGameReady     = "gameReady"
	EventTurnChange    = "turnChange"
	EventMoveMade      = "moveMade"
	EventInvalidMove   = "invalidMove"
	EventGameOver      = "gameOver"
	EventGameDraw      = "gameDraw"
	EventPlayerLeft    = "playerLeft"
	EventGameAborted   = "gameAborted"
)

const (
	reasonMissingJoinFields = "Player name, userId, roomId, and amount are required"
	reasonAlreadySeated     = "You already hold a seat in this room"
	reasonInvalidBet        = "Amount must match the existing room"
	reasonInvalidState      = "Invalid game state or not enough players"
	reasonMalformedBoard    = "Invalid board state"
	reasonNotYourTurn       = "It's not your turn"
	reasonCellOccupied      = "Cell already occupied"
	reasonOutOfRange        = "Invalid cell index"
	reasonIdleTurns         = "Too many turns passed without a move"

	resultDraw = "It's a draw!"

	notificationTitle = "Game Ready!"
	notificationBody  = "Your game is ready to start!"
)

type PlayerInfoPayload struct {
	PlayerNumber int    `json:"playerNumber"`
	Symbol       string `json:"symbol"`
	PlayerName   string `json:"playerName"`
	RoomID       string `json:"roomId"`
	UserID       string `json:"userId"`
}

type GameReadyPayload struct {
	Players []entity.PublicPlayer `json:"players"`
	RoomID  string                `json:"roomId"`
}

type MoveMadePayload struct {
	Index      int    `json:"index"`
	Symbol     string `json:"symbol"`
	PlayerName string `json:"playerName"`
}

type GameOverPayload struct {
	WinnerSymbol string `json:"winnerSymbol"`
	Result       string `json:"result"`
}

type GameDrawPayload struct {
	Result string `json:"result"`
}

type GameAbortedPayload struct {
	Reason string `json:"reason"`
}

func playerInfo(room *entity.Room, player *entity.Player) PlayerInfoPayload {
	return PlayerInfoPayload{
		PlayerNumber: player.Number,
		Symbol:       player.Symbol,
		PlayerName:   player.Name,
		RoomID:       room.Key,
		UserID:       player.UserID,
	}
}

func joinedMessage(name string) string {
	return name + " joined the room"
}

func leftMessage(name string) string {
	return name + " left the room"
}

func winResult(name, symbol string) string {
	return fmt.Sprintf("%s (%s) wins!", name, symbol)
}

func roomFullReason(seats int) string {
	return fmt.Sprintf("This room already has %d players", seats)
}

// joinRejection - maps a join error to the failure event sent back to the joiner.
func joinRejection(err error, seats int) (string, string) {
	switch {
	case errors.Is(err, apperror.ErrRoomFull):
		return EventRoomFull, roomFullReason(seats)
	case errors.Is(err, apperror.ErrInvalidBet):
		return EventInvalidBet, reasonInvalidBet
	case errors.Is(err, apperror.ErrAlreadySeated):
		return EventInvalidJoin, reasonAlreadySeated
	default:
		return EventInvalidJoin, reasonMissingJoinFields
	}
}

func moveRejection(err error) string {
	switch {
	case errors.Is(err, apperror.ErrMalformedBoard):
		return reasonMalformedBoard
	case errors.Is(err, apperror.ErrNotYourTurn):
		return reasonNotYourTurn
	case errors.Is(err, apperror.ErrCellOccupied):
		return reasonCellOccupied
	case errors.Is(err, apperror.ErrOutOfRange):
		return reasonOutOfRange
	default:
		return reasonInvalidState
	}
}
