package entity

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
)

type RoomStatus string

const (
	StatusFilling    RoomStatus = "filling"
	StatusReady      RoomStatus = "ready"
	StatusPlaying    RoomStatus = "playing"
	StatusTerminated RoomStatus = "terminated"
)

// Room - the full state of one match. Every method expects the caller to hold the room lock.
type Room struct {
	mu sync.Mutex

	Key            string
	Rules          *Rules
	Players        []*Player
	Board          Board
	Amount         int64
	CurrentPlayer  int
	StartingPlayer int
	Status         RoomStatus

	turnEpoch uint64
	idleTurns int
}

// RoomSnapshot - a copy of the room state that is safe to read without the lock.
type RoomSnapshot struct {
	RoomID        string         `json:"roomId"`
	Status        RoomStatus     `json:"status"`
	Amount        int64          `json:"amount"`
	CurrentPlayer int            `json:"currentPlayer"`
	Board         Board          `json:"board"`
	Players       []PublicPlayer `json:"players"`
}

func NewRoom(key string, rules *Rules) *Room {
	return &Room{
		Key:            key,
		Rules:          rules,
		Board:          NewBoard(rules.BoardSize),
		StartingPlayer: rules.StartingSeat,
		Status:         StatusFilling,
	}
}

func (that *Room) Lock() {
	that.mu.Lock()
}

func (that *Room) Unlock() {
	that.mu.Unlock()
}

// Join - seats the candidate at the next free seat and hands out the next symbol.
// The first joiner locks the wager of the room.
func (that *Room) Join(candidate Player) (*Player, error) {
	if that.Status != StatusFilling || len(that.Players) >= that.Rules.Seats {
		return nil, fmt.Errorf("%w: %d of %d seats taken", apperror.ErrRoomFull, len(that.Players), that.Rules.Seats)
	}

	if len(that.Players) > 0 && candidate.Amount != that.Amount {
		return nil, fmt.Errorf("%w: expected %d, got %d", apperror.ErrInvalidBet, that.Amount, candidate.Amount)
	}

	if that.PlayerByConn(candidate.ConnID) != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidJoin, apperror.ErrAlreadySeated)
	}

	if len(that.Players) == 0 {
		that.Amount = candidate.Amount
	}

	player := candidate
	player.Number = len(that.Players) + 1
	player.Symbol = that.Rules.Symbols[len(that.Players)]

	that.Players = append(that.Players, &player)

	if len(that.Players) == that.Rules.Seats {
		that.Status = StatusReady
	}

	return &player, nil
}

// Leave - frees the seat of a connection while the room is still filling.
// Remaining players move up so seats and symbols keep following join order.
func (that *Room) Leave(connID string) *Player {
	if that.Status != StatusFilling {
		return nil
	}

	for i, player := range that.Players {
		if player.ConnID != connID {
			continue
		}

		that.Players = append(that.Players[:i], that.Players[i+1:]...)
		for seat, rest := range that.Players {
			rest.Number = seat + 1
			rest.Symbol = that.Rules.Symbols[seat]
		}

		return player
	}

	return nil
}

// Start - moves a ready room into play with the turn on the starting seat.
func (that *Room) Start() {
	that.Status = StatusPlaying
	that.CurrentPlayer = that.StartingPlayer
	that.idleTurns = 0
}

func (that *Room) Terminate() {
	that.Status = StatusTerminated
}

func (that *Room) IsFilling() bool {
	return that.Status == StatusFilling
}

func (that *Room) IsReady() bool {
	return that.Status == StatusReady
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsTerminated() bool {
	return that.Status == StatusTerminated
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

// ActivePlayer - the player holding the turn, nil before anyone joined.
func (that *Room) ActivePlayer() *Player {
	if that.CurrentPlayer < 0 || that.CurrentPlayer >= len(that.Players) {
		return nil
	}

	return that.Players[that.CurrentPlayer]
}

// AdvanceTurn - passes the turn to the next seat and returns its index.
func (that *Room) AdvanceTurn() int {
	if len(that.Players) == 0 {
		return that.CurrentPlayer
	}

	that.CurrentPlayer = (that.CurrentPlayer + 1) % len(that.Players)

	return that.CurrentPlayer
}

func (that *Room) PlayerByConn(connID string) *Player {
	for _, player := range that.Players {
		if player.ConnID == connID {
			return player
		}
	}

	return nil
}

func (that *Room) PlayerBySymbol(symbol string) *Player {
	for _, player := range that.Players {
		if player.Symbol == symbol {
			return player
		}
	}

	return nil
}

// NextTurnEpoch - invalidates every turn deadline scheduled before this call.
func (that *Room) NextTurnEpoch() uint64 {
	that.turnEpoch++

	return that.turnEpoch
}

func (that *Room) TurnEpoch() uint64 {
	return that.turnEpoch
}

// RecordIdleTurn - counts a turn skipped by the clock and returns the streak length.
func (that *Room) RecordIdleTurn() int {
	that.idleTurns++

	return that.idleTurns
}

func (that *Room) ResetIdleTurns() {
	that.idleTurns = 0
}

func (that *Room) Roster() []RosterEntry {
	roster := make([]RosterEntry, 0, len(that.Players))
	for _, player := range that.Players {
		roster = append(roster, player.RosterEntry())
	}

	return roster
}

func (that *Room) PublicRoster() []PublicPlayer {
	roster := make([]PublicPlayer, 0, len(that.Players))
	for _, player := range that.Players {
		roster = append(roster, player.Public())
	}

	return roster
}

func (that *Room) Snapshot() RoomSnapshot {
	return RoomSnapshot{
		RoomID:        that.Key,
		Status:        that.Status,
		Amount:        that.Amount,
		CurrentPlayer: that.CurrentPlayer,
		Board:         that.Board.Clone(),
		Players:       that.PublicRoster(),
	}
}
