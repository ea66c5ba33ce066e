package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/gridmatch-backend/internal/usecase"
)

func (that *Server) handleJoinRoom(ctx context.Context, connID string, message *Message) error {
	var payload joinRoomPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		that.hub.Emit(connID, usecase.EventInvalidJoin, "malformed joinRoom payload")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	pushToken := payload.PushToken
	if pushToken == "" {
		pushToken = payload.ExpoPushToken
	}

	return that.sessions.JoinRoom(ctx, usecase.JoinRequest{
		PlayerName: payload.PlayerName,
		RoomID:     payload.RoomID,
		UserID:     payload.UserID,
		Amount:     payload.Amount,
		PushToken:  pushToken,
		ConnID:     connID,
	})
}

func (that *Server) handleMakeMove(ctx context.Context, connID string, message *Message) error {
	var payload makeMovePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		that.hub.Emit(connID, usecase.EventInvalidMove, "malformed makeMove payload")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	// a missing index is reported as out of range
	index := -1
	if payload.Index != nil {
		index = *payload.Index
	}

	return that.sessions.MakeMove(ctx, usecase.MoveRequest{
		RoomID:     payload.RoomID,
		Index:      index,
		PlayerName: payload.PlayerName,
		Symbol:     payload.Symbol,
		ConnID:     connID,
	})
}

func (that *Server) handlePing(_ context.Context, connID string, _ *Message) error {
	that.hub.Emit(connID, actionPong, nil)

	return nil
}
