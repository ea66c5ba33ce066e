package websocket

import "encoding/json"

const (
	actionJoinRoom = "joinRoom"
	actionMakeMove = "makeMove"
	actionPing     = "ping"
	actionPong     = "pong"
	actionError    = "error"
)

// Message - every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinRoomPayload struct {
	PlayerName string `json:"playerName"`
	RoomID     string `json:"roomId"`
	UserID     string `json:"userId"`
	Amount     int64  `json:"amount"`
	PushToken  string `json:"pushToken"`
	// older clients send the token under this name
	ExpoPushToken string `json:"expoPushToken"`
}

type makeMovePayload struct {
	RoomID     string `json:"roomId"`
	Index      *int   `json:"index"`
	PlayerName string `json:"playerName"`
	Symbol     string `json:"symbol"`
}
