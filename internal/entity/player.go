package entity

// Player - one occupied seat of a room.
type Player struct {
	Name      string
	UserID    string
	ConnID    string
	Amount    int64
	Number    int
	Symbol    string
	PushToken string
}

// PublicPlayer - what peers are allowed to see about each other once the game is ready.
type PublicPlayer struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// RosterEntry - a seat as shown in roster updates.
type RosterEntry struct {
	Name         string `json:"name"`
	PlayerNumber int    `json:"playerNumber"`
	Symbol       string `json:"symbol"`
	Amount       int64  `json:"amount"`
}

// PushTarget - where a user receives push notifications.
type PushTarget struct {
	UserID string `json:"id"`
	Token  string `json:"push_token"`
}

func (that *Player) Public() PublicPlayer {
	return PublicPlayer{Name: that.Name, Symbol: that.Symbol}
}

func (that *Player) RosterEntry() RosterEntry {
	return RosterEntry{
		Name:         that.Name,
		PlayerNumber: that.Number,
		Symbol:       that.Symbol,
		Amount:       that.Amount,
	}
}
