package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
	"github.com/rocketscienceinc/gridmatch-backend/internal/tictactoe"
)

const defaultNotifyTimeout = 5 * time.Second

type roomRegistry interface {
	GetOrCreate(key string, create func() *entity.Room) (*entity.Room, bool)
	Get(key string) (*entity.Room, bool)
	Remove(key string, room *entity.Room) bool
}

type directory interface {
	LookupPushTarget(ctx context.Context, userID string) (*entity.PushTarget, error)
}

type notifier interface {
	Notify(ctx context.Context, target *entity.PushTarget, title, body string, data map[string]any) error
}

type turnClock interface {
	Arm(key string, onExpire func())
	Disarm(key string)
	DisarmAll()
}

// emitter - delivers one event to one connection. It must not block.
type emitter interface {
	Emit(connID, action string, payload any)
}

type Options struct {
	// MaxIdleTurns - consecutive clock-driven turns after which a match is aborted. Zero disables the limit.
	MaxIdleTurns  int
	NotifyTimeout time.Duration
}

type JoinRequest struct {
	PlayerName string
	RoomID     string
	UserID     string
	Amount     int64
	PushToken  string
	ConnID     string
}

// MoveRequest - PlayerName and Symbol are echoed by clients for logging only.
type MoveRequest struct {
	RoomID     string
	Index      int
	PlayerName string
	Symbol     string
	ConnID     string
}

// SessionManager - runs every room of the process: joins, moves, turn expiry and disconnects.
// Each room is its own critical section; events are emitted while the room lock is held
// so every occupant sees them in mutation order.
type SessionManager struct {
	logger    *slog.Logger
	rules     *entity.Rules
	rooms     roomRegistry
	directory directory
	notifier  notifier
	clock     turnClock
	emitter   emitter

	maxIdleTurns  int
	notifyTimeout time.Duration

	connMu    sync.Mutex
	connRooms map[string]map[string]*entity.Room

	// lifecycleMu orders notification spawns against Shutdown.
	lifecycleMu   sync.Mutex
	stopped       bool
	notifications sync.WaitGroup
	baseCtx       context.Context
	cancel        context.CancelFunc
}

func NewSessionManager(
	logger *slog.Logger,
	rules *entity.Rules,
	rooms roomRegistry,
	directory directory,
	notifier notifier,
	clock turnClock,
	emitter emitter,
	opts Options,
) *SessionManager {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &SessionManager{
		logger:    logger.With("component", "session-manager"),
		rules:     rules,
		rooms:     rooms,
		directory: directory,
		notifier:  notifier,
		clock:     clock,
		emitter:   emitter,

		maxIdleTurns:  opts.MaxIdleTurns,
		notifyTimeout: opts.NotifyTimeout,

		connRooms: make(map[string]map[string]*entity.Room),

		baseCtx: ctx,
		cancel:  cancel,
	}
}

// JoinRoom - seats the connection in the room, creating the room on first join.
// The returned error is already reported to the connection.
func (that *SessionManager) JoinRoom(_ context.Context, req JoinRequest) error {
	log := that.logger.With("method", "JoinRoom", "roomID", req.RoomID, "connID", req.ConnID, "userID", req.UserID)

	if req.PlayerName == "" || req.RoomID == "" || req.UserID == "" || req.Amount <= 0 {
		log.Info("join rejected: missing fields")
		that.emitter.Emit(req.ConnID, EventInvalidJoin, reasonMissingJoinFields)

		return fmt.Errorf("%w: player name, user id, room id and a positive amount are required", apperror.ErrInvalidJoin)
	}

	for {
		room, created := that.rooms.GetOrCreate(req.RoomID, func() *entity.Room {
			return entity.NewRoom(req.RoomID, that.rules)
		})
		if created {
			log.Info("room created", "amount", req.Amount)
		}

		room.Lock()
		if room.IsTerminated() {
			// removed between lookup and lock; the next lookup sees a fresh room
			room.Unlock()
			continue
		}

		err := that.joinLocked(log, room, req)
		room.Unlock()

		return err
	}
}

func (that *SessionManager) joinLocked(log *slog.Logger, room *entity.Room, req JoinRequest) error {
	player, err := room.Join(entity.Player{
		Name:      req.PlayerName,
		UserID:    req.UserID,
		ConnID:    req.ConnID,
		Amount:    req.Amount,
		PushToken: req.PushToken,
	})
	if err != nil {
		event, reason := joinRejection(err, that.rules.Seats)
		log.Info("join rejected", "event", event, "error", err)
		that.emitter.Emit(req.ConnID, event, reason)

		return fmt.Errorf("failed to join room %s: %w", room.Key, err)
	}

	that.trackConn(req.ConnID, room)

	log.Info("player joined", "playerNumber", player.Number, "symbol", player.Symbol)

	that.broadcastExcept(room, req.ConnID, EventPlayerJoined, joinedMessage(player.Name))
	that.emitter.Emit(req.ConnID, EventPlayerInfo, playerInfo(room, player))
	that.broadcast(room, EventPlayersUpdate, room.Roster())

	if room.IsReady() {
		that.startMatch(log, room)
	}

	return nil
}

// startMatch - expects the room lock.
func (that *SessionManager) startMatch(log *slog.Logger, room *entity.Room) {
	room.Start()

	log.Info("match started", "players", len(room.Players))

	that.broadcast(room, EventGameReady, GameReadyPayload{
		Players: room.PublicRoster(),
		RoomID:  room.Key,
	})
	that.broadcast(room, EventTurnChange, room.CurrentPlayer)
	that.armClock(room)
	that.spawnNotifications(log, room)
}

// spawnNotifications - expects the room lock. Nothing is spawned once Shutdown has begun.
func (that *SessionManager) spawnNotifications(log *slog.Logger, room *entity.Room) {
	that.lifecycleMu.Lock()
	defer that.lifecycleMu.Unlock()

	if that.stopped {
		log.Info("shutting down, match-ready notifications skipped")
		return
	}

	that.notifications.Add(len(room.Players))
	for _, player := range room.Players {
		go func(player entity.Player) {
			defer that.notifications.Done()
			that.notifyMatchReady(room, player)
		}(*player)
	}
}

// MakeMove - applies a move for the connection holding the turn.
// The returned error is already reported to the connection.
func (that *SessionManager) MakeMove(_ context.Context, req MoveRequest) error {
	log := that.logger.With("method", "MakeMove", "roomID", req.RoomID, "connID", req.ConnID, "index", req.Index)

	room, ok := that.rooms.Get(req.RoomID)
	if !ok {
		log.Info("move rejected: room not found")
		that.emitter.Emit(req.ConnID, EventInvalidMove, reasonInvalidState)

		return fmt.Errorf("%w: %w: %w", apperror.ErrInvalidMove, apperror.ErrInvalidState, apperror.ErrRoomNotFound)
	}

	room.Lock()
	defer room.Unlock()

	if !that.isLive(room) {
		that.emitter.Emit(req.ConnID, EventInvalidMove, reasonInvalidState)

		return fmt.Errorf("%w: %w: %w", apperror.ErrInvalidMove, apperror.ErrInvalidState, apperror.ErrRoomNotFound)
	}

	result, err := tictactoe.MakeMove(room, req.ConnID, req.Index)
	if err != nil {
		if errors.Is(err, apperror.ErrMalformedBoard) {
			log.Error("room board does not match the configured variant", "error", err)
		} else {
			log.Info("move rejected", "error", err, "claimedSymbol", req.Symbol, "claimedName", req.PlayerName)
		}

		that.emitter.Emit(req.ConnID, EventInvalidMove, moveRejection(err))

		return err
	}

	that.broadcast(room, EventMoveMade, MoveMadePayload{
		Index:      result.Index,
		Symbol:     result.Player.Symbol,
		PlayerName: result.Player.Name,
	})

	switch result.Outcome.Kind {
	case tictactoe.Win:
		winner := room.PlayerBySymbol(result.Outcome.Symbol)
		log.Info("match won", "symbol", result.Outcome.Symbol, "line", result.Outcome.Line)

		that.broadcast(room, EventGameOver, GameOverPayload{
			WinnerSymbol: result.Outcome.Symbol,
			Result:       winResult(winner.Name, result.Outcome.Symbol),
		})
		that.closeRoom(room)
	case tictactoe.Draw:
		log.Info("match drawn")

		that.broadcast(room, EventGameDraw, GameDrawPayload{Result: resultDraw})
		that.closeRoom(room)
	default:
		that.broadcast(room, EventTurnChange, result.NextPlayer)
		that.armClock(room)
	}

	return nil
}

// Disconnect - releases every seat held by the connection.
func (that *SessionManager) Disconnect(connID string) {
	for _, room := range that.untrackConn(connID) {
		that.leaveRoom(room, connID)
	}
}

func (that *SessionManager) leaveRoom(room *entity.Room, connID string) {
	log := that.logger.With("method", "leaveRoom", "roomID", room.Key, "connID", connID)

	room.Lock()
	defer room.Unlock()

	if !that.isLive(room) {
		return
	}

	player := room.PlayerByConn(connID)
	if player == nil {
		return
	}

	message := leftMessage(player.Name)

	if room.IsFilling() {
		room.Leave(connID)
		log.Info("player left a filling room", "remaining", len(room.Players))

		if room.IsEmpty() {
			that.closeRoom(room)
			return
		}

		that.broadcast(room, EventPlayerLeft, message)
		for _, rest := range room.Players {
			that.emitter.Emit(rest.ConnID, EventPlayerInfo, playerInfo(room, rest))
		}
		that.broadcast(room, EventPlayersUpdate, room.Roster())

		return
	}

	log.Info("player left a running match, aborting")

	that.broadcastExcept(room, connID, EventPlayerLeft, message)
	that.broadcastExcept(room, connID, EventGameAborted, GameAbortedPayload{Reason: message})
	that.closeRoom(room)
}

// armClock - expects the room lock. Any deadline armed before is invalidated.
func (that *SessionManager) armClock(room *entity.Room) {
	epoch := room.NextTurnEpoch()

	that.clock.Arm(room.Key, func() {
		that.expireTurn(room, epoch)
	})
}

// expireTurn - passes the turn on when the active player let the deadline run out.
func (that *SessionManager) expireTurn(room *entity.Room, epoch uint64) {
	room.Lock()
	defer room.Unlock()

	if that.baseCtx.Err() != nil || !that.isLive(room) || !room.IsPlaying() || room.TurnEpoch() != epoch {
		return
	}

	log := that.logger.With("method", "expireTurn", "roomID", room.Key)

	idle := room.RecordIdleTurn()
	if that.maxIdleTurns > 0 && idle >= that.maxIdleTurns {
		log.Info("match aborted after idle turns", "idleTurns", idle)

		that.broadcast(room, EventGameAborted, GameAbortedPayload{Reason: reasonIdleTurns})
		that.closeRoom(room)

		return
	}

	next := room.AdvanceTurn()
	log.Debug("turn expired", "nextPlayer", next, "idleTurns", idle)

	that.broadcast(room, EventTurnChange, next)
	that.armClock(room)
}

// closeRoom - expects the room lock. Terminates the room and drops it from the registry.
func (that *SessionManager) closeRoom(room *entity.Room) {
	room.Terminate()
	room.NextTurnEpoch()
	that.clock.Disarm(room.Key)
	that.rooms.Remove(room.Key, room)

	that.connMu.Lock()
	for _, player := range room.Players {
		if rooms, ok := that.connRooms[player.ConnID]; ok && rooms[room.Key] == room {
			delete(rooms, room.Key)
			if len(rooms) == 0 {
				delete(that.connRooms, player.ConnID)
			}
		}
	}
	that.connMu.Unlock()
}

func (that *SessionManager) notifyMatchReady(room *entity.Room, player entity.Player) {
	log := that.logger.With("method", "notifyMatchReady", "roomID", room.Key, "userID", player.UserID)

	ctx, cancel := context.WithTimeout(that.baseCtx, that.notifyTimeout)
	defer cancel()

	if !that.isLive(room) {
		return
	}

	target, err := that.directory.LookupPushTarget(ctx, player.UserID)
	if err != nil {
		if player.PushToken == "" {
			log.Warn("no push target", "error", err)
			return
		}

		log.Debug("using push token from join", "error", err)
		target = &entity.PushTarget{UserID: player.UserID, Token: player.PushToken}
	}

	if !that.isLive(room) {
		return
	}

	err = that.notifier.Notify(ctx, target, notificationTitle, notificationBody, map[string]any{"roomId": room.Key})
	if err != nil {
		log.Warn("failed to send push notification", "error", err)
		return
	}

	log.Debug("push notification sent")
}

// isLive - reports whether room is still the registered room for its key.
func (that *SessionManager) isLive(room *entity.Room) bool {
	current, ok := that.rooms.Get(room.Key)

	return ok && current == room
}

// RoomSnapshot - a lock-free copy of a live room.
func (that *SessionManager) RoomSnapshot(key string) (entity.RoomSnapshot, error) {
	room, ok := that.rooms.Get(key)
	if !ok {
		return entity.RoomSnapshot{}, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, key)
	}

	room.Lock()
	defer room.Unlock()

	if !that.isLive(room) {
		return entity.RoomSnapshot{}, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, key)
	}

	return room.Snapshot(), nil
}

// Shutdown - stops every turn clock and waits for pending notifications.
func (that *SessionManager) Shutdown(ctx context.Context) error {
	that.lifecycleMu.Lock()
	that.stopped = true
	that.cancel()
	that.lifecycleMu.Unlock()

	that.clock.DisarmAll()

	done := make(chan struct{})
	go func() {
		that.notifications.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to wait for notifications: %w", ctx.Err())
	}
}

func (that *SessionManager) broadcast(room *entity.Room, action string, payload any) {
	for _, player := range room.Players {
		that.emitter.Emit(player.ConnID, action, payload)
	}
}

func (that *SessionManager) broadcastExcept(room *entity.Room, connID, action string, payload any) {
	for _, player := range room.Players {
		if player.ConnID == connID {
			continue
		}

		that.emitter.Emit(player.ConnID, action, payload)
	}
}

func (that *SessionManager) trackConn(connID string, room *entity.Room) {
	that.connMu.Lock()
	defer that.connMu.Unlock()

	rooms, ok := that.connRooms[connID]
	if !ok {
		rooms = make(map[string]*entity.Room)
		that.connRooms[connID] = rooms
	}

	rooms[room.Key] = room
}

func (that *SessionManager) untrackConn(connID string) []*entity.Room {
	that.connMu.Lock()
	defer that.connMu.Unlock()

	rooms := make([]*entity.Room, 0, len(that.connRooms[connID]))
	for _, room := range that.connRooms[connID] {
		rooms = append(rooms, room)
	}

	delete(that.connRooms, connID)

	return rooms
}
