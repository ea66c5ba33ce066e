package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/gridmatch-backend/internal/usecase"
)

const readLimit = 8 << 10

type sessions interface {
	JoinRoom(ctx context.Context, req usecase.JoinRequest) error
	MakeMove(ctx context.Context, req usecase.MoveRequest) error
	Disconnect(connID string)
}

type Server struct {
	logger         *slog.Logger
	hub            *Hub
	sessions       sessions
	originPatterns []string

	handlers   map[string]func(ctx context.Context, connID string, message *Message) error
	httpServer *http.Server
}

func New(logger *slog.Logger, hub *Hub, sessions sessions, originPatterns []string) *Server {
	server := &Server{
		logger:         logger.With("component", "websocket-server"),
		hub:            hub,
		sessions:       sessions,
		originPatterns: originPatterns,

		handlers: make(map[string]func(context.Context, string, *Message) error),
	}

	server.handlers[actionJoinRoom] = server.handleJoinRoom
	server.handlers[actionMakeMove] = server.handleMakeMove
	server.handlers[actionPing] = server.handlePing

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - serves websocket upgrades on /ws until Shutdown.
func (that *Server) Start(port string) error {
	that.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	that.logger.Info("websocket server started", "port", port)

	if err := that.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start websocket server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	that.hub.CloseAll()

	if that.httpServer == nil {
		return nil
	}

	if err := that.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown websocket server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	socket, err := websocket.Accept(writer, req, &websocket.AcceptOptions{
		OriginPatterns: that.originPatterns,
	})
	if err != nil {
		log.Warn("failed to accept websocket", "error", err)
		return
	}

	socket.SetReadLimit(readLimit)

	connID := uuid.NewString()
	log = log.With("connID", connID)

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	conn := that.hub.register(connID, socket)
	go that.hub.writeLoop(ctx, conn)

	log.Info("connection established")

	defer func() {
		that.hub.unregister(connID)
		that.sessions.Disconnect(connID)
		_ = socket.Close(websocket.StatusNormalClosure, "")

		log.Info("connection closed")
	}()

	that.handleMessages(ctx, log, connID, socket)
}

// handleMessages - reads frames until the connection fails and routes them by action.
func (that *Server) handleMessages(ctx context.Context, log *slog.Logger, connID string, socket *websocket.Conn) {
	for {
		msgType, data, err := socket.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				log.Debug("peer closed the connection")
			} else {
				log.Info("read failed", "error", err)
			}

			return
		}

		if msgType != websocket.MessageText {
			log.Debug("non-text frame ignored")
			continue
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Info("failed to unmarshal message", "error", err)
			that.hub.Emit(connID, actionError, "invalid message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Info("unknown action", "action", message.Action)
			that.hub.Emit(connID, actionError, "unknown action: "+message.Action)
			continue
		}

		if err = handler(ctx, connID, &message); err != nil {
			log.Debug("action rejected", "action", message.Action, "error", err)
		}
	}
}
