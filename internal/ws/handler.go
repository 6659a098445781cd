package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/goban-go/internal/model"
	"github.com/mcoot/goban-go/internal/notify"
	"github.com/mcoot/goban-go/internal/services/game"
	"github.com/mcoot/goban-go/internal/services/matchmaking"
	"github.com/mcoot/goban-go/internal/services/registry"
)

var errAlreadyLoggedIn = errors.New("session already logged in")

// Handler upgrades HTTP requests to websocket sessions and dispatches
// inbound envelopes to the services
type Handler struct {
	hub         *Hub
	registry    *registry.Service
	matchmaking *matchmaking.Service
	games       *game.Controller
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewHandler creates a websocket Handler
func NewHandler(
	hub *Hub,
	reg *registry.Service,
	mm *matchmaking.Service,
	games *game.Controller,
	logger *slog.Logger,
	checkOrigin func(r *http.Request) bool,
) *Handler {
	return &Handler{
		hub:         hub,
		registry:    reg,
		matchmaking: mm,
		games:       games,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		hub:     h.hub,
		handler: h,
		conn:    conn,
		send:    make(chan []byte, 64),
	}
	h.hub.register(client)

	go client.writePump()
	go client.readPump()
}

// dispatch routes one inbound envelope. Every request is answered with a
// result ack carrying the request name; state changes additionally fan
// out through the notifier.
func (h *Handler) dispatch(c *Client, raw []byte) {
	// The connection outlives any single HTTP request
	ctx := context.Background()

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.sendEvent(c, notify.EventError, notify.ErrorInfo{Message: "malformed message"})
		return
	}

	if env.Event != RequestLogin && c.playerID == "" {
		h.ack(c, env.Event, model.ErrPlayerNotFound)
		return
	}

	switch env.Event {
	case RequestLogin:
		h.handleLogin(ctx, c, env.Data)
	case RequestCreateRoom:
		h.handleCreateRoom(ctx, c, env.Data)
	case RequestJoinRoom:
		h.handleJoinRoom(ctx, c, env.Data)
	case RequestInvitePlayer:
		h.handleInvite(ctx, c, env.Data)
	case RequestCounterInvite:
		h.handleCounter(ctx, c, env.Data)
	case RequestAcceptInvite:
		h.handleAccept(ctx, c, env.Data)
	case RequestMakeMove:
		h.handleMakeMove(ctx, c, env.Data)
	case RequestResign:
		h.handleResign(ctx, c)
	case RequestTimeout:
		h.handleTimeout(ctx, c)
	case RequestGetRooms:
		h.handleGetRooms(ctx, c)
	case RequestGetOnlinePlayers:
		h.handleGetOnlinePlayers(ctx, c)
	default:
		h.sendEvent(c, notify.EventError, notify.ErrorInfo{Message: "unknown event: " + env.Event})
	}
}

func (h *Handler) handleLogin(ctx context.Context, c *Client, data json.RawMessage) {
	var req LoginRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.ack(c, RequestLogin, model.ErrInvalidName)
		return
	}
	if c.playerID != "" {
		h.ack(c, RequestLogin, errAlreadyLoggedIn)
		return
	}

	player, err := h.registry.Register(ctx, req.Username)
	if err != nil {
		h.ack(c, RequestLogin, err)
		return
	}

	h.hub.bind(c, player.ID)
	h.ack(c, RequestLogin, nil)
	// New sessions get the lobby state immediately
	h.sendRooms(ctx, c)
}

func (h *Handler) handleCreateRoom(ctx context.Context, c *Client, data json.RawMessage) {
	var req CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.ack(c, RequestCreateRoom, model.ErrInvalidTimeControl)
		return
	}

	player, err := h.registry.GetPlayer(ctx, c.playerID)
	if err != nil {
		h.ack(c, RequestCreateRoom, err)
		return
	}

	_, err = h.games.CreateOpenRoom(ctx, player, req.Settings)
	h.ack(c, RequestCreateRoom, err)
}

func (h *Handler) handleJoinRoom(ctx context.Context, c *Client, data json.RawMessage) {
	var req JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.ack(c, RequestJoinRoom, model.ErrRoomNotFound)
		return
	}

	player, err := h.registry.GetPlayer(ctx, c.playerID)
	if err != nil {
		h.ack(c, RequestJoinRoom, err)
		return
	}

	_, err = h.games.JoinOpenRoom(ctx, model.RoomID(req.RoomID), player)
	h.ack(c, RequestJoinRoom, err)
}

func (h *Handler) handleInvite(ctx context.Context, c *Client, data json.RawMessage) {
	var req InviteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.ack(c, RequestInvitePlayer, model.ErrTargetNotFound)
		return
	}

	player, err := h.registry.GetPlayer(ctx, c.playerID)
	if err != nil {
		h.ack(c, RequestInvitePlayer, err)
		return
	}

	err = h.matchmaking.Invite(ctx, player, req.Target, req.Settings)
	h.ack(c, RequestInvitePlayer, err)
}

func (h *Handler) handleCounter(ctx context.Context, c *Client, data json.RawMessage) {
	var req CounterRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.ack(c, RequestCounterInvite, model.ErrNoSuchInvitation)
		return
	}

	player, err := h.registry.GetPlayer(ctx, c.playerID)
	if err != nil {
		h.ack(c, RequestCounterInvite, err)
		return
	}

	err = h.matchmaking.Counter(ctx, player, req.Inviter, req.Settings)
	h.ack(c, RequestCounterInvite, err)
}

func (h *Handler) handleAccept(ctx context.Context, c *Client, data json.RawMessage) {
	var req AcceptRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.ack(c, RequestAcceptInvite, model.ErrNoSuchInvitation)
		return
	}

	player, err := h.registry.GetPlayer(ctx, c.playerID)
	if err != nil {
		h.ack(c, RequestAcceptInvite, err)
		return
	}

	_, err = h.matchmaking.Accept(ctx, player, req.Inviter)
	h.ack(c, RequestAcceptInvite, err)
}

func (h *Handler) handleMakeMove(ctx context.Context, c *Client, data json.RawMessage) {
	var req MoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.ack(c, RequestMakeMove, model.ErrOutOfBounds)
		return
	}

	room, color, err := h.games.RoomFor(ctx, c.playerID)
	if err != nil {
		h.ack(c, RequestMakeMove, err)
		return
	}

	err = h.games.MakeMove(ctx, room.ID, color, req.X, req.Y)
	h.ack(c, RequestMakeMove, err)
}

func (h *Handler) handleResign(ctx context.Context, c *Client) {
	room, color, err := h.games.RoomFor(ctx, c.playerID)
	if err != nil {
		h.ack(c, RequestResign, err)
		return
	}

	err = h.games.Resign(ctx, room.ID, color)
	h.ack(c, RequestResign, err)
}

func (h *Handler) handleTimeout(ctx context.Context, c *Client) {
	room, color, err := h.games.RoomFor(ctx, c.playerID)
	if err != nil {
		h.ack(c, RequestTimeout, err)
		return
	}

	// The reporting client claims its own clock ran out; the controller
	// re-checks before honoring it
	err = h.games.ReportTimeout(ctx, room.ID, color)
	h.ack(c, RequestTimeout, err)
}

func (h *Handler) handleGetRooms(ctx context.Context, c *Client) {
	h.sendRooms(ctx, c)
}

func (h *Handler) handleGetOnlinePlayers(ctx context.Context, c *Client) {
	players, err := h.registry.ListOnline(ctx, c.playerID)
	if err != nil {
		h.ack(c, RequestGetOnlinePlayers, err)
		return
	}
	h.sendEvent(c, notify.EventOnlinePlayers, notify.PlayersPayload(players))
}

// handleDisconnect runs the full cleanup flow for a dropped session:
// game forfeit first, then pending invitations, then the registry entry
func (h *Handler) handleDisconnect(c *Client) {
	if c.playerID == "" {
		return
	}
	ctx := context.Background()

	if err := h.games.HandleDisconnect(ctx, c.playerID); err != nil {
		h.logger.Error("disconnect cleanup failed",
			slog.String("player_id", string(c.playerID)),
			slog.String("error", err.Error()),
		)
	}
	h.matchmaking.CancelFor(c.playerID)
	if err := h.registry.Unregister(ctx, c.playerID); err != nil {
		h.logger.Error("failed to unregister on disconnect",
			slog.String("player_id", string(c.playerID)),
			slog.String("error", err.Error()),
		)
	}
}

// ack answers a request with a result envelope; a nil error is success
func (h *Handler) ack(c *Client, request string, err error) {
	result := notify.Result{Request: request, Success: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	h.sendEvent(c, notify.EventResult, result)
}

func (h *Handler) sendRooms(ctx context.Context, c *Client) {
	rooms, err := h.games.ListRooms(ctx)
	if err != nil {
		h.ack(c, RequestGetRooms, err)
		return
	}
	h.sendEvent(c, notify.EventGameRooms, notify.RoomsPayload(rooms))
}

func (h *Handler) sendEvent(c *Client, event string, payload any) {
	data, err := h.hub.envelope(event, payload)
	if err != nil {
		return
	}
	h.hub.send(c, data)
}
