// Package game implements the room controller: the only component with
// mutable shared state under concurrent access. Mutations for one room
// are serialized behind a per-room lock; unrelated rooms progress in
// parallel.
package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcoot/goban-go/internal/model"
	"github.com/mcoot/goban-go/internal/notify"
	"github.com/mcoot/goban-go/internal/services/board"
	"github.com/mcoot/goban-go/internal/services/gameclock"
	"github.com/mcoot/goban-go/internal/storage"
)

// Controller owns all rooms and dispatches validated moves
type Controller struct {
	storage  storage.Storage
	notifier notify.Notifier
	clock    clockwork.Clock
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[model.RoomID]*sync.Mutex
}

// NewController creates a new game Controller
func NewController(store storage.Storage, notifier notify.Notifier, clock clockwork.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage:  store,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
		locks:    make(map[model.RoomID]*sync.Mutex),
	}
}

// roomLock returns the mutex serializing mutations for one room
func (c *Controller) roomLock(id model.RoomID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	return l
}

func (c *Controller) dropLock(id model.RoomID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, id)
}

// GetRoom retrieves a room by id
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// ListRooms returns all rooms in creation order
func (c *Controller) ListRooms(ctx context.Context) ([]*model.Room, error) {
	return c.storage.ListRooms(ctx)
}

// RoomFor resolves the room a player is currently seated in and the
// color they hold there
func (c *Controller) RoomFor(ctx context.Context, playerID model.PlayerID) (*model.Room, model.Color, error) {
	roomID, err := c.storage.GetPlayerRoom(ctx, playerID)
	if err != nil {
		return nil, "", err
	}
	if roomID == "" {
		return nil, "", model.ErrRoomNotFound
	}
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, "", err
	}
	color, ok := room.ColorOf(playerID)
	if !ok {
		return nil, "", model.ErrRoomNotFound
	}
	return room, color, nil
}

// ensureUnseated rejects a player who already holds a seat somewhere.
// The player-to-room mapping is authoritative; seating such a player
// again would silently overwrite it and strand their current room.
func (c *Controller) ensureUnseated(ctx context.Context, playerID model.PlayerID) error {
	roomID, err := c.storage.GetPlayerRoom(ctx, playerID)
	if err != nil {
		return err
	}
	if roomID != "" {
		return model.ErrAlreadyInRoom
	}
	return nil
}

// CreateOpenRoom publishes a waiting room with the creator seated black.
// The room is visible in every client's lobby until someone joins.
func (c *Controller) CreateOpenRoom(ctx context.Context, creator *model.Player, tc model.TimeControl) (*model.Room, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if err := c.ensureUnseated(ctx, creator.ID); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:          model.RoomID(uuid.NewString()),
		Creator:     creator.ID,
		CreatorName: creator.Username,
		Settings:    tc,
		Status:      model.RoomStatusWaiting,
		Black:       &model.Seat{PlayerID: creator.ID, Username: creator.Username},
		Board:       model.NewBoard(model.BoardSize),
		Turn:        model.ColorBlack,
		Clocks: map[model.Color]*model.ClockState{
			model.ColorBlack: gameclock.NewState(tc, now),
			model.ColorWhite: gameclock.NewState(tc, now),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	if err := c.storage.SetPlayerRoom(ctx, creator.ID, room.ID); err != nil {
		return nil, err
	}

	c.logger.Info("open room created",
		slog.String("room_id", string(room.ID)),
		slog.String("creator", creator.Username),
	)

	c.BroadcastRooms(ctx)
	return room, nil
}

// JoinOpenRoom seats the joiner white and starts the game.
// A second join on the same room fails with ErrRoomNotJoinable; the room
// is never double-created or double-seated.
func (c *Controller) JoinOpenRoom(ctx context.Context, roomID model.RoomID, joiner *model.Player) (*model.Room, error) {
	lock := c.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrRoomNotJoinable
	}
	if room.Creator == joiner.ID {
		return nil, model.ErrCannotJoinOwnRoom
	}
	if err := c.ensureUnseated(ctx, joiner.ID); err != nil {
		return nil, err
	}

	room.White = &model.Seat{PlayerID: joiner.ID, Username: joiner.Username}
	if err := c.start(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// StartMatch creates a room directly in playing status for an accepted
// invitation, inviter seated black and acceptor seated white. The room is
// constructed fully before either player is notified; this is the single
// commit point of the invitation protocol.
func (c *Controller) StartMatch(ctx context.Context, inviter, acceptor *model.Player, tc model.TimeControl) (*model.Room, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	for _, p := range []*model.Player{inviter, acceptor} {
		if err := c.ensureUnseated(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:          model.RoomID(uuid.NewString()),
		Creator:     inviter.ID,
		CreatorName: inviter.Username,
		Settings:    tc,
		Status:      model.RoomStatusWaiting,
		Black:       &model.Seat{PlayerID: inviter.ID, Username: inviter.Username},
		White:       &model.Seat{PlayerID: acceptor.ID, Username: acceptor.Username},
		Board:       model.NewBoard(model.BoardSize),
		Turn:        model.ColorBlack,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.start(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// start transitions a fully-seated room to playing. State is committed
// to storage before any notification goes out, so a partially-created
// game is never observable.
func (c *Controller) start(ctx context.Context, room *model.Room) error {
	now := c.clock.Now()
	room.Status = model.RoomStatusPlaying
	room.Turn = model.ColorBlack
	room.Clocks = map[model.Color]*model.ClockState{
		model.ColorBlack: gameclock.NewState(room.Settings, now),
		model.ColorWhite: gameclock.NewState(room.Settings, now),
	}
	room.UpdatedAt = now

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	for _, seat := range []*model.Seat{room.Black, room.White} {
		player, err := c.storage.GetPlayer(ctx, seat.PlayerID)
		if err != nil {
			return err
		}
		player.Status = model.StatusPlaying
		if err := c.storage.SavePlayer(ctx, player); err != nil {
			return err
		}
		if err := c.storage.SetPlayerRoom(ctx, seat.PlayerID, room.ID); err != nil {
			return err
		}
	}

	c.logger.Info("game started",
		slog.String("room_id", string(room.ID)),
		slog.String("black", room.Black.Username),
		slog.String("white", room.White.Username),
	)

	c.notifier.ToPlayer(room.Black.PlayerID, notify.EventGameStart, notify.GameStart{
		GameID:        string(room.ID),
		Color:         model.ColorBlack,
		Opponent:      room.White.Username,
		Board:         room.Board.Cells,
		CurrentPlayer: room.Turn,
		RemainingTime: room.Clocks,
	})
	c.notifier.ToPlayer(room.White.PlayerID, notify.EventGameStart, notify.GameStart{
		GameID:        string(room.ID),
		Color:         model.ColorWhite,
		Opponent:      room.Black.Username,
		Board:         room.Board.Cells,
		CurrentPlayer: room.Turn,
		RemainingTime: room.Clocks,
	})

	c.BroadcastRooms(ctx)
	c.broadcastPlayers(ctx)
	return nil
}

// MakeMove validates and commits one move: board mutation, clock tick for
// the acting color, turn flip, moveMade notification. A failed move
// leaves the room completely unchanged. If the tick exhausts the last
// byoyomi period the room ends on time immediately after the move.
func (c *Controller) MakeMove(ctx context.Context, roomID model.RoomID, color model.Color, x, y int) error {
	if !color.Valid() {
		return model.ErrInvalidColor
	}

	lock := c.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Status != model.RoomStatusPlaying {
		return model.ErrGameNotInProgress
	}
	if room.Turn != color {
		return model.ErrNotYourTurn
	}

	captured, err := board.ApplyMove(room.Board, model.Position{X: x, Y: y}, color)
	if err != nil {
		return err
	}

	now := c.clock.Now()
	cs := room.Clocks[color]
	ticked, expired := gameclock.Tick(*cs, now.Sub(cs.LastTick), room.Settings)
	ticked.LastTick = now
	room.Clocks[color] = &ticked
	// The opponent's clock starts running from this instant; resetting
	// both references together keeps idle time from leaking into either
	room.Clocks[color.Opponent()].LastTick = now

	room.Turn = color.Opponent()
	room.UpdatedAt = now

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	if captured == nil {
		captured = []model.Position{}
	}
	move := notify.MoveMade{
		X:              x,
		Y:              y,
		Color:          color,
		NextPlayer:     room.Turn,
		CapturedStones: captured,
		RemainingTime:  room.Clocks,
	}
	c.notifier.ToPlayer(room.Black.PlayerID, notify.EventMoveMade, move)
	c.notifier.ToPlayer(room.White.PlayerID, notify.EventMoveMade, move)

	if expired {
		return c.endRoom(ctx, room, color.Opponent(), model.EndReasonTimeout)
	}
	return nil
}

// Resign unconditionally ends the room in favor of the opposing color
func (c *Controller) Resign(ctx context.Context, roomID model.RoomID, color model.Color) error {
	if !color.Valid() {
		return model.ErrInvalidColor
	}

	lock := c.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Status != model.RoomStatusPlaying {
		return model.ErrGameNotInProgress
	}

	return c.endRoom(ctx, room, color.Opponent(), model.EndReasonResignation)
}

// ReportTimeout handles a client-reported timeout. The report is treated
// as advisory: it is honored only if the authoritative clock state
// confirms the color is actually out of time.
func (c *Controller) ReportTimeout(ctx context.Context, roomID model.RoomID, color model.Color) error {
	if !color.Valid() {
		return model.ErrInvalidColor
	}

	lock := c.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Status != model.RoomStatusPlaying {
		return model.ErrGameNotInProgress
	}
	// A color's clock only runs while it is to move
	if room.Turn != color {
		return model.ErrClockNotExpired
	}
	if !gameclock.ExpiredAt(*room.Clocks[color], c.clock.Now(), room.Settings) {
		return model.ErrClockNotExpired
	}

	return c.endRoom(ctx, room, color.Opponent(), model.EndReasonTimeout)
}

// HandleDisconnect cleans up after a player's connection drops.
// A mid-game disconnect is an implicit resignation of that seat, which
// ends and discards the room; a waiting room loses the seat and is
// discarded once both seats are vacant. Running this twice for the
// same player is a no-op.
func (c *Controller) HandleDisconnect(ctx context.Context, playerID model.PlayerID) error {
	roomID, err := c.storage.GetPlayerRoom(ctx, playerID)
	if err != nil {
		return err
	}
	if roomID == "" {
		return nil
	}

	lock := c.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return c.storage.ClearPlayerRoom(ctx, playerID)
		}
		return err
	}

	if room.Status == model.RoomStatusPlaying {
		if color, ok := room.ColorOf(playerID); ok {
			// endRoom discards the room and clears both mappings
			return c.endRoom(ctx, room, color.Opponent(), model.EndReasonResignation)
		}
	}

	room.Vacate(playerID)
	if err := c.storage.ClearPlayerRoom(ctx, playerID); err != nil {
		return err
	}

	if room.Empty() {
		if err := c.storage.DeleteRoom(ctx, room.ID); err != nil {
			return err
		}
		c.dropLock(room.ID)
		c.logger.Info("empty room discarded", slog.String("room_id", string(room.ID)))
	} else if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.BroadcastRooms(ctx)
	return nil
}

// endRoom finishes a room: statuses revert to online, the player-to-room
// mapping is cleared for both seats, and gameEnd goes out to both.
// A finished room is terminal, so it is discarded rather than kept in
// storage and in lobby broadcasts. Callers must hold the room lock.
func (c *Controller) endRoom(ctx context.Context, room *model.Room, winner model.Color, reason string) error {
	room.Status = model.RoomStatusFinished
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.DeleteRoom(ctx, room.ID); err != nil {
		return err
	}
	c.dropLock(room.ID)

	for _, seat := range []*model.Seat{room.Black, room.White} {
		if seat == nil {
			continue
		}
		if err := c.storage.ClearPlayerRoom(ctx, seat.PlayerID); err != nil {
			return err
		}
		player, err := c.storage.GetPlayer(ctx, seat.PlayerID)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue
			}
			return err
		}
		player.Status = model.StatusOnline
		if err := c.storage.SavePlayer(ctx, player); err != nil {
			return err
		}
	}

	c.logger.Info("game ended",
		slog.String("room_id", string(room.ID)),
		slog.String("winner", string(winner)),
		slog.String("reason", reason),
	)

	end := notify.GameEnd{Winner: winner, Reason: reason}
	for _, seat := range []*model.Seat{room.Black, room.White} {
		if seat != nil {
			c.notifier.ToPlayer(seat.PlayerID, notify.EventGameEnd, end)
		}
	}

	c.broadcastPlayers(ctx)
	c.BroadcastRooms(ctx)
	return nil
}

// BroadcastRooms pushes the current lobby room list to all sessions
func (c *Controller) BroadcastRooms(ctx context.Context) {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		c.logger.Error("failed to list rooms for broadcast", slog.String("error", err.Error()))
		return
	}
	c.notifier.Broadcast(notify.EventGameRooms, notify.RoomsPayload(rooms))
}

func (c *Controller) broadcastPlayers(ctx context.Context) {
	players, err := c.storage.ListPlayers(ctx)
	if err != nil {
		c.logger.Error("failed to list players for broadcast", slog.String("error", err.Error()))
		return
	}
	c.notifier.Broadcast(notify.EventOnlinePlayers, notify.PlayersPayload(players))
}
