// Package registry tracks connected players and their status.
// It has no game semantics; rooms are owned by the game controller and
// only a player-to-room-id lookup is kept in storage.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcoot/goban-go/internal/model"
	"github.com/mcoot/goban-go/internal/notify"
	"github.com/mcoot/goban-go/internal/storage"
)

// Service manages the set of registered players
type Service struct {
	storage  storage.Storage
	notifier notify.Notifier
	clock    clockwork.Clock
	logger   *slog.Logger

	// Serializes the name-uniqueness check-and-set
	mu sync.Mutex
}

// New creates a new registry Service
func New(store storage.Storage, notifier notify.Notifier, clock clockwork.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Register creates a player for the given display name.
// Names are unique across all currently registered players; empty and
// whitespace-only names are rejected. Every successful registration
// broadcasts the updated online-player list.
func (s *Service) Register(ctx context.Context, username string) (*model.Player, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.storage.GetPlayerByName(ctx, name); err == nil {
		return nil, model.ErrNameTaken
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	player := &model.Player{
		ID:        model.PlayerID(uuid.NewString()),
		Username:  name,
		Status:    model.StatusOnline,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", player.Username),
	)

	s.BroadcastOnline(ctx)
	return player, nil
}

// Unregister removes a player. Idempotent: removing an unknown player is
// a no-op. Seat vacation for a player mid-game is the game controller's
// job and must happen before this is called.
func (s *Service) Unregister(ctx context.Context, playerID model.PlayerID) error {
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	if err := s.storage.DeletePlayer(ctx, playerID); err != nil {
		return err
	}
	if err := s.storage.ClearPlayerRoom(ctx, playerID); err != nil {
		return err
	}

	s.logger.Info("player unregistered",
		slog.String("player_id", string(playerID)),
		slog.String("username", player.Username),
	)

	s.BroadcastOnline(ctx)
	return nil
}

// GetPlayer retrieves a player by id
func (s *Service) GetPlayer(ctx context.Context, playerID model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, playerID)
}

// GetPlayerByName retrieves a player by display name
func (s *Service) GetPlayerByName(ctx context.Context, username string) (*model.Player, error) {
	return s.storage.GetPlayerByName(ctx, username)
}

// ListOnline returns all registered players except the excluded one, in
// registration order
func (s *Service) ListOnline(ctx context.Context, excluding model.PlayerID) ([]*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if p.ID == excluding {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// BroadcastOnline pushes the current online-player list to all sessions
func (s *Service) BroadcastOnline(ctx context.Context) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		s.logger.Error("failed to list players for broadcast", slog.String("error", err.Error()))
		return
	}
	s.notifier.Broadcast(notify.EventOnlinePlayers, notify.PlayersPayload(players))
}
