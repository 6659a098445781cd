// Package matchmaking implements the invitation protocol that pairs two
// players into a game. Invitations are ephemeral negotiation state: they
// live only in this service's memory and never reach storage. A dropped
// connection or restart simply abandons the negotiation.
package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/goban-go/internal/model"
	"github.com/mcoot/goban-go/internal/notify"
	"github.com/mcoot/goban-go/internal/services/game"
	"github.com/mcoot/goban-go/internal/storage"
)

// Service manages pending invitations between players
type Service struct {
	storage  storage.Storage
	games    *game.Controller
	notifier notify.Notifier
	clock    clockwork.Clock
	logger   *slog.Logger

	mu sync.Mutex
	// Keyed by inviter then target; at most one live invitation per
	// direction of a pair. A re-invite overwrites the previous settings.
	invitations map[model.PlayerID]map[model.PlayerID]*model.Invitation
}

// New creates a new matchmaking Service
func New(store storage.Storage, games *game.Controller, notifier notify.Notifier, clock clockwork.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:     store,
		games:       games,
		notifier:    notifier,
		clock:       clock,
		logger:      logger,
		invitations: make(map[model.PlayerID]map[model.PlayerID]*model.Invitation),
	}
}

// Invite proposes a game to the named player. The target sees a
// gameInvitation event; no room exists until the target accepts.
// Re-inviting the same target replaces the pending settings.
func (s *Service) Invite(ctx context.Context, from *model.Player, targetName string, tc model.TimeControl) error {
	if err := tc.Validate(); err != nil {
		return err
	}

	target, err := s.storage.GetPlayerByName(ctx, targetName)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return model.ErrTargetNotFound
		}
		return err
	}
	if target.ID == from.ID {
		return model.ErrTargetNotFound
	}

	s.put(&model.Invitation{
		From:      from.ID,
		To:        target.ID,
		Settings:  tc,
		CreatedAt: s.clock.Now(),
	})

	s.logger.Info("invitation sent",
		slog.String("from", from.Username),
		slog.String("to", target.Username),
	)

	s.notifier.ToPlayer(target.ID, notify.EventGameInvitation, notify.Invitation{
		From:     from.Username,
		Settings: tc,
	})
	return nil
}

// Counter replies to an invitation with different settings, reversing the
// roles: the counter becomes the live proposal and the original inviter
// is now the one being invited. Countering without a live invitation from
// the named inviter fails.
func (s *Service) Counter(ctx context.Context, from *model.Player, inviterName string, tc model.TimeControl) error {
	if err := tc.Validate(); err != nil {
		return err
	}

	inviter, err := s.storage.GetPlayerByName(ctx, inviterName)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return model.ErrTargetNotFound
		}
		return err
	}

	s.mu.Lock()
	if s.get(inviter.ID, from.ID) == nil {
		s.mu.Unlock()
		return model.ErrNoSuchInvitation
	}
	s.remove(inviter.ID, from.ID)
	s.putLocked(&model.Invitation{
		From:      from.ID,
		To:        inviter.ID,
		Settings:  tc,
		CreatedAt: s.clock.Now(),
	})
	s.mu.Unlock()

	s.logger.Info("invitation countered",
		slog.String("from", from.Username),
		slog.String("to", inviter.Username),
	)

	s.notifier.ToPlayer(inviter.ID, notify.EventGameInvitation, notify.Invitation{
		From:     from.Username,
		Settings: tc,
	})
	return nil
}

// Accept commits the live invitation from the named inviter, creating a
// room with the inviter seated black under the settings as last proposed.
// The invitation is consumed first, so a second accept of the same
// invitation fails with ErrNoSuchInvitation.
func (s *Service) Accept(ctx context.Context, acceptor *model.Player, inviterName string) (*model.Room, error) {
	inviter, err := s.storage.GetPlayerByName(ctx, inviterName)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrTargetNotFound
		}
		return nil, err
	}

	s.mu.Lock()
	inv := s.get(inviter.ID, acceptor.ID)
	if inv == nil {
		s.mu.Unlock()
		return nil, model.ErrNoSuchInvitation
	}
	s.remove(inviter.ID, acceptor.ID)
	// A stale reverse proposal must not survive the match starting
	s.remove(acceptor.ID, inviter.ID)
	s.mu.Unlock()

	room, err := s.games.StartMatch(ctx, inviter, acceptor, inv.Settings)
	if err != nil {
		return nil, fmt.Errorf("starting match for accepted invitation: %w", err)
	}
	return room, nil
}

// CancelFor drops every pending invitation the player is involved in,
// in either role. Called on disconnect.
func (s *Service) CancelFor(playerID model.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.invitations, playerID)
	for from, targets := range s.invitations {
		delete(targets, playerID)
		if len(targets) == 0 {
			delete(s.invitations, from)
		}
	}
}

// Pending returns the live invitation from inviter to target, or nil
func (s *Service) Pending(inviter, target model.PlayerID) *model.Invitation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(inviter, target)
}

func (s *Service) put(inv *model.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(inv)
}

func (s *Service) putLocked(inv *model.Invitation) {
	targets, ok := s.invitations[inv.From]
	if !ok {
		targets = make(map[model.PlayerID]*model.Invitation)
		s.invitations[inv.From] = targets
	}
	targets[inv.To] = inv
}

func (s *Service) get(from, to model.PlayerID) *model.Invitation {
	return s.invitations[from][to]
}

func (s *Service) remove(from, to model.PlayerID) {
	targets := s.invitations[from]
	delete(targets, to)
	if len(targets) == 0 {
		delete(s.invitations, from)
	}
}
