// Package factory wires the application together
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/goban-go/internal/notify"
	"github.com/mcoot/goban-go/internal/services/game"
	"github.com/mcoot/goban-go/internal/services/matchmaking"
	"github.com/mcoot/goban-go/internal/services/registry"
	"github.com/mcoot/goban-go/internal/storage"
	"github.com/mcoot/goban-go/internal/storage/memory"
	redisstorage "github.com/mcoot/goban-go/internal/storage/redis"
	"github.com/mcoot/goban-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage
	Clock   clockwork.Clock

	Hub         *ws.Hub
	Registry    *registry.Service
	Matchmaking *matchmaking.Service
	Games       *game.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	hub := ws.NewHub(logger)
	app := newWithDependencies(store, clockwork.NewRealClock(), hub, logger)
	app.Hub = hub
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clockwork.Clock, notifier notify.Notifier, logger *slog.Logger) *App {
	reg := registry.New(store, notifier, clk, logger)
	games := game.NewController(store, notifier, clk, logger)
	mm := matchmaking.New(store, games, notifier, clk, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Registry:    reg,
		Matchmaking: mm,
		Games:       games,
	}
}
