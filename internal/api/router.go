// Package api exposes a read-only HTTP view of the server state for
// dashboards and tooling. All gameplay goes through the websocket
// transport; nothing here mutates anything.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/goban-go/internal/api/apierr"
	"github.com/mcoot/goban-go/internal/api/response"
	"github.com/mcoot/goban-go/internal/middleware"
	"github.com/mcoot/goban-go/internal/model"
	"github.com/mcoot/goban-go/internal/notify"
	"github.com/mcoot/goban-go/internal/services/game"
	"github.com/mcoot/goban-go/internal/services/registry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Registry       *registry.Service
	GameController *game.Controller
	WSHandler      http.Handler
}

// NewRouter creates the full HTTP router: the REST endpoints under
// /api/v1 and the websocket endpoint at /ws
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	h := &handlers{
		registry: cfg.Registry,
		games:    cfg.GameController,
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/players", h.ListPlayers).Methods(http.MethodGet)
	api.HandleFunc("/rooms", h.ListRooms).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", h.GetRoom).Methods(http.MethodGet)

	if cfg.WSHandler != nil {
		r.Handle("/ws", cfg.WSHandler)
	}

	return r
}

type handlers struct {
	registry *registry.Service
	games    *game.Controller
}

func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

func (h *handlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.registry.ListOnline(r.Context(), "")
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersResponse{Players: notify.PlayersPayload(players)})
}

func (h *handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.games.ListRooms(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomsResponse{Rooms: notify.RoomsPayload(rooms)})
}

func (h *handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	room, err := h.games.GetRoom(r.Context(), model.RoomID(id))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomResponse{Room: notify.RoomPayload(room)})
}
