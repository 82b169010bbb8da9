package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/broadside/internal/api/apierr"
	"github.com/mcoot/broadside/internal/api/request"
	"github.com/mcoot/broadside/internal/api/response"
	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/services/directory"
	"github.com/mcoot/broadside/internal/services/fire"
	"github.com/mcoot/broadside/internal/services/session"
)

// GameHandler handles game directory and session endpoints
type GameHandler struct {
	directoryController *directory.Controller
	sessionController   *session.Controller
	fireController      *fire.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	directoryController *directory.Controller,
	sessionController *session.Controller,
	fireController *fire.Controller,
) *GameHandler {
	return &GameHandler{
		directoryController: directoryController,
		sessionController:   sessionController,
		fireController:      fireController,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.directoryController.CreateGame(r.Context(), req.Capacity)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateGameResponse{
		GameID:   uint64(game.ID),
		Capacity: game.Capacity,
		State:    string(game.State),
	})
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.directoryController.ListGames(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DirectoryFromModel(games))
}

// Join handles POST /api/v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Handle == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("handle is required"))
		return
	}

	game, outcome, err := h.sessionController.Join(r.Context(), gameID, model.Handle(req.Handle))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	roster := make([]string, len(game.Players))
	for i, p := range game.Players {
		roster[i] = string(p)
	}
	response.JSON(w, http.StatusOK, response.JoinGameResponse{
		Outcome: string(outcome),
		GameID:  uint64(game.ID),
		State:   string(game.State),
		Roster:  roster,
	})
}

// View handles POST /api/v1/games/{id}/view
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.ViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	view, err := h.sessionController.GetView(r.Context(), gameID, model.Handle(req.Handle), req.Proof)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ViewFromModel(view))
}

// Fire handles POST /api/v1/games/{id}/fire
func (h *GameHandler) Fire(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.FireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.fireController.Fire(r.Context(), fire.Command{
		GameID: gameID,
		From:   req.From,
		Target: req.Target,
		X:      req.X,
		Y:      req.Y,
		Proof:  req.Proof,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FireFromModel(result))
}

// gameIDFromPath parses the {id} path variable
func gameIDFromPath(r *http.Request) (model.GameID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apierr.NewInvalidRequestError("invalid game id")
	}
	return model.GameID(id), nil
}
