package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/broadside/internal/api/apierr"
	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/notify"
)

// EventsHandler serves the change-notification streams
type EventsHandler struct {
	notifier *notify.Notifier
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(notifier *notify.Notifier) *EventsHandler {
	return &EventsHandler{
		notifier: notifier,
	}
}

// Directory handles GET /api/v1/events/lobby: wakes whenever the game
// catalog changes
func (h *EventsHandler) Directory(w http.ResponseWriter, r *http.Request) {
	sub := h.notifier.Subscribe(notify.DirectoryChannel)
	notify.ServeSSE(w, r, sub)
}

// Game handles GET /api/v1/events/games/{id}: wakes at roster fill and
// round boundaries
func (h *EventsHandler) Game(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid game id"))
		return
	}

	sub := h.notifier.Subscribe(notify.GameChannel(model.GameID(id)))
	notify.ServeSSE(w, r, sub)
}
