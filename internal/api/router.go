package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/broadside/internal/api/handler"
	"github.com/mcoot/broadside/internal/api/middleware"
	"github.com/mcoot/broadside/internal/notify"
	"github.com/mcoot/broadside/internal/services/directory"
	"github.com/mcoot/broadside/internal/services/fire"
	"github.com/mcoot/broadside/internal/services/identity"
	"github.com/mcoot/broadside/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	IdentityService     *identity.Service
	DirectoryController *directory.Controller
	SessionController   *session.Controller
	FireController      *fire.Controller
	Notifier            *notify.Notifier
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.IdentityService)
	gameHandler := handler.NewGameHandler(cfg.DirectoryController, cfg.SessionController, cfg.FireController)
	eventsHandler := handler.NewEventsHandler(cfg.Notifier)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Identity issuance; no credentials needed, this is first contact
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)

	// Game directory and session routes. View and fire carry proofs in
	// their bodies, so state reads are POSTs too.
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/join", gameHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/view", gameHandler.View).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/fire", gameHandler.Fire).Methods(http.MethodPost)

	// Change-notification streams
	api.HandleFunc("/events/lobby", eventsHandler.Directory).Methods(http.MethodGet)
	api.HandleFunc("/events/games/{id}", eventsHandler.Game).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
