package handler

import (
	"net/http"

	"github.com/mcoot/broadside/internal/api/apierr"
	"github.com/mcoot/broadside/internal/api/response"
	"github.com/mcoot/broadside/internal/services/identity"
)

// PlayerHandler handles identity issuance
type PlayerHandler struct {
	identityService *identity.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(identityService *identity.Service) *PlayerHandler {
	return &PlayerHandler{
		identityService: identityService,
	}
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.identityService.IssueIdentity(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.IdentityFromModel(id))
}
