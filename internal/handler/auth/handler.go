package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/middleware"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/pkg/utils"
)

// Handler mints anonymous session tokens.
type Handler struct {
	auth *middleware.Authenticator
	log  *zap.Logger
}

// New creates the auth handler.
func New(auth *middleware.Authenticator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{auth: auth, log: log}
}

// RegisterRoutes mounts /auth/*.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/anonymous", h.handleAnonymous)
}

func (h *Handler) handleAnonymous(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.IssueAnonymous()
	if err != nil {
		h.log.Error("issue anonymous token failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, token)
}
