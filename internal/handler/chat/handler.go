package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/middleware"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/chat"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/assistant"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/pkg/utils"
)

// Assistant answers one user message.
type Assistant interface {
	Submit(ctx context.Context, userID, content string) (chat.Message, error)
}

// History exposes the caller's transcript.
type History interface {
	Transcript(ctx context.Context, userID string) ([]chat.Message, error)
	Clear(ctx context.Context, userID string) error
}

// Handler serves the conversation endpoints.
type Handler struct {
	assistant Assistant
	history   History
	log       *zap.Logger
}

// New creates the chat handler.
func New(assistant Assistant, history History, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{assistant: assistant, history: history, log: log}
}

// RegisterRoutes mounts the submit endpoint. It sits behind the AI timeout
// and rate limit, so it is registered separately from the history routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.handleSubmit)
}

// RegisterHistoryRoutes mounts the transcript endpoints.
func (h *Handler) RegisterHistoryRoutes(r chi.Router) {
	r.Get("/history", h.handleTranscript)
	r.Delete("/history", h.handleClear)
}

type submitRequest struct {
	Content string `json:"content" validate:"required"`
}

type submitResponse struct {
	Message chat.Message `json:"message"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload submitRequest
	if err := utils.DecodeAndValidate(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.assistant.Submit(r.Context(), middleware.UserID(r.Context()), payload.Content)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrEmptyMessage), errors.Is(err, assistant.ErrMessageTooLong):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("submit message failed", zap.Error(err))
			utils.RespondError(w, http.StatusInternalServerError, "failed to process message")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, submitResponse{Message: reply})
}

type transcriptResponse struct {
	Messages []chat.Message `json:"messages"`
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	messages, err := h.history.Transcript(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.log.Error("load transcript failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcriptResponse{Messages: messages})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(r.Context(), middleware.UserID(r.Context())); err != nil {
		h.log.Error("clear transcript failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
