package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/middleware"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/chat"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/pkg/utils"
)

// DefaultHeartbeat is the keep-alive interval of an idle stream.
const DefaultHeartbeat = 15 * time.Second

// Subscriber hands out history event subscriptions.
type Subscriber interface {
	Subscribe(userID string) (<-chan chat.HistoryEvent, func())
}

// Handler pushes history changes to the browser over Server-Sent Events.
type Handler struct {
	history   Subscriber
	heartbeat time.Duration
	log       *zap.Logger
}

// New creates the stream handler.
func New(history Subscriber, heartbeat time.Duration, log *zap.Logger) *Handler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{history: history, heartbeat: heartbeat, log: log}
}

// RegisterRoutes mounts the event stream.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/history/events", h.handleEvents)
}

type statusEvent struct {
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	userID := middleware.UserID(r.Context())
	events, cancel := h.history.Subscribe(userID)
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	h.log.Debug("history stream opened", zap.String("user", userID))
	if err := utils.SendSSEEvent(w, flusher, "status", statusEvent{Message: "stream established", Time: time.Now().UTC()}); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Debug("history stream closed", zap.String("user", userID))
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, string(event.Type), event); err != nil {
				h.log.Debug("history stream write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
		}
	}
}
