package speech

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/speech"
	speechsvc "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/speech"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/pkg/utils"
)

// SpeechService abstracts synthesis so the handler can be tested without the
// upstream service.
type SpeechService interface {
	Enabled() bool
	Synthesize(ctx context.Context, req speech.TTSRequest) (*speech.TTSResponse, error)
}

// Handler serves text-to-speech requests.
type Handler struct {
	speechSvc SpeechService
	log       *zap.Logger
}

// New creates the speech handler.
func New(speechSvc SpeechService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{speechSvc: speechSvc, log: log}
}

// RegisterRoutes mounts /speech/*.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/speech", func(speechRouter chi.Router) {
		speechRouter.Post("/synthesize", h.handleSynthesize)
		speechRouter.Get("/health", h.handleHealth)
	})
}

// handleSynthesize returns JSON with an audio data URI, or the raw audio when
// the client asks for it with ?raw=true.
func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if h.speechSvc == nil || !h.speechSvc.Enabled() {
		utils.RespondError(w, http.StatusServiceUnavailable, "speech synthesis is not configured")
		return
	}

	var req speech.TTSRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.speechSvc.Synthesize(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, speechsvc.ErrEmptyText):
			utils.RespondError(w, http.StatusBadRequest, "text is required")
		case errors.Is(err, speechsvc.ErrNotConfigured):
			utils.RespondError(w, http.StatusServiceUnavailable, "speech synthesis is not configured")
		default:
			h.log.Error("tts failed", zap.Error(err))
			utils.RespondError(w, http.StatusBadGateway, "speech synthesis failed")
		}
		return
	}

	if raw, _ := strconv.ParseBool(r.URL.Query().Get("raw")); raw && len(resp.AudioData) > 0 {
		format := resp.Format
		if format == "" {
			format = "mp3"
		}
		contentType := "audio/" + format
		if format == "mp3" {
			contentType = "audio/mpeg"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(resp.AudioData)))
		w.Header().Set("Content-Disposition", "attachment; filename=speech."+format)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(resp.AudioData); err != nil {
			h.log.Warn("failed to write audio response", zap.Error(err))
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "disabled"
	if h.speechSvc != nil && h.speechSvc.Enabled() {
		status = "healthy"
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"service": "speech",
	})
}
