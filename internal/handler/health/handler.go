package health

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/middleware"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/health"
	healthservice "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/health"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/pkg/utils"
)

// Tracker is the health tools backend.
type Tracker interface {
	AddDataPoint(ctx context.Context, userID string, in health.DataPointInput) (health.DataPoint, error)
	DataHistory(ctx context.Context, userID string) ([]health.DataPoint, error)
	AddReminder(ctx context.Context, userID string, in health.ReminderInput) (health.Reminder, error)
	Reminders(ctx context.Context, userID string) ([]health.Reminder, error)
	DeleteReminder(ctx context.Context, userID, id string) error
	Facilities(kind health.FacilityKind) []health.Facility
}

// Handler serves the progress tracker, reminders and services finder.
type Handler struct {
	tracker Tracker
	log     *zap.Logger
}

// New creates the health tools handler.
func New(tracker Tracker, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{tracker: tracker, log: log}
}

// RegisterRoutes mounts /health/*.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/health", func(hr chi.Router) {
		hr.Get("/metrics", h.handleListDataPoints)
		hr.Post("/metrics", h.handleAddDataPoint)
		hr.Get("/reminders", h.handleListReminders)
		hr.Post("/reminders", h.handleAddReminder)
		hr.Delete("/reminders/{id}", h.handleDeleteReminder)
		hr.Get("/services", h.handleListServices)
	})
}

type dataPointsResponse struct {
	DataPoints []health.DataPoint `json:"dataPoints"`
}

func (h *Handler) handleListDataPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.tracker.DataHistory(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, dataPointsResponse{DataPoints: points})
}

func (h *Handler) handleAddDataPoint(w http.ResponseWriter, r *http.Request) {
	var in health.DataPointInput
	if err := utils.DecodeAndValidate(w, r, &in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	point, err := h.tracker.AddDataPoint(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, point)
}

type remindersResponse struct {
	Reminders []health.Reminder `json:"reminders"`
}

func (h *Handler) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.tracker.Reminders(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, remindersResponse{Reminders: reminders})
}

func (h *Handler) handleAddReminder(w http.ResponseWriter, r *http.Request) {
	var in health.ReminderInput
	if err := utils.DecodeAndValidate(w, r, &in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reminder, err := h.tracker.AddReminder(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, reminder)
}

func (h *Handler) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tracker.DeleteReminder(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type servicesResponse struct {
	Type     health.FacilityKind `json:"type"`
	Services []health.Facility   `json:"services"`
}

// handleListServices defaults to doctors, the first tab of the finder.
func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	kind := health.FacilityKind(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))))
	if kind == "" {
		kind = health.KindDoctor
	}
	utils.RespondJSON(w, http.StatusOK, servicesResponse{Type: kind, Services: h.tracker.Facilities(kind)})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, healthservice.ErrReminderNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, healthservice.ErrUserRequired):
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.Error("health tools request failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
