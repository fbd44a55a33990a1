package tools

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/conditions"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/skin"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/terminology"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/triage"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/pkg/utils"
)

type Triager interface {
	Assess(ctx context.Context, input string) triage.Result
}

type ConditionMapper interface {
	Map(ctx context.Context, symptoms string) conditions.Result
}

type Simplifier interface {
	Simplify(ctx context.Context, text string) terminology.Result
}

type SkinAnalyzer interface {
	Analyze(ctx context.Context, photoDataURI string) (skin.Result, error)
}

// Services groups the standalone assistant flows.
type Services struct {
	Triage      Triager
	Conditions  ConditionMapper
	Terminology Simplifier
	Skin        SkinAnalyzer
}

// Handler exposes each flow as its own endpoint so the browser tools can call
// them directly.
type Handler struct {
	svc Services
	log *zap.Logger
}

// New creates the tools handler.
func New(svc Services, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts /tools/*.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tools", func(tools chi.Router) {
		tools.Post("/triage", h.handleTriage)
		tools.Post("/conditions", h.handleConditions)
		tools.Post("/simplify", h.handleSimplify)
		tools.Post("/skin", h.handleSkin)
	})
}

type triageRequest struct {
	Input string `json:"input" validate:"required,max=4000"`
}

func (h *Handler) handleTriage(w http.ResponseWriter, r *http.Request) {
	var payload triageRequest
	if err := utils.DecodeAndValidate(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.svc.Triage.Assess(r.Context(), payload.Input))
}

type conditionsRequest struct {
	Symptoms string `json:"symptoms" validate:"required,max=4000"`
}

func (h *Handler) handleConditions(w http.ResponseWriter, r *http.Request) {
	var payload conditionsRequest
	if err := utils.DecodeAndValidate(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.svc.Conditions.Map(r.Context(), payload.Symptoms))
}

type simplifyRequest struct {
	MedicalText string `json:"medicalText" validate:"max=10000"`
}

func (h *Handler) handleSimplify(w http.ResponseWriter, r *http.Request) {
	var payload simplifyRequest
	if err := utils.DecodeAndValidate(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.svc.Terminology.Simplify(r.Context(), payload.MedicalText))
}

type skinRequest struct {
	PhotoDataURI string `json:"photoDataUri" validate:"required"`
}

func (h *Handler) handleSkin(w http.ResponseWriter, r *http.Request) {
	var payload skinRequest
	if err := utils.DecodeAndValidate(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Skin.Analyze(r.Context(), payload.PhotoDataURI)
	if err != nil {
		if errors.Is(err, skin.ErrInvalidImage) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("skin analysis failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to analyze image")
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}
