package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler/auth"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler/chat"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler/health"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler/speech"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler/stream"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler/tools"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/metrics"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/middleware"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/pkg/utils"
)

// HistoryStore is the transcript store shared by the chat and stream handlers.
type HistoryStore interface {
	chat.History
	stream.Subscriber
}

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Assistant      chat.Assistant
	History        HistoryStore
	Tools          tools.Services
	Speech         speech.SpeechService
	Health         health.Tracker
	Auth           *middleware.Authenticator
	Limiter        *middleware.IPRateLimiter
	AllowedOrigins []string
	RequestTimeout time.Duration
	Heartbeat      time.Duration
	Log            *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	chatHandler := chat.New(deps.Assistant, deps.History, log)

	r.Route("/api", func(api chi.Router) {
		auth.New(deps.Auth, log).RegisterRoutes(api)

		api.Group(func(protected chi.Router) {
			protected.Use(deps.Auth.Middleware)

			chatHandler.RegisterHistoryRoutes(protected)
			stream.New(deps.History, deps.Heartbeat, log).RegisterRoutes(protected)
			health.New(deps.Health, log).RegisterRoutes(protected)

			// Model-backed routes are rate limited and bounded in time.
			protected.Group(func(ai chi.Router) {
				if deps.Limiter != nil {
					ai.Use(deps.Limiter.Middleware)
				}
				if deps.RequestTimeout > 0 {
					ai.Use(chimw.Timeout(deps.RequestTimeout))
				}

				chatHandler.RegisterRoutes(ai)
				tools.New(deps.Tools, log).RegisterRoutes(ai)
				speech.New(deps.Speech, log).RegisterRoutes(ai)
			})
		})
	})

	return r
}
