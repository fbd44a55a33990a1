package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/handler/tools"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/middleware"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/health"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/pkg/logger"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/assistant"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/chat"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/conditions"
	healthservice "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/health"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/skin"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/speech"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/terminology"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/triage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog := logger.New(cfg.Log)
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	chatModel, visionModel := buildModels(ctx, cfg.AI, zlog)

	triageSvc, err := triage.NewService(ctx, chatModel, zlog)
	if err != nil {
		zlog.Fatal("failed to build triage flow", zap.Error(err))
	}
	conditionsSvc, err := conditions.NewService(ctx, chatModel, zlog)
	if err != nil {
		zlog.Fatal("failed to build symptom mapping flow", zap.Error(err))
	}
	terminologySvc, err := terminology.NewService(ctx, chatModel, zlog)
	if err != nil {
		zlog.Fatal("failed to build simplification flow", zap.Error(err))
	}
	skinSvc, err := skin.NewService(ctx, visionModel, zlog)
	if err != nil {
		zlog.Fatal("failed to build skin analysis flow", zap.Error(err))
	}

	speechSvc := speech.NewService(cfg.Speech, zlog)
	if speechSvc.Enabled() {
		zlog.Info("speech synthesis enabled", zap.Bool("reply_audio", cfg.Speech.ReplyAudio))
	} else {
		zlog.Info("speech credentials not configured, synthesis disabled")
	}

	history := chat.NewService(cfg.History)
	assistantSvc := assistant.NewService(
		triageSvc,
		conditionsSvc,
		speechSvc,
		history,
		assistant.Options{ReplyAudio: cfg.Speech.ReplyAudio},
		zlog,
	)

	authenticator := middleware.NewAuthenticator(cfg.Auth)
	if authenticator.Ephemeral() {
		zlog.Warn("AUTH_JWT_SECRET not configured, using a generated secret; issued tokens expire on restart")
	}

	router := handler.NewRouter(handler.Dependencies{
		Assistant: assistantSvc,
		History:   history,
		Tools: tools.Services{
			Triage:      triageSvc,
			Conditions:  conditionsSvc,
			Terminology: terminologySvc,
			Skin:        skinSvc,
		},
		Speech:         speechSvc,
		Health:         healthservice.NewService(cfg.History, health.NewMemoryDirectory(health.SeedFacilities())),
		Auth:           authenticator,
		Limiter:        middleware.NewIPRateLimiter(cfg.RateLimit),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		Log:            zlog,
	})

	startServer(ctx, cfg.Server, router, zlog)
}

// buildModels returns nil models when credentials are missing; every flow
// then answers from its fallback.
func buildModels(ctx context.Context, aiCfg config.AIConfig, zlog *zap.Logger) (model.BaseChatModel, model.BaseChatModel) {
	if !aiCfg.Enabled() {
		zlog.Warn("Ark credentials not configured, assistant flows run on fallbacks only")
		return nil, nil
	}

	chatModel, err := aiCfg.NewChatModel(ctx)
	if err != nil {
		zlog.Error("failed to initialize chat model, continuing on fallbacks", zap.Error(err))
		return nil, nil
	}

	visionModel, err := aiCfg.NewVisionModel(ctx)
	if err != nil {
		zlog.Error("failed to initialize vision model, skin analysis disabled", zap.Error(err))
		return chatModel, nil
	}

	zlog.Info("AI models initialized", zap.String("model", aiCfg.Model), zap.String("vision_model", aiCfg.VisionModel))
	return chatModel, visionModel
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, zlog *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	zlog.Info("HealthAssist backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
	zlog.Info("server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
