package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	speechmodel "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/speech"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/pkg/logger"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/assistant"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/conditions"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/skin"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/speech"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/terminology"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/triage"
)

// flowtester runs one assistant flow against the configured model from the
// command line, e.g.
//
//	go run ./cmd/tools/flowtester -mode=triage -text="I have chest pain"
//	go run ./cmd/tools/flowtester -mode=skin -image=rash.jpg
//	go run ./cmd/tools/flowtester -mode=tts -text="Take care" -out=reply.mp3
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] could not load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	mode := flag.String("mode", "", "flow to run: triage, conditions, simplify, skin, submit or tts")
	text := flag.String("text", "", "input text")
	imagePath := flag.String("image", "", "photo file for -mode=skin")
	outputPath := flag.String("out", "", "audio output path for -mode=tts")
	voice := flag.String("voice", "", "TTS voice id, defaults to the configured voice")
	timeout := flag.Duration("timeout", 60*time.Second, "request timeout")
	verbose := flag.Bool("v", false, "log flow outcomes")

	flag.Parse()

	zlog := zap.NewNop()
	if *verbose {
		zlog = logger.New(cfg.Log)
		defer func() { _ = zlog.Sync() }()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *mode {
	case "tts":
		runTTS(ctx, cfg, zlog, *text, *voice, *outputPath)
		return
	case "triage", "conditions", "simplify", "skin", "submit":
	default:
		flag.Usage()
		log.Fatal("choose a flow with -mode")
	}

	if !cfg.AI.Enabled() {
		log.Println("[WARN] Ark credentials missing, flows will answer from their fallbacks")
	}

	switch *mode {
	case "triage":
		svc, err := triage.NewService(ctx, chatModel(ctx, cfg), zlog)
		must(err)
		printJSON(svc.Assess(ctx, requireText(*text)))
	case "conditions":
		svc, err := conditions.NewService(ctx, chatModel(ctx, cfg), zlog)
		must(err)
		printJSON(svc.Map(ctx, requireText(*text)))
	case "simplify":
		svc, err := terminology.NewService(ctx, chatModel(ctx, cfg), zlog)
		must(err)
		printJSON(svc.Simplify(ctx, requireText(*text)))
	case "skin":
		runSkin(ctx, cfg, zlog, *imagePath)
	case "submit":
		runSubmit(ctx, cfg, zlog, requireText(*text))
	}
}

func runSkin(ctx context.Context, cfg *config.Config, zlog *zap.Logger, imagePath string) {
	if imagePath == "" {
		log.Fatal("-mode=skin needs -image")
	}
	data, err := os.ReadFile(imagePath)
	must(err)

	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(imagePath)))
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	uri := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)

	svc, err := skin.NewService(ctx, visionModel(ctx, cfg), zlog)
	must(err)

	result, err := svc.Analyze(ctx, uri)
	must(err)
	printJSON(result)
}

func runSubmit(ctx context.Context, cfg *config.Config, zlog *zap.Logger, text string) {
	model := chatModel(ctx, cfg)
	triageSvc, err := triage.NewService(ctx, model, zlog)
	must(err)
	conditionsSvc, err := conditions.NewService(ctx, model, zlog)
	must(err)

	svc := assistant.NewService(triageSvc, conditionsSvc, speech.NewService(cfg.Speech, zlog), nil,
		assistant.Options{ReplyAudio: cfg.Speech.ReplyAudio}, zlog)

	reply, err := svc.Submit(ctx, "flowtester", text)
	must(err)
	if len(reply.AudioURL) > 64 {
		reply.AudioURL = reply.AudioURL[:64] + "..."
	}
	printJSON(reply)
}

func runTTS(ctx context.Context, cfg *config.Config, zlog *zap.Logger, text, voice, outputPath string) {
	if strings.TrimSpace(text) == "" {
		log.Fatal("-mode=tts needs -text")
	}

	svc := speech.NewService(cfg.Speech, zlog)
	if !svc.Enabled() {
		log.Fatal("speech synthesis is not configured, set SPEECH_APP_ID and SPEECH_ACCESS_TOKEN")
	}

	log.Printf("synthesizing: voice=%s format=%s", firstNonEmpty(voice, cfg.Speech.Voice), cfg.Speech.Format)
	resp, err := svc.Synthesize(ctx, speechmodel.TTSRequest{Text: text, Voice: voice})
	if err != nil {
		log.Fatalf("tts failed: %v", err)
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("tts-output-%d.%s", time.Now().Unix(), resp.Format)
	}
	if err := os.WriteFile(outputPath, resp.AudioData, 0o644); err != nil {
		log.Fatalf("failed to write audio file: %v", err)
	}

	log.Printf("tts ok: wrote %s (%d bytes, %dms)", outputPath, len(resp.AudioData), resp.Duration)
}
