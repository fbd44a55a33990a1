package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
)

// chatModel returns nil when the model cannot be built, which makes the flow
// use its fallback.
func chatModel(ctx context.Context, cfg *config.Config) model.BaseChatModel {
	if !cfg.AI.Enabled() {
		return nil
	}
	m, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Printf("[WARN] chat model unavailable: %v", err)
		return nil
	}
	return m
}

func visionModel(ctx context.Context, cfg *config.Config) model.BaseChatModel {
	if !cfg.AI.Enabled() {
		return nil
	}
	m, err := cfg.AI.NewVisionModel(ctx)
	if err != nil {
		log.Printf("[WARN] vision model unavailable: %v", err)
		return nil
	}
	return m
}

func requireText(text string) string {
	if strings.TrimSpace(text) == "" {
		log.Fatal("this mode needs -text")
	}
	return text
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
