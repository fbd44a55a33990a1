package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/metrics"
)

// Outcome tags which path produced a flow result.
type Outcome string

const (
	// Primary means the hosted model answered.
	Primary Outcome = "primary"
	// Degraded means a local fallback produced the answer.
	Degraded Outcome = "degraded"
	// Failed means no answer could be produced; the result carries a user-facing error text.
	Failed Outcome = "failed"
)

var (
	// ErrModelUnavailable is returned when no hosted model was configured.
	ErrModelUnavailable = errors.New("ai model unavailable")
	// ErrEmptyReply is returned when the model answered with no content.
	ErrEmptyReply = errors.New("ai model returned an empty reply")
	// ErrNoJSON is returned when a structured reply holds no JSON object.
	ErrNoJSON = errors.New("missing json object in model reply")
)

// Flow is one named prompt call against the hosted model: a fixed instruction
// rendered as the system message and the caller input as the user message.
type Flow struct {
	name        string
	instruction string
	chatModel   model.BaseChatModel
	runnable    compose.Runnable[map[string]any, *schema.Message]
	log         *zap.Logger
}

// NewFlow compiles the prompt chain of a flow. A nil chatModel yields a flow
// whose every call fails with ErrModelUnavailable, so callers go straight to
// their fallback.
func NewFlow(ctx context.Context, name string, chatModel model.BaseChatModel, instruction string, log *zap.Logger) (*Flow, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named(name)

	flow := &Flow{
		name:        name,
		instruction: instruction,
		chatModel:   chatModel,
		log:         log,
	}
	if chatModel == nil {
		return flow, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{instruction}"),
		schema.UserMessage("{input}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s chain: %w", name, err)
	}
	flow.runnable = runnable
	return flow, nil
}

// Name returns the flow name used in logs and metrics.
func (f *Flow) Name() string {
	return f.name
}

// Available reports whether a model is wired.
func (f *Flow) Available() bool {
	return f != nil && f.chatModel != nil
}

// Run sends input through the chain and returns the trimmed reply text.
func (f *Flow) Run(ctx context.Context, input string) (string, error) {
	if !f.Available() || f.runnable == nil {
		return "", ErrModelUnavailable
	}

	start := time.Now()
	msg, err := f.runnable.Invoke(ctx, map[string]any{
		"instruction": f.instruction,
		"input":       input,
	})
	metrics.ObserveModelCall(f.name, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%s invoke: %w", f.name, err)
	}
	return replyText(msg)
}

// RunJSON runs the flow and decodes the first JSON object of the reply into out.
func (f *Flow) RunJSON(ctx context.Context, input string, out any) error {
	reply, err := f.Run(ctx, input)
	if err != nil {
		return err
	}
	if err := DecodeJSON(reply, out); err != nil {
		return fmt.Errorf("%s decode: %w", f.name, err)
	}
	return nil
}

// Generate sends caller-built messages directly to the model. Multimodal
// flows use it since their user message carries image parts.
func (f *Flow) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	if !f.Available() {
		return "", ErrModelUnavailable
	}

	start := time.Now()
	msg, err := f.chatModel.Generate(ctx, messages)
	metrics.ObserveModelCall(f.name, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", f.name, err)
	}
	return replyText(msg)
}

// Instruction returns the system instruction of the flow.
func (f *Flow) Instruction() string {
	return f.instruction
}

// Record logs and counts the outcome of one invocation. cause is the primary
// path error, if any.
func (f *Flow) Record(outcome Outcome, cause error) {
	metrics.RecordFlow(f.name, string(outcome))

	switch outcome {
	case Primary:
		f.log.Debug("flow answered", zap.String("flow", f.name))
	case Degraded:
		f.log.Warn("flow fell back", zap.String("flow", f.name), zap.Error(cause))
	default:
		f.log.Warn("flow failed", zap.String("flow", f.name), zap.Error(cause))
	}
}

func replyText(msg *schema.Message) (string, error) {
	if msg == nil {
		return "", ErrEmptyReply
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return "", ErrEmptyReply
	}
	return content, nil
}

// DecodeJSON extracts the first JSON object of a model reply, tolerating
// surrounding prose or markdown fences, and unmarshals it into out.
func DecodeJSON(content string, out any) error {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return ErrNoJSON
	}
	return json.Unmarshal([]byte(trimmed[start:end+1]), out)
}
