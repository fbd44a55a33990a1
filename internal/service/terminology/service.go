package terminology

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
)

// ErrorMessage is returned in place of a simplification when the model fails.
const ErrorMessage = "An error occurred while simplifying the text. Please try again later."

// Result is a simplified rendition of medical text.
type Result struct {
	SimplifiedText string     `json:"simplifiedText"`
	Outcome        ai.Outcome `json:"outcome"`
}

// Service rewrites medical jargon in plain language.
type Service struct {
	flow *ai.Flow
}

// NewService builds the simplification flow. chatModel may be nil.
func NewService(ctx context.Context, chatModel model.BaseChatModel, log *zap.Logger) (*Service, error) {
	flow, err := ai.NewFlow(ctx, "terminology", chatModel, instruction, log)
	if err != nil {
		return nil, err
	}
	return &Service{flow: flow}, nil
}

// Simplify returns text rewritten for a non-specialist. Blank input returns
// an empty result without calling the model.
func (s *Service) Simplify(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Outcome: ai.Primary}
	}

	reply, err := s.flow.Run(ctx, text)
	if err != nil {
		s.flow.Record(ai.Failed, err)
		return Result{SimplifiedText: ErrorMessage, Outcome: ai.Failed}
	}

	s.flow.Record(ai.Primary, nil)
	return Result{SimplifiedText: reply, Outcome: ai.Primary}
}

const instruction = "You are a medical expert who explains complex medical terminology in simple, easy-to-understand language. " +
	"Rewrite the text provided by the user so that a person without medical training can understand it. " +
	"Keep the meaning accurate and reply with the simplified text only."
