package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	keywords "github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/analysis/triage"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/metrics"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
)

const flowName = "triage"

var (
	errEmptyInput         = errors.New("empty input")
	errUnresolvedResponse = errors.New("emergency reply without a usable response")
)

// Result is the triage decision returned to callers.
type Result struct {
	IsEmergency bool       `json:"isEmergency"`
	Response    string     `json:"response"`
	Category    string     `json:"category,omitempty"`
	Outcome     ai.Outcome `json:"outcome"`
}

// Service classifies user messages as emergencies. The hosted model answers
// first; any failure drops to keyword matching, which never fails.
type Service struct {
	flow *ai.Flow
	log  *zap.Logger
}

// NewService builds the triage flow. chatModel may be nil.
func NewService(ctx context.Context, chatModel model.BaseChatModel, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	flow, err := ai.NewFlow(ctx, flowName, chatModel, instruction(), log)
	if err != nil {
		return nil, err
	}
	return &Service{flow: flow, log: log}, nil
}

// Assess decides whether input describes a medical emergency.
func (s *Service) Assess(ctx context.Context, input string) Result {
	text := strings.TrimSpace(input)
	if text == "" {
		s.flow.Record(ai.Degraded, errEmptyInput)
		return Result{Outcome: ai.Degraded}
	}

	result, err := s.assessWithModel(ctx, text)
	if err == nil {
		s.flow.Record(ai.Primary, nil)
		if result.IsEmergency {
			metrics.RecordEmergency(result.Category, "model")
		}
		return result
	}

	s.flow.Record(ai.Degraded, err)
	decision := keywords.Classify(text)
	if decision.IsEmergency {
		metrics.RecordEmergency(string(decision.Category), "keywords")
		s.log.Info("keyword fallback flagged emergency", zap.String("category", string(decision.Category)))
	}
	return Result{
		IsEmergency: decision.IsEmergency,
		Response:    decision.Response,
		Category:    string(decision.Category),
		Outcome:     ai.Degraded,
	}
}

func (s *Service) assessWithModel(ctx context.Context, text string) (Result, error) {
	var payload modelPayload
	if err := s.flow.RunJSON(ctx, text, &payload); err != nil {
		return Result{}, err
	}
	if payload.IsEmergency == nil {
		return Result{}, fmt.Errorf("%w: isEmergency missing", ai.ErrNoJSON)
	}

	if !*payload.IsEmergency {
		return Result{Outcome: ai.Primary}, nil
	}

	response := strings.TrimSpace(payload.Response)
	category := keywords.Category(strings.TrimSpace(payload.Category))
	if _, known := keywords.ResponseFor(category); !known {
		category = keywords.CategoryForResponse(response)
	}
	if response == "" {
		canned, ok := keywords.ResponseFor(category)
		if !ok {
			return Result{}, errUnresolvedResponse
		}
		response = canned
	}

	return Result{
		IsEmergency: true,
		Response:    response,
		Category:    string(category),
		Outcome:     ai.Primary,
	}, nil
}

type modelPayload struct {
	IsEmergency *bool  `json:"isEmergency"`
	Category    string `json:"category"`
	Response    string `json:"response"`
}

func instruction() string {
	return "You are a medical triage assistant. Decide whether the user's message describes a medical emergency. " +
		"Only the following situations count as emergencies:\n" +
		keywords.PromptInstructions() +
		"\nFor an emergency, respond with the exact response text listed for its category. " +
		"If none of the situations apply, set isEmergency to false, category to an empty string and response to an empty string.\n" +
		`Reply with a single JSON object of the form {"isEmergency": boolean, "category": string, "response": string} and nothing else.`
}
