package conditions

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
)

const flowName = "conditions"

// Disclaimer is attached to every symptom mapping and assistant reply.
const Disclaimer = "This information is intended for informational purposes only and does not constitute medical advice. Always consult with a qualified healthcare professional for diagnosis and treatment."

// FallbackConditions is returned when the model cannot be reached.
const FallbackConditions = "We could not analyze your symptoms right now. Symptoms like these can have many causes, ranging from minor issues such as a common cold or stress to conditions that need medical evaluation. Please monitor how you feel, rest and stay hydrated, and contact a healthcare professional if your symptoms persist, worsen or worry you."

var errMissingConditions = errors.New("model reply without potential conditions")

// Result holds the mapped conditions.
type Result struct {
	PotentialConditions string     `json:"potentialConditions"`
	Disclaimer          string     `json:"disclaimer"`
	Outcome             ai.Outcome `json:"outcome"`
}

// Service maps free-text symptoms to possible conditions.
type Service struct {
	flow *ai.Flow
}

// NewService builds the mapping flow. chatModel may be nil.
func NewService(ctx context.Context, chatModel model.BaseChatModel, log *zap.Logger) (*Service, error) {
	flow, err := ai.NewFlow(ctx, flowName, chatModel, instruction, log)
	if err != nil {
		return nil, err
	}
	return &Service{flow: flow}, nil
}

// Map returns conditions ranked by likelihood. It never fails: model errors
// yield the generic fallback paragraph. The disclaimer always equals Disclaimer.
func (s *Service) Map(ctx context.Context, symptoms string) Result {
	text := strings.TrimSpace(symptoms)
	if text == "" {
		return Result{Outcome: ai.Primary}
	}

	var payload struct {
		PotentialConditions string `json:"potentialConditions"`
		Disclaimer          string `json:"disclaimer"`
	}
	err := s.flow.RunJSON(ctx, text, &payload)
	if err == nil && strings.TrimSpace(payload.PotentialConditions) == "" {
		err = errMissingConditions
	}
	if err != nil {
		s.flow.Record(ai.Degraded, err)
		return Result{
			PotentialConditions: FallbackConditions,
			Disclaimer:          Disclaimer,
			Outcome:             ai.Degraded,
		}
	}

	s.flow.Record(ai.Primary, nil)
	return Result{
		PotentialConditions: strings.TrimSpace(payload.PotentialConditions),
		Disclaimer:          Disclaimer,
		Outcome:             ai.Primary,
	}
}

const instruction = "Disclaimer: " + Disclaimer + "\n\n" +
	"You are a helpful AI assistant that maps symptoms to potential medical conditions. " +
	"Given the symptoms described by the user, list the potential conditions ranked by likelihood, most likely first, " +
	"with a short plain-language explanation for each.\n" +
	`Reply with a single JSON object of the form {"potentialConditions": string, "disclaimer": string} and nothing else. ` +
	"The disclaimer field must repeat the disclaimer above."
