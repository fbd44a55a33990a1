package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/chat"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/conditions"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/triage"
)

// FallbackReply is sent when the pipeline fails as a whole.
const FallbackReply = "Sorry, something went wrong. Please try again."

// MaxMessageLength bounds a single user message.
const MaxMessageLength = 4000

var (
	ErrEmptyMessage   = errors.New("message content is required")
	ErrMessageTooLong = fmt.Errorf("message exceeds %d characters", MaxMessageLength)
)

// Triage decides whether a message is an emergency.
type Triage interface {
	Assess(ctx context.Context, input string) triage.Result
}

// ConditionMapper maps symptoms to possible conditions.
type ConditionMapper interface {
	Map(ctx context.Context, symptoms string) conditions.Result
}

// Speaker renders reply text as an audio data URI.
type Speaker interface {
	Enabled() bool
	Speak(ctx context.Context, text string) (string, error)
}

// History persists the exchanged messages.
type History interface {
	Append(ctx context.Context, userID string, messages ...chat.Message) error
}

// Options toggles optional pipeline steps.
type Options struct {
	ReplyAudio bool
}

// Service runs the fixed per-message pipeline: triage, then either the
// emergency response or symptom mapping, then optional speech.
type Service struct {
	triage  Triage
	mapper  ConditionMapper
	speaker Speaker
	history History
	opts    Options
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewService wires the pipeline. speaker and history may be nil.
func NewService(triager Triage, mapper ConditionMapper, speaker Speaker, history History, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		triage:  triager,
		mapper:  mapper,
		speaker: speaker,
		history: history,
		opts:    opts,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Submit answers one user message. Apart from input validation it never
// returns an error: any internal failure, panics included, yields the
// fallback reply with the standard disclaimer.
func (s *Service) Submit(ctx context.Context, userID, content string) (chat.Message, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return chat.Message{}, ErrEmptyMessage
	}
	if len([]rune(text)) > MaxMessageLength {
		return chat.Message{}, ErrMessageTooLong
	}

	userMsg := chat.Message{
		ID:        s.newID(),
		Role:      chat.RoleUser,
		Content:   text,
		CreatedAt: s.now().UTC(),
	}

	reply := s.answer(ctx, text)
	reply.ID = s.newID()
	reply.CreatedAt = s.now().UTC()

	if s.history != nil && userID != "" {
		if err := s.history.Append(ctx, userID, userMsg, reply); err != nil {
			s.log.Warn("failed to store history", zap.String("user", userID), zap.Error(err))
		}
	}
	return reply, nil
}

func (s *Service) answer(ctx context.Context, text string) (reply chat.Message) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("message pipeline panicked", zap.Any("panic", r), zap.Stack("stack"))
			reply = fallbackMessage()
		}
	}()

	reply = s.respond(ctx, text)
	s.attachAudio(ctx, &reply)
	return reply
}

func (s *Service) respond(ctx context.Context, text string) chat.Message {
	decision := s.triage.Assess(ctx, text)
	if decision.IsEmergency && strings.TrimSpace(decision.Response) != "" {
		s.log.Info("emergency detected",
			zap.String("category", decision.Category),
			zap.String("outcome", string(decision.Outcome)),
		)
		return chat.Message{
			Role:        chat.RoleAssistant,
			Content:     decision.Response,
			IsEmergency: true,
			Disclaimer:  decision.Response,
			Outcome:     string(decision.Outcome),
		}
	}

	mapped := s.mapper.Map(ctx, text)
	if strings.TrimSpace(mapped.PotentialConditions) == "" {
		s.log.Warn("symptom mapping returned no content")
		return fallbackMessage()
	}

	return chat.Message{
		Role:       chat.RoleAssistant,
		Content:    mapped.PotentialConditions,
		Disclaimer: mapped.Disclaimer,
		Outcome:    string(worst(decision.Outcome, mapped.Outcome)),
	}
}

func (s *Service) attachAudio(ctx context.Context, reply *chat.Message) {
	if !s.opts.ReplyAudio || s.speaker == nil || !s.speaker.Enabled() {
		return
	}

	audioURL, err := s.speaker.Speak(ctx, reply.Content)
	if err != nil {
		s.log.Warn("reply audio skipped", zap.Error(err))
		return
	}
	reply.AudioURL = audioURL
}

func fallbackMessage() chat.Message {
	return chat.Message{
		Role:       chat.RoleAssistant,
		Content:    FallbackReply,
		Disclaimer: conditions.Disclaimer,
		Outcome:    string(ai.Failed),
	}
}

// worst reports the least reliable of the step outcomes.
func worst(outcomes ...ai.Outcome) ai.Outcome {
	rank := map[ai.Outcome]int{ai.Primary: 0, ai.Degraded: 1, ai.Failed: 2}
	result := ai.Primary
	for _, o := range outcomes {
		if rank[o] > rank[result] {
			result = o
		}
	}
	return result
}
