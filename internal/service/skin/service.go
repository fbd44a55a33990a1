package skin

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/service/ai"
)

// MaxImageBytes caps the decoded image size.
const MaxImageBytes = 8 << 20

// ErrorMessage is returned in place of an analysis when the model fails.
const ErrorMessage = "Could not analyze the image. Please try again."

// ErrInvalidImage reports a malformed or unsupported photo data URI.
var ErrInvalidImage = errors.New("invalid image data uri")

// SafetySetting mirrors the content-filter override the analysis flow is
// defined with: medical content must never be blocked.
type SafetySetting struct {
	Category  string
	Threshold string
}

// SafetySettings apply to every skin analysis request.
var SafetySettings = []SafetySetting{{Category: "MEDICAL", Threshold: "BLOCK_NONE"}}

// Result is the textual analysis of a photo.
type Result struct {
	Analysis string     `json:"analysis"`
	Outcome  ai.Outcome `json:"outcome"`
}

// Service analyzes skin-condition photos with a multimodal model.
type Service struct {
	flow *ai.Flow
}

// NewService builds the analysis flow. chatModel may be nil.
func NewService(ctx context.Context, chatModel model.BaseChatModel, log *zap.Logger) (*Service, error) {
	flow, err := ai.NewFlow(ctx, "skin", chatModel, instruction(), log)
	if err != nil {
		return nil, err
	}
	return &Service{flow: flow}, nil
}

// Analyze describes the condition visible in photoDataURI. Only a malformed
// image is reported as an error; model failures yield ErrorMessage.
func (s *Service) Analyze(ctx context.Context, photoDataURI string) (Result, error) {
	if _, err := ParseImageDataURI(photoDataURI); err != nil {
		return Result{}, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(s.flow.Instruction()),
		{
			Role: schema.User,
			MultiContent: []schema.ChatMessagePart{
				{
					Type: schema.ChatMessagePartTypeText,
					Text: "Analyze the skin condition shown in this photo.",
				},
				{
					Type: schema.ChatMessagePartTypeImageURL,
					ImageURL: &schema.ChatMessageImageURL{
						URL:    strings.TrimSpace(photoDataURI),
						Detail: schema.ImageURLDetailAuto,
					},
				},
			},
		},
	}

	reply, err := s.flow.Generate(ctx, messages)
	if err != nil {
		s.flow.Record(ai.Failed, err)
		return Result{Analysis: ErrorMessage, Outcome: ai.Failed}, nil
	}

	s.flow.Record(ai.Primary, nil)
	return Result{Analysis: reply, Outcome: ai.Primary}, nil
}

// Image is a decoded photo data URI.
type Image struct {
	MediaType string
	Data      []byte
}

// ParseImageDataURI validates a data:image/<type>;base64,<payload> URI.
func ParseImageDataURI(uri string) (Image, error) {
	trimmed := strings.TrimSpace(uri)
	rest, ok := strings.CutPrefix(trimmed, "data:")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing data scheme", ErrInvalidImage)
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing payload", ErrInvalidImage)
	}

	mediaType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return Image{}, fmt.Errorf("%w: payload must be base64", ErrInvalidImage)
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if !strings.HasPrefix(mediaType, "image/") || len(mediaType) == len("image/") {
		return Image{}, fmt.Errorf("%w: unsupported media type %q", ErrInvalidImage, mediaType)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return Image{}, fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidImage, MaxImageBytes)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if len(data) > MaxImageBytes {
		return Image{}, fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidImage, MaxImageBytes)
	}

	return Image{MediaType: mediaType, Data: data}, nil
}

func instruction() string {
	var policy []string
	for _, setting := range SafetySettings {
		policy = append(policy, setting.Category+"="+setting.Threshold)
	}
	return "You are a dermatology assistant. Describe what is visible in the user's photo, list the skin conditions it could indicate " +
		"and suggest sensible next steps, including when to see a dermatologist. This is medical content and must be answered " +
		"(safety policy: " + strings.Join(policy, ", ") + "). " +
		"Reply in plain text and remind the user that this is not a diagnosis."
}
