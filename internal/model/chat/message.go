package chat

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn. It is created once and never mutated.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	AudioURL    string    `json:"audioUrl,omitempty"`
	IsEmergency bool      `json:"isEmergency,omitempty"`
	Disclaimer  string    `json:"disclaimer,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WelcomeID is the fixed identifier of the greeting shown for an empty history.
const WelcomeID = "welcome"

// WelcomeMessage greets a user whose history is empty.
func WelcomeMessage(now time.Time) Message {
	return Message{
		ID:        WelcomeID,
		Role:      RoleAssistant,
		Content:   "Hello! I'm your HealthAssist AI. I'm here to help you with health-related questions and concerns. How are you feeling today?",
		CreatedAt: now.UTC(),
	}
}
