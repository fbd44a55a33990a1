package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/chat"
)

var ErrUserRequired = errors.New("user id is required")

const subscriberBuffer = 8

// Service keeps each user's transcript in an expiring in-process cache and
// fans out change events to subscribers.
type Service struct {
	mu          sync.Mutex
	cache       *cache.Cache
	maxMessages int
	now         func() time.Time

	subMu       sync.RWMutex
	subscribers map[string]map[chan chat.HistoryEvent]struct{}
}

// NewService bootstraps the ephemeral history store.
func NewService(cfg config.HistoryConfig) *Service {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	maxMessages := cfg.MaxMessages
	if maxMessages < 2 {
		maxMessages = 2
	}

	return &Service{
		cache:       cache.New(ttl, ttl/4),
		maxMessages: maxMessages,
		now:         time.Now,
		subscribers: make(map[string]map[chan chat.HistoryEvent]struct{}),
	}
}

// Append adds messages to the user's transcript, assigning ids and timestamps
// where missing. The oldest messages are dropped beyond the configured limit.
func (s *Service) Append(_ context.Context, userID string, messages ...chat.Message) error {
	if userID == "" {
		return ErrUserRequired
	}
	if len(messages) == 0 {
		return nil
	}

	stamped := make([]chat.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = s.now().UTC()
		}
		stamped = append(stamped, msg)
	}

	s.mu.Lock()
	transcript := append(s.load(userID), stamped...)
	if overflow := len(transcript) - s.maxMessages; overflow > 0 {
		transcript = transcript[overflow:]
	}
	s.cache.Set(userID, transcript, cache.DefaultExpiration)
	total := len(transcript)
	s.mu.Unlock()

	s.publish(chat.HistoryEvent{
		Type:      chat.HistoryAppended,
		UserID:    userID,
		Messages:  stamped,
		Total:     total,
		CreatedAt: s.now().UTC(),
	})
	return nil
}

// Transcript returns the user's messages oldest first, or the welcome message
// when nothing was stored yet.
func (s *Service) Transcript(_ context.Context, userID string) ([]chat.Message, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	s.mu.Lock()
	stored := s.load(userID)
	s.mu.Unlock()

	if len(stored) == 0 {
		return []chat.Message{chat.WelcomeMessage(s.now())}, nil
	}
	out := make([]chat.Message, len(stored))
	copy(out, stored)
	return out, nil
}

// Clear drops the user's transcript.
func (s *Service) Clear(_ context.Context, userID string) error {
	if userID == "" {
		return ErrUserRequired
	}

	s.mu.Lock()
	s.cache.Delete(userID)
	s.mu.Unlock()

	s.publish(chat.HistoryEvent{
		Type:      chat.HistoryCleared,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	})
	return nil
}

// Subscribe registers for the user's history events. The returned cancel
// function must be called to release the subscription; it closes the channel.
func (s *Service) Subscribe(userID string) (<-chan chat.HistoryEvent, func()) {
	ch := make(chan chat.HistoryEvent, subscriberBuffer)

	s.subMu.Lock()
	if s.subscribers[userID] == nil {
		s.subscribers[userID] = make(map[chan chat.HistoryEvent]struct{})
	}
	s.subscribers[userID][ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers[userID], ch)
			if len(s.subscribers[userID]) == 0 {
				delete(s.subscribers, userID)
			}
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// load must be called with s.mu held.
func (s *Service) load(userID string) []chat.Message {
	if x, found := s.cache.Get(userID); found {
		stored := x.([]chat.Message)
		// copy so appends never alias a slice handed out earlier
		out := make([]chat.Message, len(stored), len(stored)+2)
		copy(out, stored)
		return out
	}
	return nil
}

func (s *Service) publish(event chat.HistoryEvent) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for ch := range s.subscribers[event.UserID] {
		select {
		case ch <- event:
		default:
			// slow subscriber; it will resync from the transcript
		}
	}
}
