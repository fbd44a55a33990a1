package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/health"
)

var (
	ErrUserRequired     = errors.New("user id is required")
	ErrReminderNotFound = errors.New("reminder not found")
)

// Service keeps progress data points and reminders per user in expiring
// in-process caches, and serves the facility directory.
type Service struct {
	mu        sync.Mutex
	points    *cache.Cache
	reminders *cache.Cache
	directory health.Directory
	now       func() time.Time
}

// NewService creates the health tools service.
func NewService(cfg config.HistoryConfig, directory health.Directory) *Service {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if directory == nil {
		directory = health.NewMemoryDirectory(health.SeedFacilities())
	}
	return &Service{
		points:    cache.New(ttl, ttl/4),
		reminders: cache.New(ttl, ttl/4),
		directory: directory,
		now:       time.Now,
	}
}

// AddDataPoint records a validated progress entry.
func (s *Service) AddDataPoint(_ context.Context, userID string, in health.DataPointInput) (health.DataPoint, error) {
	if userID == "" {
		return health.DataPoint{}, ErrUserRequired
	}

	point := health.DataPoint{
		ID:        uuid.NewString(),
		Weight:    in.Weight,
		Systolic:  in.Systolic,
		Diastolic: in.Diastolic,
		Mood:      in.Mood,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	points := append(s.loadPoints(userID), point)
	s.points.Set(userID, points, cache.DefaultExpiration)
	return point, nil
}

// DataHistory returns the user's entries oldest first. Users without entries
// get a short demo history so the tracker chart has something to show.
func (s *Service) DataHistory(_ context.Context, userID string) ([]health.DataPoint, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	points := s.loadPoints(userID)
	if len(points) == 0 {
		points = mockHistory(s.now().UTC())
		s.points.Set(userID, points, cache.DefaultExpiration)
	}
	out := make([]health.DataPoint, len(points))
	copy(out, points)
	return out, nil
}

// AddReminder stores a validated reminder.
func (s *Service) AddReminder(_ context.Context, userID string, in health.ReminderInput) (health.Reminder, error) {
	if userID == "" {
		return health.Reminder{}, ErrUserRequired
	}

	reminder := health.Reminder{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Type:      in.Type,
		Time:      in.Time,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	reminders := append(s.loadReminders(userID), reminder)
	s.reminders.Set(userID, reminders, cache.DefaultExpiration)
	return reminder, nil
}

// Reminders returns the user's reminders ordered by time of day.
func (s *Service) Reminders(_ context.Context, userID string) ([]health.Reminder, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	s.mu.Lock()
	reminders := s.loadReminders(userID)
	s.mu.Unlock()

	sort.SliceStable(reminders, func(i, j int) bool {
		return minutesOfDay(reminders[i].Time) < minutesOfDay(reminders[j].Time)
	})
	if reminders == nil {
		reminders = []health.Reminder{}
	}
	return reminders, nil
}

// DeleteReminder removes one reminder.
func (s *Service) DeleteReminder(_ context.Context, userID, id string) error {
	if userID == "" {
		return ErrUserRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	reminders := s.loadReminders(userID)
	for i, r := range reminders {
		if r.ID == id {
			reminders = append(reminders[:i], reminders[i+1:]...)
			s.reminders.Set(userID, reminders, cache.DefaultExpiration)
			return nil
		}
	}
	return ErrReminderNotFound
}

// Facilities lists nearby services of one kind.
func (s *Service) Facilities(kind health.FacilityKind) []health.Facility {
	return s.directory.ByKind(kind)
}

func (s *Service) loadPoints(userID string) []health.DataPoint {
	if x, found := s.points.Get(userID); found {
		stored := x.([]health.DataPoint)
		return append([]health.DataPoint(nil), stored...)
	}
	return nil
}

func (s *Service) loadReminders(userID string) []health.Reminder {
	if x, found := s.reminders.Get(userID); found {
		stored := x.([]health.Reminder)
		return append([]health.Reminder(nil), stored...)
	}
	return nil
}

// minutesOfDay parses a validated H:MM or HH:MM value.
func minutesOfDay(hhmm string) int {
	var h, m int
	for i, c := range hhmm {
		if c == ':' {
			for _, d := range hhmm[i+1:] {
				m = m*10 + int(d-'0')
			}
			break
		}
		h = h*10 + int(c-'0')
	}
	return h*60 + m
}

func mockHistory(now time.Time) []health.DataPoint {
	day := 24 * time.Hour
	return []health.DataPoint{
		{ID: "mock-1", Weight: 72.5, Systolic: 122, Diastolic: 81, Mood: 3, CreatedAt: now.Add(-28 * day)},
		{ID: "mock-2", Weight: 72.0, Systolic: 120, Diastolic: 80, Mood: 4, CreatedAt: now.Add(-21 * day)},
		{ID: "mock-3", Weight: 71.4, Systolic: 118, Diastolic: 79, Mood: 3, CreatedAt: now.Add(-14 * day)},
		{ID: "mock-4", Weight: 71.1, Systolic: 119, Diastolic: 78, Mood: 4, CreatedAt: now.Add(-7 * day)},
	}
}
