package health

import "time"

// DataPoint is one progress-tracker entry.
type DataPoint struct {
	ID        string    `json:"id"`
	Weight    float64   `json:"weight"`
	Systolic  int       `json:"systolic"`
	Diastolic int       `json:"diastolic"`
	Mood      int       `json:"mood"`
	CreatedAt time.Time `json:"createdAt"`
}

// DataPointInput is the validated body of a new data point.
type DataPointInput struct {
	Weight    float64 `json:"weight" validate:"gt=0"`
	Systolic  int     `json:"systolic" validate:"gt=0"`
	Diastolic int     `json:"diastolic" validate:"gt=0"`
	Mood      int     `json:"mood" validate:"min=1,max=5"`
}

// ReminderType distinguishes reminders.
type ReminderType string

const (
	ReminderMedication  ReminderType = "medication"
	ReminderAppointment ReminderType = "appointment"
)

// Reminder is a daily health reminder.
type Reminder struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Type      ReminderType `json:"type"`
	Time      string       `json:"time"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ReminderInput is the validated body of a new reminder.
type ReminderInput struct {
	Title string       `json:"title" validate:"required,min=3,max=120"`
	Type  ReminderType `json:"type" validate:"required,oneof=medication appointment"`
	Time  string       `json:"time" validate:"required,hhmm"`
}
