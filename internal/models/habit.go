package models

import "time"

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

var Categories = []string{"health", "work", "personal", "fitness", "learning"}

type Habit struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Frequency string    `json:"frequency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HabitCompletion is the per-day completion record for a habit. Date is a
// plain calendar day in YYYY-MM-DD form; DurationSeconds is only present
// while Completed is true.
type HabitCompletion struct {
	HabitID         int64  `json:"habit_id"`
	Date            string `json:"date"`
	Completed       bool   `json:"completed"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
}
