package models

import "time"

type MoodEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Date      string    `json:"date"`
	Mood      int       `json:"mood"`
	Notes     *string   `json:"notes,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyMood is one point of a mood chart series; Mood is nil on days
// without an entry.
type DailyMood struct {
	Date string `json:"date"`
	Mood *int   `json:"mood"`
}
