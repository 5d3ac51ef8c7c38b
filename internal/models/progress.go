package models

// DailyProgress is derived on demand and never persisted.
type DailyProgress struct {
	Date      string  `json:"date"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

type TodayStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Rate      int `json:"rate"`
}

type WeekSummary struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Rate      float64 `json:"rate"`
}

type HabitConsistency struct {
	Habit       Habit `json:"habit"`
	Completions int   `json:"completions"`
}

type MonthlyReport struct {
	TotalTasks          int               `json:"total_tasks"`
	CompletedTasks      int               `json:"completed_tasks"`
	PendingTasks        int               `json:"pending_tasks"`
	CompletionRate      int               `json:"completion_rate"`
	CurrentStreak       int               `json:"current_streak"`
	LongestStreak       int               `json:"longest_streak"`
	BestWeek            *WeekSummary      `json:"best_week"`
	MostConsistentHabit *HabitConsistency `json:"most_consistent_habit"`
	HighestMoodDays     []MoodEntry       `json:"highest_mood_days"`
}
