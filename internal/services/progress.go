package services

import (
	"time"

	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/pkg/dateutil"
)

// Pure aggregation over habits, completions and mood entries. Everything
// here recomputes from raw records on every call; the datasets are bounded
// by habit count times days, so no derived state is cached.

type completionKey struct {
	habitID int64
	date    string
}

// CompletionIndex answers completed-lookups for (habit, date) pairs.
type CompletionIndex map[completionKey]bool

func NewCompletionIndex(completions []models.HabitCompletion) CompletionIndex {
	index := make(CompletionIndex, len(completions))
	for _, completion := range completions {
		index[completionKey{completion.HabitID, completion.Date}] = completion.Completed
	}
	return index
}

func (idx CompletionIndex) Completed(habitID int64, date string) bool {
	return idx[completionKey{habitID, date}]
}

// HabitDueOn is the single applicability rule: daily habits count every
// day, weekly habits only on Mondays, monthly habits only on the 1st.
func HabitDueOn(habit models.Habit, day time.Time) bool {
	switch habit.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		return day.Weekday() == time.Monday
	case models.FrequencyMonthly:
		return day.Day() == 1
	default:
		return false
	}
}

func DailyProgress(habits []models.Habit, index CompletionIndex, day time.Time) models.DailyProgress {
	date := dateutil.FormatDay(day)

	total := 0
	completed := 0
	for _, habit := range habits {
		if !HabitDueOn(habit, day) {
			continue
		}
		total++
		if index.Completed(habit.ID, date) {
			completed++
		}
	}

	progress := models.DailyProgress{
		Date:      date,
		Completed: completed,
		Total:     total,
	}
	if total > 0 {
		progress.Rate = float64(completed) / float64(total) * 100
	}
	return progress
}

// WeekProgress covers the Monday through Sunday of the ISO week containing
// the reference date.
func WeekProgress(habits []models.Habit, index CompletionIndex, reference time.Time) []models.DailyProgress {
	start := dateutil.StartOfISOWeek(reference)
	end := dateutil.EndOfISOWeek(reference)

	days := dateutil.DaysBetween(start, end)
	progress := make([]models.DailyProgress, 0, len(days))
	for _, day := range days {
		progress = append(progress, DailyProgress(habits, index, day))
	}
	return progress
}

// MonthProgress covers the 1st of the reference month through the earlier
// of today and the month's last day: a past month yields the full month,
// the current month only its elapsed days.
func MonthProgress(habits []models.Habit, index CompletionIndex, reference, today time.Time) []models.DailyProgress {
	start := dateutil.StartOfMonth(reference)
	end := dateutil.MinDay(today, dateutil.EndOfMonth(reference))

	days := dateutil.DaysBetween(start, end)
	progress := make([]models.DailyProgress, 0, len(days))
	for _, day := range days {
		progress = append(progress, DailyProgress(habits, index, day))
	}
	return progress
}

// CurrentStreak scans backward from the most recent day, counting fully
// completed days. Days with nothing due are skipped; a due day left
// incomplete breaks the streak.
func CurrentStreak(days []models.DailyProgress) int {
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		if day.Total > 0 && day.Completed == day.Total {
			streak++
		} else if day.Total > 0 {
			break
		}
	}
	return streak
}

// LongestStreak scans forward: fully completed days extend the run,
// incomplete due days reset it, empty days leave it untouched.
func LongestStreak(days []models.DailyProgress) int {
	longest := 0
	current := 0
	for _, day := range days {
		if day.Total > 0 && day.Completed == day.Total {
			current++
			if current > longest {
				longest = current
			}
		} else if day.Total > 0 {
			current = 0
		}
	}
	return longest
}

// BestWeek partitions a chronological day window into ISO weeks and
// returns the week with the highest aggregate completion rate, first week
// winning ties. Nil when no week had anything due.
func BestWeek(days []models.DailyProgress) *models.WeekSummary {
	type weekTally struct {
		start     time.Time
		total     int
		completed int
	}

	order := make([]string, 0)
	tallies := make(map[string]*weekTally)
	for _, day := range days {
		date, err := dateutil.ParseDay(day.Date)
		if err != nil {
			continue
		}
		start := dateutil.StartOfISOWeek(date)
		key := dateutil.FormatDay(start)
		tally, ok := tallies[key]
		if !ok {
			tally = &weekTally{start: start}
			tallies[key] = tally
			order = append(order, key)
		}
		tally.total += day.Total
		tally.completed += day.Completed
	}

	var best *models.WeekSummary
	for _, key := range order {
		tally := tallies[key]
		if tally.total == 0 {
			continue
		}
		rate := float64(tally.completed) / float64(tally.total) * 100
		if best == nil || rate > best.Rate {
			best = &models.WeekSummary{
				StartDate: dateutil.FormatDay(tally.start),
				EndDate:   dateutil.FormatDay(tally.start.AddDate(0, 0, 6)),
				Rate:      rate,
			}
		}
	}
	return best
}

// MostConsistentHabit returns the habit with the most completed days in
// the window, ties going to the earliest habit in iteration order. Nil
// when no habit has a completion.
func MostConsistentHabit(habits []models.Habit, index CompletionIndex, window []time.Time) *models.HabitConsistency {
	var best *models.HabitConsistency
	for _, habit := range habits {
		count := 0
		for _, day := range window {
			if index.Completed(habit.ID, dateutil.FormatDay(day)) {
				count++
			}
		}
		if count > 0 && (best == nil || count > best.Completions) {
			best = &models.HabitConsistency{Habit: habit, Completions: count}
		}
	}
	return best
}

// HighestMoodDays picks entries from the trailing 30 days with mood >= 8,
// highest mood first, capped at three.
func HighestMoodDays(entries []models.MoodEntry, today time.Time) []models.MoodEntry {
	cutoff := dateutil.TruncateDay(today).AddDate(0, 0, -30)

	candidates := make([]models.MoodEntry, 0)
	for _, entry := range entries {
		date, err := dateutil.ParseDay(entry.Date)
		if err != nil {
			continue
		}
		if !date.Before(cutoff) && entry.Mood >= 8 {
			candidates = append(candidates, entry)
		}
	}

	// Stable selection keeps earlier entries ahead on equal mood.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].Mood > candidates[j-1].Mood; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	return candidates
}
