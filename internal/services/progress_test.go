package services

import (
	"testing"
	"time"

	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/pkg/dateutil"
)

func day(value string) time.Time {
	t, err := dateutil.ParseDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

func buildHabit(id int64, frequency string) models.Habit {
	return models.Habit{
		ID:        id,
		UserID:    1,
		Name:      "habit",
		Category:  "health",
		Frequency: frequency,
	}
}

func completion(habitID int64, date string, completed bool) models.HabitCompletion {
	return models.HabitCompletion{HabitID: habitID, Date: date, Completed: completed}
}

func TestHabitDueOn(t *testing.T) {
	monday := day("2025-03-03")
	tuesday := day("2025-03-04")
	firstOfMonth := day("2025-03-01")

	if !HabitDueOn(buildHabit(1, models.FrequencyDaily), tuesday) {
		t.Fatal("daily habit should be due every day")
	}
	if !HabitDueOn(buildHabit(2, models.FrequencyWeekly), monday) {
		t.Fatal("weekly habit should be due on Monday")
	}
	if HabitDueOn(buildHabit(2, models.FrequencyWeekly), tuesday) {
		t.Fatal("weekly habit should not be due on Tuesday")
	}
	if !HabitDueOn(buildHabit(3, models.FrequencyMonthly), firstOfMonth) {
		t.Fatal("monthly habit should be due on the 1st")
	}
	if HabitDueOn(buildHabit(3, models.FrequencyMonthly), tuesday) {
		t.Fatal("monthly habit should not be due mid-month")
	}
}

func TestDailyProgressCountsOnlyDueHabits(t *testing.T) {
	habits := []models.Habit{
		buildHabit(1, models.FrequencyDaily),
		buildHabit(2, models.FrequencyDaily),
		buildHabit(3, models.FrequencyWeekly),
	}
	index := NewCompletionIndex([]models.HabitCompletion{
		completion(1, "2025-03-04", true),
		completion(3, "2025-03-04", true),
	})

	// Tuesday: the weekly habit is out of scope even though completed.
	progress := DailyProgress(habits, index, day("2025-03-04"))
	if progress.Total != 2 || progress.Completed != 1 {
		t.Fatalf("expected 1/2, got %d/%d", progress.Completed, progress.Total)
	}
	if progress.Rate != 50 {
		t.Fatalf("expected rate 50, got %v", progress.Rate)
	}
}

func TestDailyProgressNoHabits(t *testing.T) {
	progress := DailyProgress(nil, NewCompletionIndex(nil), day("2025-03-04"))
	if progress.Total != 0 || progress.Completed != 0 || progress.Rate != 0 {
		t.Fatalf("expected zero progress, got %+v", progress)
	}
}

func TestCompletionIndexIncompleteRecord(t *testing.T) {
	index := NewCompletionIndex([]models.HabitCompletion{
		completion(1, "2025-03-04", false),
	})
	if index.Completed(1, "2025-03-04") {
		t.Fatal("a toggled-off record must not count as completed")
	}
}

func TestWeekProgressCoversMondayThroughSunday(t *testing.T) {
	habits := []models.Habit{buildHabit(1, models.FrequencyDaily)}
	days := WeekProgress(habits, NewCompletionIndex(nil), day("2025-03-05"))

	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if days[0].Date != "2025-03-03" || days[6].Date != "2025-03-09" {
		t.Fatalf("expected Mon 2025-03-03 through Sun 2025-03-09, got %s..%s", days[0].Date, days[6].Date)
	}
}

func TestMonthProgressClampsToToday(t *testing.T) {
	habits := []models.Habit{buildHabit(1, models.FrequencyDaily)}
	today := day("2025-03-10")

	current := MonthProgress(habits, NewCompletionIndex(nil), day("2025-03-10"), today)
	if len(current) != 10 {
		t.Fatalf("current month should cover 10 elapsed days, got %d", len(current))
	}

	past := MonthProgress(habits, NewCompletionIndex(nil), day("2025-02-15"), today)
	if len(past) != 28 {
		t.Fatalf("past February should cover 28 days, got %d", len(past))
	}
	if past[0].Date != "2025-02-01" || past[27].Date != "2025-02-28" {
		t.Fatalf("unexpected window %s..%s", past[0].Date, past[27].Date)
	}
}

func buildDays(pairs ...[2]int) []models.DailyProgress {
	days := make([]models.DailyProgress, 0, len(pairs))
	start := day("2025-03-01")
	for i, pair := range pairs {
		days = append(days, models.DailyProgress{
			Date:      dateutil.FormatDay(start.AddDate(0, 0, i)),
			Completed: pair[0],
			Total:     pair[1],
		})
	}
	return days
}

func TestCurrentStreakSkipsEmptyDays(t *testing.T) {
	// ... complete, empty, complete -> streak of 2 spanning the gap.
	days := buildDays([2]int{1, 2}, [2]int{2, 2}, [2]int{0, 0}, [2]int{3, 3})
	if got := CurrentStreak(days); got != 2 {
		t.Fatalf("expected streak 2, got %d", got)
	}
}

func TestCurrentStreakBreaksOnIncompleteDay(t *testing.T) {
	days := buildDays([2]int{2, 2}, [2]int{1, 2}, [2]int{2, 2})
	if got := CurrentStreak(days); got != 1 {
		t.Fatalf("expected streak 1, got %d", got)
	}
}

func TestCurrentStreakAllEmpty(t *testing.T) {
	days := buildDays([2]int{0, 0}, [2]int{0, 0})
	if got := CurrentStreak(days); got != 0 {
		t.Fatalf("expected streak 0, got %d", got)
	}
}

func TestLongestStreakResetsOnIncompleteDay(t *testing.T) {
	days := buildDays(
		[2]int{2, 2}, [2]int{2, 2}, [2]int{1, 2},
		[2]int{2, 2}, [2]int{0, 0}, [2]int{2, 2}, [2]int{2, 2},
	)
	if got := LongestStreak(days); got != 3 {
		t.Fatalf("expected longest streak 3, got %d", got)
	}
}

func TestBestWeekFirstWinsTies(t *testing.T) {
	// Two full weeks at the same 50% rate; the earlier week must win.
	days := make([]models.DailyProgress, 0, 14)
	start := day("2025-03-03")
	for i := 0; i < 14; i++ {
		completed := 1
		if i%2 == 0 {
			completed = 0
		}
		days = append(days, models.DailyProgress{
			Date:      dateutil.FormatDay(start.AddDate(0, 0, i)),
			Completed: completed,
			Total:     1,
		})
	}

	best := BestWeek(days)
	if best == nil {
		t.Fatal("expected a best week")
	}
	if best.StartDate != "2025-03-03" || best.EndDate != "2025-03-09" {
		t.Fatalf("expected first week to win the tie, got %s..%s", best.StartDate, best.EndDate)
	}
}

func TestBestWeekNilWhenNothingDue(t *testing.T) {
	days := buildDays([2]int{0, 0}, [2]int{0, 0})
	if best := BestWeek(days); best != nil {
		t.Fatalf("expected nil best week, got %+v", best)
	}
}

func TestMostConsistentHabit(t *testing.T) {
	habits := []models.Habit{
		buildHabit(1, models.FrequencyDaily),
		buildHabit(2, models.FrequencyDaily),
	}
	index := NewCompletionIndex([]models.HabitCompletion{
		completion(1, "2025-03-01", true),
		completion(2, "2025-03-01", true),
		completion(2, "2025-03-02", true),
	})
	window := dateutil.DaysBetween(day("2025-03-01"), day("2025-03-03"))

	best := MostConsistentHabit(habits, index, window)
	if best == nil {
		t.Fatal("expected a most consistent habit")
	}
	if best.Habit.ID != 2 || best.Completions != 2 {
		t.Fatalf("expected habit 2 with 2 completions, got habit %d with %d", best.Habit.ID, best.Completions)
	}
}

func TestMostConsistentHabitNilWithoutCompletions(t *testing.T) {
	habits := []models.Habit{buildHabit(1, models.FrequencyDaily)}
	window := dateutil.DaysBetween(day("2025-03-01"), day("2025-03-03"))
	if best := MostConsistentHabit(habits, NewCompletionIndex(nil), window); best != nil {
		t.Fatalf("expected nil, got %+v", best)
	}
}

func TestHighestMoodDays(t *testing.T) {
	today := day("2025-03-31")
	entries := []models.MoodEntry{
		{Date: "2025-03-10", Mood: 9},
		{Date: "2025-03-12", Mood: 7},
		{Date: "2025-03-15", Mood: 8},
		{Date: "2025-03-20", Mood: 10},
		{Date: "2025-03-25", Mood: 8},
		{Date: "2025-01-01", Mood: 10},
	}

	top := HighestMoodDays(entries, today)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Mood != 10 || top[0].Date != "2025-03-20" {
		t.Fatalf("expected 2025-03-20 (10) first, got %s (%d)", top[0].Date, top[0].Mood)
	}
	if top[1].Mood != 9 {
		t.Fatalf("expected mood 9 second, got %d", top[1].Mood)
	}
	// Equal moods keep chronological order.
	if top[2].Date != "2025-03-15" {
		t.Fatalf("expected 2025-03-15 third, got %s", top[2].Date)
	}
}

func TestHighestMoodDaysEmptyBelowThreshold(t *testing.T) {
	entries := []models.MoodEntry{
		{Date: "2025-03-10", Mood: 7},
		{Date: "2025-03-12", Mood: 5},
	}
	if top := HighestMoodDays(entries, day("2025-03-31")); len(top) != 0 {
		t.Fatalf("expected no entries, got %d", len(top))
	}
}
