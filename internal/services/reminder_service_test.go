package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ssingh799/habit-flow/internal/models"
)

type stubTokenLister struct {
	tokens []models.DeviceToken
}

func (s *stubTokenLister) ListAll(_ context.Context) ([]models.DeviceToken, error) {
	return s.tokens, nil
}

type recordingSender struct {
	sent    []PushNotification
	failFor string
}

func (s *recordingSender) Send(_ context.Context, token string, notification PushNotification) error {
	if token == s.failFor {
		return errors.New("push rejected")
	}
	s.sent = append(s.sent, notification)
	return nil
}

func reminderServiceAt(habits *stubHabitRepo, completions *stubCompletionRepo, tokens *stubTokenLister, sender PushSender, today string) *ReminderService {
	service := NewReminderService(habits, completions, tokens, sender)
	service.now = func() time.Time {
		t, err := time.Parse("2006-01-02", today)
		if err != nil {
			panic(err)
		}
		return t.Add(18 * time.Hour)
	}
	return service
}

func TestDispatchDailyRemindersSkipsCompletedUsers(t *testing.T) {
	habits := &stubHabitRepo{habits: []models.Habit{
		{ID: 1, UserID: 1, Name: "Meditate", Frequency: models.FrequencyDaily},
	}}
	completions := &stubCompletionRepo{completedID: map[int64]struct{}{1: {}}}
	tokens := &stubTokenLister{tokens: []models.DeviceToken{{UserID: 1, Token: "t1"}}}
	sender := &recordingSender{}

	service := reminderServiceAt(habits, completions, tokens, sender, "2025-03-04")
	summary, err := service.DispatchDailyReminders(context.Background())
	if err != nil {
		t.Fatalf("DispatchDailyReminders: %v", err)
	}
	if summary.UsersNotified != 0 || summary.Sent != 0 {
		t.Fatalf("expected no notifications, got %+v", summary)
	}
}

func TestDispatchDailyRemindersIgnoresOffScheduleHabits(t *testing.T) {
	// 2025-03-04 is a Tuesday; the weekly habit is not due.
	habits := &stubHabitRepo{habits: []models.Habit{
		{ID: 1, UserID: 1, Name: "Weekly review", Frequency: models.FrequencyWeekly},
	}}
	tokens := &stubTokenLister{tokens: []models.DeviceToken{{UserID: 1, Token: "t1"}}}
	sender := &recordingSender{}

	service := reminderServiceAt(habits, &stubCompletionRepo{}, tokens, sender, "2025-03-04")
	summary, err := service.DispatchDailyReminders(context.Background())
	if err != nil {
		t.Fatalf("DispatchDailyReminders: %v", err)
	}
	if summary.UsersNotified != 0 {
		t.Fatalf("expected no notifications, got %+v", summary)
	}
}

func TestDispatchDailyRemindersSendsToEveryDevice(t *testing.T) {
	habits := &stubHabitRepo{habits: []models.Habit{
		{ID: 1, UserID: 1, Name: "Meditate", Frequency: models.FrequencyDaily},
		{ID: 2, UserID: 1, Name: "Run", Frequency: models.FrequencyDaily},
	}}
	tokens := &stubTokenLister{tokens: []models.DeviceToken{
		{UserID: 1, Token: "t1"},
		{UserID: 1, Token: "t2"},
	}}
	sender := &recordingSender{}

	service := reminderServiceAt(habits, &stubCompletionRepo{}, tokens, sender, "2025-03-04")
	summary, err := service.DispatchDailyReminders(context.Background())
	if err != nil {
		t.Fatalf("DispatchDailyReminders: %v", err)
	}
	if summary.UsersNotified != 1 || summary.Sent != 2 || summary.Failed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 pushes, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Body, "2 incomplete tasks") {
		t.Fatalf("unexpected body %q", sender.sent[0].Body)
	}
}

func TestDispatchDailyRemindersCountsFailures(t *testing.T) {
	habits := &stubHabitRepo{habits: []models.Habit{
		{ID: 1, UserID: 1, Name: "Meditate", Frequency: models.FrequencyDaily},
	}}
	tokens := &stubTokenLister{tokens: []models.DeviceToken{
		{UserID: 1, Token: "bad"},
		{UserID: 1, Token: "good"},
	}}
	sender := &recordingSender{failFor: "bad"}

	service := reminderServiceAt(habits, &stubCompletionRepo{}, tokens, sender, "2025-03-04")
	summary, err := service.DispatchDailyReminders(context.Background())
	if err != nil {
		t.Fatalf("DispatchDailyReminders: %v", err)
	}
	if summary.Sent != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestBuildReminderOverflow(t *testing.T) {
	habits := []models.Habit{
		{Name: "Meditate"},
		{Name: "Run"},
		{Name: "Read"},
		{Name: "Stretch"},
		{Name: "Journal"},
	}

	notification := buildReminder(habits)
	if notification.Title != "Habit Reminder" {
		t.Fatalf("unexpected title %q", notification.Title)
	}
	if !strings.Contains(notification.Body, "Meditate, Run, Read and 2 more") {
		t.Fatalf("unexpected body %q", notification.Body)
	}
	if notification.Data["incomplete_count"] != "5" {
		t.Fatalf("unexpected data %+v", notification.Data)
	}
}

func TestBuildReminderSingular(t *testing.T) {
	notification := buildReminder([]models.Habit{{Name: "Meditate"}})
	if !strings.Contains(notification.Body, "1 incomplete task:") {
		t.Fatalf("unexpected body %q", notification.Body)
	}
}
