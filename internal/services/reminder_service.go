package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/pkg/dateutil"
)

type deviceTokenLister interface {
	ListAll(ctx context.Context) ([]models.DeviceToken, error)
}

type completedLookup interface {
	CompletedHabitIDs(ctx context.Context, userID int64, date time.Time) (map[int64]struct{}, error)
}

type PushNotification struct {
	Title string
	Body  string
	Data  map[string]string
}

type PushSender interface {
	Send(ctx context.Context, token string, notification PushNotification) error
}

// ReminderService computes each registered user's incomplete habits for
// today and pushes a summary to their devices. Whether a habit is due
// today comes from the same applicability rule the progress aggregation
// uses; completed = true satisfies a habit regardless of duration.
type ReminderService struct {
	habitRepo      habitLister
	completionRepo completedLookup
	tokenRepo      deviceTokenLister
	sender         PushSender
	now            func() time.Time
}

func NewReminderService(
	habitRepo habitLister,
	completionRepo completedLookup,
	tokenRepo deviceTokenLister,
	sender PushSender,
) *ReminderService {
	return &ReminderService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		tokenRepo:      tokenRepo,
		sender:         sender,
		now:            time.Now,
	}
}

type ReminderSummary struct {
	UsersNotified int
	Sent          int
	Failed        int
}

func (s *ReminderService) DispatchDailyReminders(ctx context.Context) (*ReminderSummary, error) {
	tokens, err := s.tokenRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]string)
	for _, token := range tokens {
		byUser[token.UserID] = append(byUser[token.UserID], token.Token)
	}

	today := dateutil.TruncateDay(s.now())
	summary := &ReminderSummary{}

	for userID, userTokens := range byUser {
		incomplete, err := s.incompleteHabits(ctx, userID, today)
		if err != nil {
			log.Printf("reminders: user %d: %v", userID, err)
			continue
		}
		if len(incomplete) == 0 {
			continue
		}

		notification := buildReminder(incomplete)
		summary.UsersNotified++
		for _, token := range userTokens {
			if err := s.sender.Send(ctx, token, notification); err != nil {
				log.Printf("reminders: send to user %d: %v", userID, err)
				summary.Failed++
				continue
			}
			summary.Sent++
		}
	}

	return summary, nil
}

func (s *ReminderService) incompleteHabits(ctx context.Context, userID int64, today time.Time) ([]models.Habit, error) {
	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completedIDs, err := s.completionRepo.CompletedHabitIDs(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	incomplete := make([]models.Habit, 0)
	for _, habit := range habits {
		if !HabitDueOn(habit, today) {
			continue
		}
		if _, ok := completedIDs[habit.ID]; ok {
			continue
		}
		incomplete = append(incomplete, habit)
	}
	return incomplete, nil
}

// buildReminder names up to three habits and folds the rest into an
// overflow count.
func buildReminder(incomplete []models.Habit) PushNotification {
	names := make([]string, 0, 3)
	for i, habit := range incomplete {
		if i == 3 {
			break
		}
		names = append(names, habit.Name)
	}

	more := ""
	if len(incomplete) > 3 {
		more = fmt.Sprintf(" and %d more", len(incomplete)-3)
	}
	plural := ""
	if len(incomplete) > 1 {
		plural = "s"
	}

	return PushNotification{
		Title: "Habit Reminder",
		Body: fmt.Sprintf("You have %d incomplete task%s: %s%s",
			len(incomplete), plural, strings.Join(names, ", "), more),
		Data: map[string]string{
			"type":             "habit_reminder",
			"incomplete_count": fmt.Sprintf("%d", len(incomplete)),
		},
	}
}
