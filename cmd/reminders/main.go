package main

import (
	"context"
	"log"
	"time"

	"github.com/ssingh799/habit-flow/internal/config"
	"github.com/ssingh799/habit-flow/internal/database"
	"github.com/ssingh799/habit-flow/internal/repository"
	"github.com/ssingh799/habit-flow/internal/services"
)

// One-shot reminder dispatch, meant to run from cron once a day.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	if cfg.FCMServerKey == "" {
		log.Fatal("FCM_SERVER_KEY is required")
	}

	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	habitRepo := repository.NewHabitRepository(database.DB)
	completionRepo := repository.NewCompletionRepository(database.DB)
	deviceTokenRepo := repository.NewDeviceTokenRepository(database.DB)

	sender := services.NewFCMClient(cfg.FCMServerKey)
	reminderService := services.NewReminderService(habitRepo, completionRepo, deviceTokenRepo, sender)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := reminderService.DispatchDailyReminders(ctx)
	if err != nil {
		log.Fatalf("Reminder dispatch failed: %v", err)
	}

	log.Printf("Reminders dispatched: %d users notified, %d sent, %d failed",
		summary.UsersNotified, summary.Sent, summary.Failed)
}
