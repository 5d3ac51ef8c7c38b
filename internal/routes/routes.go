package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ssingh799/habit-flow/internal/config"
	"github.com/ssingh799/habit-flow/internal/handlers"
	"github.com/ssingh799/habit-flow/internal/middleware"
	"github.com/ssingh799/habit-flow/internal/repository"
	"github.com/ssingh799/habit-flow/internal/services"
	chatws "github.com/ssingh799/habit-flow/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	moodRepo := repository.NewMoodRepository(db)
	requestRepo := repository.NewChatRequestRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	authHandler := handlers.NewAuthHandler(db, userRepo, profileRepo, cfg.JWTSecret)
	profileService := services.NewProfileService(profileRepo, storageService)
	profileHandler := handlers.NewProfileHandler(profileService)
	habitService := services.NewHabitService(habitRepo, completionRepo)
	habitHandler := handlers.NewHabitHandler(habitService)
	moodService := services.NewMoodService(moodRepo)
	moodHandler := handlers.NewMoodHandler(moodService)
	progressService := services.NewProgressService(habitRepo, completionRepo, moodRepo)
	progressHandler := handlers.NewProgressHandler(progressService)
	notificationHandler := handlers.NewNotificationHandler(deviceTokenRepo)

	chatHub := chatws.NewHub()
	go chatHub.Run()
	chatService := services.NewChatService(db, requestRepo, conversationRepo, messageRepo, profileRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	users := authProtected.Group("/users")
	users.Get("/profile", profileHandler.Get)
	users.Put("/profile", profileHandler.UpdateDisplayName)
	users.Post("/profile/avatar", profileHandler.UploadAvatar)
	users.Get("/search", chatHandler.SearchUsers)

	habits := authProtected.Group("/habits")
	habits.Post("", habitHandler.Create)
	habits.Get("", habitHandler.List)
	habits.Get("/today", habitHandler.TodayStats)
	habits.Put("/:id", habitHandler.Update)
	habits.Delete("/:id", habitHandler.Delete)
	habits.Post("/:id/toggle", habitHandler.ToggleCompletion)
	habits.Get("/:id/completion", habitHandler.GetCompletion)

	moods := authProtected.Group("/moods")
	moods.Post("", moodHandler.Set)
	moods.Get("/today", moodHandler.GetToday)
	moods.Get("/average", moodHandler.Average)
	moods.Get("/week", moodHandler.WeekSeries)
	moods.Get("/month", moodHandler.MonthSeries)
	moods.Get("/:date", moodHandler.GetByDate)

	progress := authProtected.Group("/progress")
	progress.Get("/week", progressHandler.Week)
	progress.Get("/month", progressHandler.Month)
	progress.Get("/report", progressHandler.MonthlyReport)
	progress.Get("/:date", progressHandler.Daily)

	chat := authProtected.Group("/chat")
	chat.Post("/requests", chatHandler.SendRequest)
	chat.Get("/requests/received", chatHandler.ListReceivedRequests)
	chat.Get("/requests/sent", chatHandler.ListSentRequests)
	chat.Post("/requests/:id/accept", chatHandler.AcceptRequest)
	chat.Post("/requests/:id/reject", chatHandler.RejectRequest)
	chat.Post("/requests/:id/repair", chatHandler.RepairRequest)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Get("/:id/messages", chatHandler.ListMessages)
	conversations.Post("/:id/messages", chatHandler.SendMessage)

	notifications := authProtected.Group("/notifications")
	notifications.Post("/tokens", notificationHandler.RegisterToken)
	notifications.Delete("/tokens", notificationHandler.UnregisterToken)

	api.Use("/v1/conversations/:id/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/conversations/:id/ws", websocket.New(chatHandler.HandleWebSocket))
}
