package handlers

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/repository"
	"github.com/ssingh799/habit-flow/pkg/utils"
)

type AuthHandler struct {
	db          *pgxpool.Pool
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	jwtSecret   string
}

func NewAuthHandler(
	db *pgxpool.Pool,
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		db:          db,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtSecret:   jwtSecret,
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}

	existing, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to check email"})
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	tx, err := h.db.Begin(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}
	defer func() {
		_ = tx.Rollback(c.Context())
	}()

	txUserRepo := repository.NewUserRepository(tx)
	txProfileRepo := repository.NewProfileRepository(tx)

	user := &models.User{Email: req.Email, PasswordHash: passwordHash}
	if err := txUserRepo.CreateUser(c.Context(), user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	var displayName *string
	if trimmed := strings.TrimSpace(req.DisplayName); trimmed != "" {
		displayName = &trimmed
	}
	profile, err := txProfileRepo.Create(c.Context(), user.ID, displayName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create profile"})
	}

	if err := tx.Commit(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"user":    user,
		"profile": profile,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.userRepo.GetByEmail(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	profile, err := h.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"profile": profile,
	})
}
