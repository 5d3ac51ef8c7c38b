package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/ssingh799/habit-flow/internal/services"
)

func actorID(c *fiber.Ctx) (int64, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, errors.New("missing user id")
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// mapServiceError translates the service failure taxonomy into HTTP
// responses. Anything unrecognized is a remote failure and surfaces as a
// 500 without mutating what the client already has.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAcceptIncomplete):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "Request was accepted but its conversation is missing",
			"repair": "POST /api/v1/chat/requests/:id/repair",
		})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Request failed"})
	}
}
