package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// writeError maps domain errors onto HTTP statuses. Tenant mismatches
// surface as 404 so callers cannot probe other hostels' data.
func writeError(c *fiber.Ctx, err error) error {
	var unavailable *domain.UnavailableError

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAccessDenied):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resource not found"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &unavailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
			"day":   unavailable.Day.Format("2006-01-02"),
		})
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrMissingPrices),
		errors.Is(err, domain.ErrInvalidRatePlan):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
