package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type GuestHandler struct {
	service *application.GuestService
}

// NewGuestHandler creates the guest directory handler.
func NewGuestHandler(service *application.GuestService) *GuestHandler {
	return &GuestHandler{service: service}
}

type guestRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Create registers a guest.
func (h *GuestHandler) Create(c *fiber.Ctx) error {
	var req guestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	guest := &domain.Guest{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.service.Create(guest); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": guest})
}

// List returns a page of guests: ?page=&limit=&sort=&order=.
func (h *GuestHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.QueryInt("page", 1), c.QueryInt("limit", 20),
		c.Query("sort"), c.Query("order"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": page})
}

// Search finds guests by name or email fragment: ?q=&limit=.
func (h *GuestHandler) Search(c *fiber.Ctx) error {
	guests, err := h.service.Search(c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": guests})
}

// Get returns one guest.
func (h *GuestHandler) Get(c *fiber.Ctx) error {
	guest, err := h.service.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": guest})
}

// History returns the reservations linked to a guest.
func (h *GuestHandler) History(c *fiber.Ctx) error {
	reservations, err := h.service.History(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": reservations})
}

// Update modifies a guest.
func (h *GuestHandler) Update(c *fiber.Ctx) error {
	var req guestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	guest := &domain.Guest{ID: c.Params("id"), Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.service.Update(guest); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": guest})
}

// Delete removes a guest without reservation history.
func (h *GuestHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
