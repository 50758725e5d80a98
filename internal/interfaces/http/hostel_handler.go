package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
)

type HostelHandler struct {
	service *application.HostelService
}

// NewHostelHandler creates the hostel handler.
func NewHostelHandler(service *application.HostelService) *HostelHandler {
	return &HostelHandler{service: service}
}

// List returns every hostel. Superadmin only.
func (h *HostelHandler) List(c *fiber.Ctx) error {
	hostels, err := h.service.List()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": hostels})
}

// Get returns the caller's own hostel.
func (h *HostelHandler) Get(c *fiber.Ctx) error {
	hostel, err := h.service.GetByID(Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": hostel})
}
