package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
)

// PublicHandler serves the unauthenticated booking-site endpoints,
// scoped by hostel slug except for the hostel directory.
type PublicHandler struct {
	service *application.PublicService
}

// NewPublicHandler creates the public handler.
func NewPublicHandler(service *application.PublicService) *PublicHandler {
	return &PublicHandler{service: service}
}

// ListHostels returns the hostel directory.
func (h *PublicHandler) ListHostels(c *fiber.Ctx) error {
	hostels, err := h.service.ListHostels()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": hostels})
}

// GetHostel returns the hostel behind a slug.
func (h *PublicHandler) GetHostel(c *fiber.Ctx) error {
	hostel, err := h.service.GetHostel(c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": hostel})
}

// ListRooms returns the hostel's rooms for the booking site.
func (h *PublicHandler) ListRooms(c *fiber.Ctx) error {
	rooms, err := h.service.ListRooms(c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": rooms})
}

// Search returns the rooms available for ?from=&to=&guests=.
func (h *PublicHandler) Search(c *fiber.Ctx) error {
	results, err := h.service.SearchAvailability(c.Params("slug"),
		c.Query("from"), c.Query("to"), c.QueryInt("guests", 1))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": results})
}

// Quote prices a stay in a room type for the guest's rate plan.
func (h *PublicHandler) Quote(c *fiber.Ctx) error {
	quote, err := h.service.QuoteStay(c.Params("slug"), c.Params("roomSlug"),
		c.Query("from"), c.Query("to"), c.QueryInt("guests", 1), planFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": quote})
}

// Book places a reservation from the booking site.
func (h *PublicHandler) Book(c *fiber.Ctx) error {
	var req createReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	res, err := h.service.Book(c.Params("slug"), application.CreateReservationInput{
		RoomID:   req.RoomID,
		From:     req.From,
		To:       req.To,
		Guests:   req.Guests,
		Name:     req.Name,
		Email:    req.Email,
		Plan:     req.Plan.toPlan(),
		Language: req.Language,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": res})
}

// MyBookings returns a guest's reservations by ?email=.
func (h *PublicHandler) MyBookings(c *fiber.Ctx) error {
	reservations, err := h.service.LookupByEmail(c.Query("email"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": reservations})
}
