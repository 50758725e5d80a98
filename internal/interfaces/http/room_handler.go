package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type RoomHandler struct {
	service *application.RoomService
}

// NewRoomHandler creates the room catalog handler.
func NewRoomHandler(service *application.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

type roomRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	RoomTypeID  string   `json:"roomTypeId"`
	FeatureIDs  []string `json:"featureIds"`
}

// Create adds a room to the caller's hostel.
func (h *RoomHandler) Create(c *fiber.Ctx) error {
	var req roomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	room := &domain.Room{
		HostelID:    Identity(c).HostelID,
		Name:        req.Name,
		Description: req.Description,
		RoomTypeID:  req.RoomTypeID,
	}
	if err := h.service.CreateRoom(room, req.FeatureIDs); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": room})
}

// List returns the rooms of the caller's hostel.
func (h *RoomHandler) List(c *fiber.Ctx) error {
	rooms, err := h.service.ListRooms(Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": rooms})
}

// Get returns one room.
func (h *RoomHandler) Get(c *fiber.Ctx) error {
	room, err := h.service.GetRoom(c.Params("id"), Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": room})
}

// Update modifies a room.
func (h *RoomHandler) Update(c *fiber.Ctx) error {
	var req roomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	room := &domain.Room{
		ID:          c.Params("id"),
		HostelID:    Identity(c).HostelID,
		Name:        req.Name,
		Description: req.Description,
		RoomTypeID:  req.RoomTypeID,
	}
	if err := h.service.UpdateRoom(room, req.FeatureIDs); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": room})
}

// Delete removes a room.
func (h *RoomHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteRoom(c.Params("id"), Identity(c).HostelID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type roomTypeRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Capacity int    `json:"capacity"`
}

// CreateRoomType adds a room type to the catalog. Superadmin only.
func (h *RoomHandler) CreateRoomType(c *fiber.Ctx) error {
	var req roomTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rt := &domain.RoomType{Name: req.Name, Slug: req.Slug, Capacity: req.Capacity}
	if err := h.service.CreateRoomType(rt); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": rt})
}

// ListRoomTypes returns the room type catalog.
func (h *RoomHandler) ListRoomTypes(c *fiber.Ctx) error {
	types, err := h.service.ListRoomTypes()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": types})
}

// UpdateRoomType modifies a room type. Superadmin only.
func (h *RoomHandler) UpdateRoomType(c *fiber.Ctx) error {
	var req roomTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rt := &domain.RoomType{ID: c.Params("id"), Name: req.Name, Slug: req.Slug, Capacity: req.Capacity}
	if err := h.service.UpdateRoomType(rt); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": rt})
}

// CreateFeature adds a feature tag. Superadmin only.
func (h *RoomHandler) CreateFeature(c *fiber.Ctx) error {
	var req struct {
		Slug string `json:"slug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	feature := &domain.RoomFeature{Slug: req.Slug}
	if err := h.service.CreateFeature(feature); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": feature})
}

// ListFeatures returns the feature catalog.
func (h *RoomHandler) ListFeatures(c *fiber.Ctx) error {
	features, err := h.service.ListFeatures()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": features})
}

// DeleteFeature removes a feature tag. Superadmin only.
func (h *RoomHandler) DeleteFeature(c *fiber.Ctx) error {
	if err := h.service.DeleteFeature(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
