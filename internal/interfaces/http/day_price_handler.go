package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
)

type DayPriceHandler struct {
	service *application.DayPriceService
}

// NewDayPriceHandler creates the pricing calendar handler.
func NewDayPriceHandler(service *application.DayPriceService) *DayPriceHandler {
	return &DayPriceHandler{service: service}
}

type setPriceRequest struct {
	RoomID            string  `json:"roomId"`
	Date              string  `json:"date"`
	Price             float64 `json:"price"`
	AvailableCapacity *int    `json:"availableCapacity"`
}

// SetPrice creates or replaces the price of one room for one day.
func (h *DayPriceHandler) SetPrice(c *fiber.Ctx) error {
	var req setPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	dp, err := h.service.SetPrice(Identity(c).HostelID, req.RoomID, req.Date, req.Price, req.AvailableCapacity)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dp})
}

type setRangeRequest struct {
	RoomIDs           []string `json:"roomIds"`
	From              string   `json:"from"`
	To                string   `json:"to"`
	Price             float64  `json:"price"`
	AvailableCapacity *int     `json:"availableCapacity"`
	Overwrite         bool     `json:"overwrite"`
}

// SetRange fills [from, to) for several rooms with one price; "to" is
// the first unfilled day.
func (h *DayPriceHandler) SetRange(c *fiber.Ctx) error {
	var req setRangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	count, err := h.service.SetRange(Identity(c).HostelID, req.RoomIDs, req.From, req.To,
		req.Price, req.AvailableCapacity, req.Overwrite)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": count}})
}

// RemovePrice deactivates the price of one room for one day.
func (h *DayPriceHandler) RemovePrice(c *fiber.Ctx) error {
	err := h.service.RemovePrice(Identity(c).HostelID, c.Params("roomId"), c.Params("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetRoomPrices returns the price rows of one room for ?from=&to=.
func (h *DayPriceHandler) GetRoomPrices(c *fiber.Ctx) error {
	prices, err := h.service.GetRoomPrices(Identity(c).HostelID, c.Params("roomId"),
		c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": prices})
}

// GetGrid returns the room x day price matrix for ?from=&to=.
func (h *DayPriceHandler) GetGrid(c *fiber.Ctx) error {
	grid, err := h.service.GetGrid(Identity(c).HostelID, c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": grid})
}
