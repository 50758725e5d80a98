package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type ChannelHandler struct {
	channels *application.ChannelService
	external *application.ExternalService
}

// NewChannelHandler creates the channel manager handler.
func NewChannelHandler(channels *application.ChannelService, external *application.ExternalService) *ChannelHandler {
	return &ChannelHandler{channels: channels, external: external}
}

type channelRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CreateChannel registers a sales channel. Superadmin only.
func (h *ChannelHandler) CreateChannel(c *fiber.Ctx) error {
	var req channelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	channel := &domain.Channel{Name: req.Name, Code: req.Code}
	if err := h.channels.CreateChannel(channel); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": channel})
}

// ListChannels returns the channel catalog.
func (h *ChannelHandler) ListChannels(c *fiber.Ctx) error {
	channels, err := h.channels.ListChannels()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": channels})
}

type connectionRequest struct {
	ChannelID   string          `json:"channelId"`
	ExternalID  string          `json:"externalId"`
	Credentials json.RawMessage `json:"credentials"`
	Enabled     *bool           `json:"enabled"`
}

// Connect links the caller's hostel to a channel.
func (h *ChannelHandler) Connect(c *fiber.Ctx) error {
	var req connectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	conn := &domain.ChannelConnection{
		HostelID:    Identity(c).HostelID,
		ChannelID:   req.ChannelID,
		ExternalID:  req.ExternalID,
		Credentials: req.Credentials,
	}
	if err := h.channels.Connect(conn); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": conn})
}

// ListConnections returns the hostel's channel connections.
func (h *ChannelHandler) ListConnections(c *fiber.Ctx) error {
	connections, err := h.channels.ListConnections(Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": connections})
}

// UpdateConnection modifies a connection's credentials or enabled flag.
func (h *ChannelHandler) UpdateConnection(c *fiber.Ctx) error {
	var req connectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	existing, err := h.channels.GetConnection(c.Params("id"), Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}

	conn := &domain.ChannelConnection{
		ID:          existing.ID,
		ExternalID:  req.ExternalID,
		Credentials: req.Credentials,
		Enabled:     existing.Enabled,
	}
	if req.Credentials == nil {
		conn.Credentials = existing.Credentials
	}
	if req.ExternalID == "" {
		conn.ExternalID = existing.ExternalID
	}
	if req.Enabled != nil {
		conn.Enabled = *req.Enabled
	}
	if err := h.channels.UpdateConnection(conn, Identity(c).HostelID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": conn})
}

// Disconnect removes a channel connection.
func (h *ChannelHandler) Disconnect(c *fiber.Ctx) error {
	if err := h.channels.Disconnect(c.Params("id"), Identity(c).HostelID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SyncLog returns a page of staged bookings: ?status=&externalResId=&page=&limit=.
func (h *ChannelHandler) SyncLog(c *fiber.Ctx) error {
	page, err := h.channels.SyncLog(domain.SyncLogFilter{
		HostelID:      Identity(c).HostelID,
		Status:        c.Query("status"),
		ExternalResID: c.Query("externalResId"),
	}, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": page})
}

// GetSync returns one staged booking.
func (h *ChannelHandler) GetSync(c *fiber.Ctx) error {
	sync, err := h.channels.GetSync(c.Params("id"), Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": sync})
}

// RetrySync re-runs materialization of an errored staged booking.
func (h *ChannelHandler) RetrySync(c *fiber.Ctx) error {
	sync, err := h.channels.RetrySync(c.Params("id"), Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": sync})
}

type ingestRequest struct {
	ConnectionID  string          `json:"connectionId"`
	ExternalResID string          `json:"externalResId"`
	Booking       json.RawMessage `json:"booking"`
}

// IngestBooking receives a booking pushed by the channel manager. The
// endpoint is idempotent on externalResId.
func (h *ChannelHandler) IngestBooking(c *fiber.Ctx) error {
	var req ingestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sync, err := h.external.IngestBooking(req.ConnectionID, req.ExternalResID, req.Booking)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": sync})
}

// AvailabilityFeed reports free places and prices per room per day.
func (h *ChannelHandler) AvailabilityFeed(c *fiber.Ctx) error {
	feed, err := h.external.AvailabilityFeed(c.Params("connectionId"),
		c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": feed})
}

// PriceFeed reports the active price rows of one room.
func (h *ChannelHandler) PriceFeed(c *fiber.Ctx) error {
	prices, err := h.external.PriceFeed(c.Params("connectionId"), c.Params("roomId"),
		c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": prices})
}

type assignRoomRequest struct {
	RoomID         string `json:"roomId"`
	ExternalRoomID string `json:"externalRoomId"`
}

// AssignRoom maps a local room to the channel's room id.
func (h *ChannelHandler) AssignRoom(c *fiber.Ctx) error {
	var req assignRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.external.AssignExternalRoomID(c.Params("connectionId"), req.RoomID, req.ExternalRoomID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
