package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
	"github.com/ezequieldarevalo/totalhub-backend/internal/booking"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type ReservationHandler struct {
	service *application.ReservationService
}

// NewReservationHandler creates the reservation handler.
func NewReservationHandler(service *application.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

type ratePlanRequest struct {
	IsResident    bool   `json:"isResident"`
	PaymentMethod string `json:"paymentMethod"`
	HasMuchiCard  bool   `json:"hasMuchiCard"`
	MuchiCardType string `json:"muchiCardType"`
}

func (r ratePlanRequest) toPlan() booking.RatePlan {
	method := r.PaymentMethod
	if method == "" {
		method = string(booking.PayCash)
	}
	return booking.RatePlan{
		IsResident:    r.IsResident,
		PaymentMethod: booking.PaymentMethod(method),
		HasMuchiCard:  r.HasMuchiCard,
		MuchiCardType: booking.MuchiCardType(r.MuchiCardType),
	}
}

type createReservationRequest struct {
	RoomID         string          `json:"roomId"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	Guests         int             `json:"guests"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Plan           ratePlanRequest `json:"plan"`
	InitialPayment float64         `json:"initialPayment"`
	Language       string          `json:"language"`
}

// Create books a room for the caller's hostel.
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var req createReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	res, err := h.service.Create(Identity(c).HostelID, application.CreateReservationInput{
		RoomID:         req.RoomID,
		From:           req.From,
		To:             req.To,
		Guests:         req.Guests,
		Name:           req.Name,
		Email:          req.Email,
		Plan:           req.Plan.toPlan(),
		InitialPayment: req.InitialPayment,
		Language:       req.Language,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": res})
}

// Preview checks availability and prices a stay without booking:
// ?roomId=&from=&to=&guests= plus optional rate plan fields.
func (h *ReservationHandler) Preview(c *fiber.Ctx) error {
	plan := planFromQuery(c)
	preview, err := h.service.Preview(Identity(c).HostelID, c.Query("roomId"),
		c.Query("from"), c.Query("to"), c.QueryInt("guests"), plan)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": preview})
}

func planFromQuery(c *fiber.Ctx) booking.RatePlan {
	return ratePlanRequest{
		IsResident:    c.QueryBool("isResident"),
		PaymentMethod: c.Query("paymentMethod"),
		HasMuchiCard:  c.QueryBool("hasMuchiCard"),
		MuchiCardType: c.Query("muchiCardType"),
	}.toPlan()
}

// List returns the hostel's reservations filtered by ?roomId=, ?from=,
// ?to=, ?includeCancelled=, ?upcoming=, ?past=.
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	filter := domain.ReservationFilter{
		HostelID:         Identity(c).HostelID,
		RoomID:           c.Query("roomId"),
		IncludeCancelled: c.QueryBool("includeCancelled"),
		OnlyUpcoming:     c.QueryBool("upcoming"),
		OnlyPast:         c.QueryBool("past"),
	}
	if from := c.Query("from"); from != "" {
		day, err := booking.ParseDay(from)
		if err != nil {
			return writeError(c, err)
		}
		filter.From = day
	}
	if to := c.Query("to"); to != "" {
		day, err := booking.ParseDay(to)
		if err != nil {
			return writeError(c, err)
		}
		filter.To = day
	}

	reservations, err := h.service.List(filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": reservations})
}

// Get returns one reservation.
func (h *ReservationHandler) Get(c *fiber.Ctx) error {
	res, err := h.service.Get(c.Params("id"), Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": res})
}

type updateReservationRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Guests int    `json:"guests"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Update changes the stay of a reservation.
func (h *ReservationHandler) Update(c *fiber.Ctx) error {
	var req updateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	from, to, err := booking.ParseRange(req.From, req.To)
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.service.Update(c.Params("id"), Identity(c).HostelID, domain.ReservationUpdate{
		StartDate: from,
		EndDate:   to,
		Guests:    req.Guests,
		Name:      req.Name,
		Email:     req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": res})
}

// Cancel frees the reservation's nights.
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	if err := h.service.Cancel(c.Params("id"), Identity(c).HostelID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete removes a reservation without payments.
func (h *ReservationHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id"), Identity(c).HostelID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type addPaymentRequest struct {
	Amount float64 `json:"amount"`
}

// AddPayment registers a payment against a reservation.
func (h *ReservationHandler) AddPayment(c *fiber.Ctx) error {
	var req addPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	res, err := h.service.AddPayment(c.Params("id"), Identity(c).HostelID, req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": res})
}

// ListPayments returns the payments of a reservation.
func (h *ReservationHandler) ListPayments(c *fiber.Ctx) error {
	payments, err := h.service.ListPayments(c.Params("id"), Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": payments})
}

// Calendar returns the per-room occupancy calendar for ?from=&to=.
func (h *ReservationHandler) Calendar(c *fiber.Ctx) error {
	calendar, err := h.service.Calendar(Identity(c).HostelID, c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": calendar})
}

// Income returns the revenue report for ?from=&to=.
func (h *ReservationHandler) Income(c *fiber.Ctx) error {
	report, err := h.service.Income(Identity(c).HostelID, c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": report})
}

// Occupancy returns the occupancy report for ?from=&to=.
func (h *ReservationHandler) Occupancy(c *fiber.Ctx) error {
	report, err := h.service.Occupancy(Identity(c).HostelID, c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": report})
}
