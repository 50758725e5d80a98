package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ezequieldarevalo/totalhub-backend/internal/application"
)

type AuthHandler struct {
	service *application.AuthService
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(service *application.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type registerRequest struct {
	HostelName string `json:"hostelName"`
	Slug       string `json:"slug"`
	AdminName  string `json:"adminName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// Register creates a hostel together with its first admin account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	hostel, admin, err := h.service.RegisterHostel(req.HostelName, req.Slug, req.AdminName, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"hostel": hostel,
			"admin":  admin,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns an access token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	token, user, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"token": token,
			"user":  user,
		},
	})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.service.GetUser(Identity(c).UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": user})
}

type createOperatorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateOperator adds an operator account to the caller's hostel.
func (h *AuthHandler) CreateOperator(c *fiber.Ctx) error {
	var req createOperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	operator, err := h.service.CreateOperator(Identity(c).HostelID, req.Name, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": operator})
}

// ListOperators returns the operator accounts of the caller's hostel.
func (h *AuthHandler) ListOperators(c *fiber.Ctx) error {
	operators, err := h.service.ListOperators(Identity(c).HostelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": operators})
}
