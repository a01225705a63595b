package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/auth"
	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// LoginRequest is the /auth/login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues an access token together with the
// caller's membership list. The client picks its active company from that
// list; the server does not store the selection.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}

	var user models.User
	err := h.DB.Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !user.IsActive || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return auth.ErrInvalidCredentials
	}

	token, err := h.Tokens.Issue(user.UserID, user.IsSuperadmin)
	if err != nil {
		return err
	}

	memberships, err := auth.Resolve(c.UserContext(), h.DB, user.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token":       token,
		"user":        user,
		"memberships": memberships,
	})
}
