package handlers

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/models"
	"github.com/gtiq/timeclock"
	"github.com/gtiq/web/middleware"
	"gorm.io/gorm"
)

// ClockRequest is the /clock body. UserID, CompanyID and KioskPIN are the
// kiosk path: a shared device supplies the principal explicitly and proves
// itself with the company's PIN instead of a bearer token.
type ClockRequest struct {
	Action    string   `json:"action"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	PhotoURL  *string  `json:"photo_url,omitempty"`
	DeviceID  *string  `json:"device_id,omitempty"`
	Source    string   `json:"source,omitempty"`
	UserID    uint     `json:"user_id,omitempty"`
	CompanyID uint     `json:"company_id,omitempty"`
	KioskPIN  string   `json:"kiosk_pin,omitempty"`
}

// ClockPunch records a clock action (in, out, break_start, break_end)
func (h *Handler) ClockPunch(c *fiber.Ctx) error {
	var req ClockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID, companyID, source, err := h.clockPrincipal(c, &req)
	if err != nil {
		return err
	}

	result, err := h.Clock.Punch(c.UserContext(), timeclock.PunchInput{
		UserID:    userID,
		CompanyID: companyID,
		Action:    req.Action,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		PhotoURL:  req.PhotoURL,
		DeviceID:  req.DeviceID,
		Source:    source,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"status":     result.Status,
		"event_type": result.EventType,
		"timestamp":  result.Timestamp,
	})
}

// ClockStatus reports the caller's logical status in one company
func (h *Handler) ClockStatus(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	companyID := companyIDQuery(c)
	if companyID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "company_id is required")
	}
	if _, _, err := h.requireRole(c, companyID, models.RoleWorker); err != nil {
		return err
	}

	session, err := h.Clock.ActiveSession(c.UserContext(), claims.UserID, companyID)
	if err != nil {
		return err
	}

	status := timeclock.StatusOff
	if session != nil {
		status = timeclock.StatusWorking
		if session.IsOnBreak {
			status = timeclock.StatusPaused
		}
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"session": session,
	})
}

// clockPrincipal resolves who is clocking: the bearer token's subject, or the
// kiosk-supplied user after PIN and membership verification.
func (h *Handler) clockPrincipal(c *fiber.Ctx, req *ClockRequest) (userID, companyID uint, source string, err error) {
	claims := middleware.Claims(c)

	if claims != nil {
		if req.CompanyID == 0 {
			return 0, 0, "", fiber.NewError(fiber.StatusBadRequest, "company_id is required")
		}
		if _, _, err := h.requireRole(c, req.CompanyID, models.RoleWorker); err != nil {
			return 0, 0, "", err
		}
		source = req.Source
		if source == "" {
			source = models.SourceWeb
		}
		return claims.UserID, req.CompanyID, source, nil
	}

	// Kiosk path
	if req.UserID == 0 || req.CompanyID == 0 || req.KioskPIN == "" {
		return 0, 0, "", fiber.NewError(fiber.StatusUnauthorized, "authentication or kiosk credentials required")
	}

	var company models.Company
	dbErr := h.DB.First(&company, req.CompanyID).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return 0, 0, "", fiber.NewError(fiber.StatusUnauthorized, "invalid kiosk credentials")
	}
	if dbErr != nil {
		return 0, 0, "", dbErr
	}
	if company.KioskPIN == nil ||
		subtle.ConstantTimeCompare([]byte(*company.KioskPIN), []byte(req.KioskPIN)) != 1 {
		return 0, 0, "", fiber.NewError(fiber.StatusUnauthorized, "invalid kiosk credentials")
	}

	var membership models.Membership
	dbErr = h.DB.Where("user_id = ? AND company_id = ?", req.UserID, req.CompanyID).
		First(&membership).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return 0, 0, "", fiber.NewError(fiber.StatusUnauthorized, "invalid kiosk credentials")
	}
	if dbErr != nil {
		return 0, 0, "", dbErr
	}

	return req.UserID, req.CompanyID, models.SourceKiosk, nil
}
