package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// ListInvites returns the company's pending invites
func (h *Handler) ListInvites(c *fiber.Ctx) error {
	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleAdmin); err != nil {
		return err
	}

	var invites []models.Invite
	err := h.DB.Where("company_id = ? AND status = ?", companyID, models.InviteStatusPending).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"invites": invites, "count": len(invites)})
}

// CreateInviteRequest is the /invites body
type CreateInviteRequest struct {
	CompanyID uint   `json:"company_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// CreateInvite records an invite with a fresh token. Mail delivery is an
// external concern; the token is returned for out-of-band sharing.
func (h *Handler) CreateInvite(c *fiber.Ctx) error {
	var req CreateInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}
	if !models.ValidRole(req.Role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	claims, actorRole, err := h.requireRole(c, req.CompanyID, models.RoleAdmin)
	if err != nil {
		return err
	}
	if req.Role == models.RoleOwner && !models.RoleAtLeast(actorRole, models.RoleOwner) {
		return fiber.NewError(fiber.StatusForbidden, "only an owner can invite an owner")
	}

	expires := time.Now().UTC().AddDate(0, 0, 14)
	invite := models.Invite{
		CompanyID: req.CompanyID,
		Email:     req.Email,
		Role:      req.Role,
		Token:     uuid.New().String(),
		Status:    models.InviteStatusPending,
		InvitedBy: claims.UserID,
		ExpiresAt: &expires,
	}
	if err := h.DB.Create(&invite).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "invite": invite})
}

// RevokeInvite marks a pending invite revoked
func (h *Handler) RevokeInvite(c *fiber.Ctx) error {
	inviteID, err := c.ParamsInt("id")
	if err != nil || inviteID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invite id")
	}

	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleAdmin); err != nil {
		return err
	}

	var invite models.Invite
	err = h.DB.Where("invite_id = ? AND company_id = ?", inviteID, companyID).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "invite not found")
	}
	if err != nil {
		return err
	}
	if invite.Status != models.InviteStatusPending {
		return fiber.NewError(fiber.StatusConflict, "invite is not pending")
	}

	invite.Status = models.InviteStatusRevoked
	if err := h.DB.Save(&invite).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "invite_id": invite.InviteID})
}
