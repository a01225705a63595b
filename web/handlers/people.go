package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// Person is one row of the people listing: a membership joined to its user
type Person struct {
	MembershipID uint   `json:"membership_id"`
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
}

// ListPeople returns everyone holding a membership in the company
func (h *Handler) ListPeople(c *fiber.Ctx) error {
	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleManager); err != nil {
		return err
	}

	var people []Person
	err := h.DB.Model(&models.Membership{}).
		Select("memberships.membership_id, users.user_id, users.email, users.full_name, memberships.role, users.is_active").
		Joins("JOIN users ON users.user_id = memberships.user_id").
		Where("memberships.company_id = ?", companyID).
		Order("users.full_name").
		Scan(&people).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"people": people, "count": len(people)})
}

// UpdatePersonRequest is the /update-person/:id body
type UpdatePersonRequest struct {
	CompanyID uint    `json:"company_id"`
	Role      *string `json:"role,omitempty"`
	FullName  *string `json:"full_name,omitempty"`
}

// UpdatePerson changes a member's role or name. Role changes need admin;
// granting or revoking ownership needs the owner role.
func (h *Handler) UpdatePerson(c *fiber.Ctx) error {
	targetUserID, err := c.ParamsInt("id")
	if err != nil || targetUserID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var req UpdatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	_, actorRole, err := h.requireRole(c, req.CompanyID, models.RoleAdmin)
	if err != nil {
		return err
	}

	var membership models.Membership
	err = h.DB.Where("user_id = ? AND company_id = ?", targetUserID, req.CompanyID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "person not found in company")
	}
	if err != nil {
		return err
	}

	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid role")
		}
		// Touching ownership in either direction is owner-only
		ownershipChange := *req.Role == models.RoleOwner || membership.Role == models.RoleOwner
		if ownershipChange && !models.RoleAtLeast(actorRole, models.RoleOwner) {
			return fiber.NewError(fiber.StatusForbidden, "only an owner can change ownership")
		}
		membership.Role = *req.Role
		if err := h.DB.Save(&membership).Error; err != nil {
			return err
		}
	}

	if req.FullName != nil && *req.FullName != "" {
		err := h.DB.Model(&models.User{}).
			Where("user_id = ?", targetUserID).
			Update("full_name", *req.FullName).Error
		if err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"success": true, "user_id": targetUserID})
}

// DeletePerson removes a member's membership (not the user row). The last
// owner of a company cannot be removed.
func (h *Handler) DeletePerson(c *fiber.Ctx) error {
	targetUserID, err := c.ParamsInt("id")
	if err != nil || targetUserID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleAdmin); err != nil {
		return err
	}

	var membership models.Membership
	err = h.DB.Where("user_id = ? AND company_id = ?", targetUserID, companyID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "person not found in company")
	}
	if err != nil {
		return err
	}

	if membership.Role == models.RoleOwner {
		var owners int64
		err := h.DB.Model(&models.Membership{}).
			Where("company_id = ? AND role = ?", companyID, models.RoleOwner).
			Count(&owners).Error
		if err != nil {
			return err
		}
		if owners <= 1 {
			return fiber.NewError(fiber.StatusConflict, "cannot remove the last owner")
		}
	}

	if err := h.DB.Delete(&membership).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "user_id": targetUserID})
}
