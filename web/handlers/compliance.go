package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// GetComplianceSettings returns the company-level policy, or defaults when
// none has been saved yet.
func (h *Handler) GetComplianceSettings(c *fiber.Ctx) error {
	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleAdmin); err != nil {
		return err
	}

	var settings models.ComplianceSettings
	err := h.DB.Where("company_id = ?", companyID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(fiber.Map{"settings": nil})
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// UpsertComplianceSettingsRequest is the compliance settings body
type UpsertComplianceSettingsRequest struct {
	CompanyID           uint    `json:"company_id"`
	MaxWeeklyHours      float64 `json:"max_weekly_hours"`
	MaxMonthlyHours     float64 `json:"max_monthly_hours"`
	CheckinWindowStart  *string `json:"checkin_window_start,omitempty"`
	CheckinWindowEnd    *string `json:"checkin_window_end,omitempty"`
	AllowSunday         bool    `json:"allow_sunday"`
	AllowHolidays       bool    `json:"allow_holidays"`
	AutoCloseAfterHours int     `json:"auto_close_after_hours"`
}

// UpsertComplianceSettings creates or overwrites the company policy,
// keyed by company_id.
func (h *Handler) UpsertComplianceSettings(c *fiber.Ctx) error {
	var req UpsertComplianceSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.MaxWeeklyHours < 0 || req.MaxMonthlyHours < 0 || req.AutoCloseAfterHours < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "policy values must not be negative")
	}

	if _, _, err := h.requireRole(c, req.CompanyID, models.RoleAdmin); err != nil {
		return err
	}

	var settings models.ComplianceSettings
	err := h.DB.Where("company_id = ?", req.CompanyID).First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	settings.CompanyID = req.CompanyID
	settings.MaxWeeklyHours = req.MaxWeeklyHours
	settings.MaxMonthlyHours = req.MaxMonthlyHours
	settings.CheckinWindowStart = req.CheckinWindowStart
	settings.CheckinWindowEnd = req.CheckinWindowEnd
	settings.AllowSunday = req.AllowSunday
	settings.AllowHolidays = req.AllowHolidays
	if req.AutoCloseAfterHours > 0 {
		settings.AutoCloseAfterHours = req.AutoCloseAfterHours
	}

	if err := h.DB.Save(&settings).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "settings": settings})
}

// ListWorkerRules returns all per-worker overrides in the company
func (h *Handler) ListWorkerRules(c *fiber.Ctx) error {
	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleAdmin); err != nil {
		return err
	}

	var rules []models.WorkerDayRule
	if err := h.DB.Where("company_id = ?", companyID).Order("user_id").Find(&rules).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"rules": rules, "count": len(rules)})
}

// UpsertWorkerRuleRequest is the worker rule body
type UpsertWorkerRuleRequest struct {
	CompanyID          uint     `json:"company_id"`
	MaxWeeklyHours     *float64 `json:"max_weekly_hours,omitempty"`
	MaxMonthlyHours    *float64 `json:"max_monthly_hours,omitempty"`
	CheckinWindowStart *string  `json:"checkin_window_start,omitempty"`
	CheckinWindowEnd   *string  `json:"checkin_window_end,omitempty"`
	AllowSunday        *bool    `json:"allow_sunday,omitempty"`
	AllowHolidays      *bool    `json:"allow_holidays,omitempty"`
}

// UpsertWorkerRule creates or overwrites one worker's override, keyed by
// (company_id, user_id). Nil fields inherit the company setting.
func (h *Handler) UpsertWorkerRule(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil || userID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var req UpsertWorkerRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if _, _, err := h.requireRole(c, req.CompanyID, models.RoleAdmin); err != nil {
		return err
	}

	var membershipCount int64
	err = h.DB.Model(&models.Membership{}).
		Where("user_id = ? AND company_id = ?", userID, req.CompanyID).
		Count(&membershipCount).Error
	if err != nil {
		return err
	}
	if membershipCount == 0 {
		return fiber.NewError(fiber.StatusNotFound, "worker not found in company")
	}

	var rule models.WorkerDayRule
	err = h.DB.Where("company_id = ? AND user_id = ?", req.CompanyID, userID).First(&rule).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	rule.CompanyID = req.CompanyID
	rule.UserID = uint(userID)
	rule.MaxWeeklyHours = req.MaxWeeklyHours
	rule.MaxMonthlyHours = req.MaxMonthlyHours
	rule.CheckinWindowStart = req.CheckinWindowStart
	rule.CheckinWindowEnd = req.CheckinWindowEnd
	rule.AllowSunday = req.AllowSunday
	rule.AllowHolidays = req.AllowHolidays

	if err := h.DB.Save(&rule).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "rule": rule})
}

// DeleteWorkerRule drops a worker's override so they fall back to the
// company policy.
func (h *Handler) DeleteWorkerRule(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil || userID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleAdmin); err != nil {
		return err
	}

	result := h.DB.Where("company_id = ? AND user_id = ?", companyID, userID).
		Delete(&models.WorkerDayRule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "worker rule not found")
	}

	return c.JSON(fiber.Map{"success": true})
}
