package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// ListIncidents returns the company's incidents, optionally filtered by status
func (h *Handler) ListIncidents(c *fiber.Ctx) error {
	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleManager); err != nil {
		return err
	}

	query := h.DB.Where("company_id = ?", companyID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var incidents []models.Incident
	if err := query.Order("created_at DESC").Find(&incidents).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"incidents": incidents, "count": len(incidents)})
}

// CreateIncidentRequest is the /incidents body
type CreateIncidentRequest struct {
	CompanyID    uint    `json:"company_id"`
	UserID       uint    `json:"user_id"`
	IncidentType string  `json:"incident_type"`
	Description  *string `json:"description,omitempty"`
}

// CreateIncident records a manually raised incident
func (h *Handler) CreateIncident(c *fiber.Ctx) error {
	var req CreateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.UserID == 0 || req.IncidentType == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id and incident_type are required")
	}

	if _, _, err := h.requireRole(c, req.CompanyID, models.RoleManager); err != nil {
		return err
	}

	incident := models.Incident{
		UserID:       req.UserID,
		CompanyID:    req.CompanyID,
		IncidentType: req.IncidentType,
		Description:  req.Description,
		Status:       models.IncidentStatusPending,
	}
	if err := h.DB.Create(&incident).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "incident": incident})
}

// ResolveIncident closes an incident as resolved
func (h *Handler) ResolveIncident(c *fiber.Ctx) error {
	return h.closeIncident(c, models.IncidentStatusResolved)
}

// DismissIncident closes an incident as dismissed
func (h *Handler) DismissIncident(c *fiber.Ctx) error {
	return h.closeIncident(c, models.IncidentStatusDismissed)
}

func (h *Handler) closeIncident(c *fiber.Ctx, status string) error {
	incidentID, err := c.ParamsInt("id")
	if err != nil || incidentID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid incident id")
	}

	companyID := companyIDQuery(c)
	claims, _, err := h.requireRole(c, companyID, models.RoleManager)
	if err != nil {
		return err
	}

	var incident models.Incident
	err = h.DB.Where("incident_id = ? AND company_id = ?", incidentID, companyID).
		First(&incident).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "incident not found")
	}
	if err != nil {
		return err
	}
	if incident.Status != models.IncidentStatusPending {
		return fiber.NewError(fiber.StatusConflict, "incident is not pending")
	}

	now := time.Now().UTC()
	incident.Status = status
	incident.ResolvedBy = &claims.UserID
	incident.ResolvedAt = &now
	if err := h.DB.Save(&incident).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "incident": incident})
}
