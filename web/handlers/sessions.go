package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/models"
	"github.com/gtiq/timeclock"
	"github.com/gtiq/web/middleware"
)

// ListSessions returns the company's work sessions, newest first.
// Filters: user_id, from, to (RFC3339), page/limit.
func (h *Handler) ListSessions(c *fiber.Ctx) error {
	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleManager); err != nil {
		return err
	}

	limit, offset := pagination(c)
	query := h.DB.Where("company_id = ?", companyID)

	if userID := c.QueryInt("user_id", 0); userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid 'from' timestamp")
		}
		query = query.Where("clock_in_time >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid 'to' timestamp")
		}
		query = query.Where("clock_in_time <= ?", t)
	}

	var sessions []models.WorkSession
	if err := query.Order("clock_in_time DESC").Limit(limit).Offset(offset).Find(&sessions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"sessions": sessions, "count": len(sessions)})
}

// ReviewQueue returns the sessions needing manager attention
func (h *Handler) ReviewQueue(c *fiber.Ctx) error {
	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleManager); err != nil {
		return err
	}

	sessions, err := h.Clock.ReviewQueue(c.UserContext(), companyID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"sessions": sessions, "count": len(sessions)})
}

// AdjustSessionRequest is the /adjust-work-session body
type AdjustSessionRequest struct {
	SessionID        uint       `json:"session_id"`
	CompanyID        uint       `json:"company_id"`
	ClockInTime      *time.Time `json:"clock_in_time,omitempty"`
	ClockOutTime     time.Time  `json:"clock_out_time"`
	CorrectionReason *string    `json:"correction_reason,omitempty"`
	// MarkNormal is the owner-adjust path: the session is filed as normal
	// instead of resolved.
	MarkNormal bool `json:"mark_normal,omitempty"`
}

// AdjustSession overwrites a session's recorded times and logs the correction
func (h *Handler) AdjustSession(c *fiber.Ctx) error {
	var req AdjustSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.SessionID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}
	if req.ClockOutTime.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "clock_out_time is required")
	}

	claims, _, err := h.requireRole(c, req.CompanyID, models.RoleManager)
	if err != nil {
		return err
	}

	session, err := h.Clock.Adjust(c.UserContext(), timeclock.AdjustInput{
		SessionID:      req.SessionID,
		CompanyID:      req.CompanyID,
		ClockIn:        req.ClockInTime,
		ClockOut:       req.ClockOutTime,
		Reason:         req.CorrectionReason,
		ActorID:        claims.UserID,
		MarkNormal:     req.MarkNormal,
		ImpersonatorID: impersonatorID(middleware.Claims(c)),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "session_id": session.SessionID})
}

// ListTimeEvents returns the immutable event log for the company
func (h *Handler) ListTimeEvents(c *fiber.Ctx) error {
	companyID := companyIDQuery(c)
	if _, _, err := h.requireRole(c, companyID, models.RoleManager); err != nil {
		return err
	}

	limit, offset := pagination(c)
	query := h.DB.Where("company_id = ?", companyID)
	if userID := c.QueryInt("user_id", 0); userID > 0 {
		query = query.Where("user_id = ?", userID)
	}

	var timeline []models.TimeEvent
	if err := query.Order("event_time DESC").Limit(limit).Offset(offset).Find(&timeline).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"events": timeline, "count": len(timeline)})
}
