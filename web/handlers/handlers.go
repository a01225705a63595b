// Package handlers contains the HTTP endpoints. Every privileged handler
// re-derives the caller's role from the membership table; company or role
// claims supplied by the client are never trusted.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/auth"
	"github.com/gtiq/config"
	"github.com/gtiq/events"
	"github.com/gtiq/timeclock"
	"github.com/gtiq/web/middleware"
	"gorm.io/gorm"
)

// Handler bundles the dependencies the endpoints need. Everything is passed
// in explicitly so tests can run against an in-memory database.
type Handler struct {
	DB        *gorm.DB
	Tokens    *auth.TokenIssuer
	Clock     *timeclock.Service
	Publisher events.Publisher
	Cfg       *config.Config
}

// New creates a Handler
func New(db *gorm.DB, tokens *auth.TokenIssuer, publisher events.Publisher, cfg *config.Config) *Handler {
	return &Handler{
		DB:        db,
		Tokens:    tokens,
		Clock:     timeclock.NewService(db, publisher),
		Publisher: publisher,
		Cfg:       cfg,
	}
}

// requireRole authenticates the request and checks the caller holds at least
// the required role in the company.
func (h *Handler) requireRole(c *fiber.Ctx, companyID uint, required string) (*auth.Claims, string, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil, "", fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	if companyID == 0 {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "company_id is required")
	}

	role, err := auth.RequireRole(c.UserContext(), h.DB, claims, companyID, required)
	if err != nil {
		return nil, "", err
	}
	return claims, role, nil
}

// impersonatorID returns the acting superadmin's id when the request runs
// under an impersonation token, for audit columns.
func impersonatorID(claims *auth.Claims) *uint {
	if claims != nil && claims.Impersonating() {
		id := claims.UserID
		return &id
	}
	return nil
}

// companyIDQuery reads the active company from the query string
func companyIDQuery(c *fiber.Ctx) uint {
	return uint(c.QueryInt("company_id", 0))
}

// pagination reads page/limit query params with sane bounds
func pagination(c *fiber.Ctx) (limit, offset int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return limit, (page - 1) * limit
}
