package handlers

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/auth"
	"github.com/gtiq/models"
	"github.com/gtiq/web/middleware"
	"gorm.io/gorm"
)

// ImpersonateRequest is the /admin/impersonate body
type ImpersonateRequest struct {
	CompanyID uint   `json:"company_id"`
	AsRole    string `json:"as_role,omitempty"`
}

// Impersonate issues a scoped, signed, short-lived token that lets a
// superadmin act inside one company with an assumed role. The token is a
// verified delegation, not a client-trusted descriptor.
func (h *Handler) Impersonate(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req ImpersonateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.CompanyID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "company_id is required")
	}
	asRole := req.AsRole
	if asRole == "" {
		asRole = models.RoleOwner
	}
	if !models.ValidRole(asRole) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	var company models.Company
	err := h.DB.First(&company, req.CompanyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "company not found")
	}
	if err != nil {
		return err
	}

	ttl := h.Cfg.Auth.ImpersonationTTL
	token, err := h.Tokens.IssueImpersonation(claims.UserID, company.CompanyID, asRole, ttl)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token":        token,
		"company_id":   company.CompanyID,
		"company_name": company.Name,
		"as_role":      asRole,
		"expires_at":   time.Now().UTC().Add(ttl),
	})
}

// CreateSuperadminRequest is the /admin-create-superadmin body
type CreateSuperadminRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// CreateSuperadmin bootstraps a superadmin account. It is guarded by the
// BOOTSTRAP_KEY deployment secret (X-Bootstrap-Key header) rather than a
// session, so the very first account can be created on an empty database.
func (h *Handler) CreateSuperadmin(c *fiber.Ctx) error {
	key := h.Cfg.Auth.BootstrapKey
	supplied := c.Get("X-Bootstrap-Key")
	if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(supplied)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid bootstrap key")
	}

	var req CreateSuperadminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user := models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		IsSuperadmin: true,
		IsActive:     true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusConflict, "could not create user (email taken?)")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "user": user})
}

// CreateCompanyUserRequest is the /create-company-user body
type CreateCompanyUserRequest struct {
	CompanyID   uint   `json:"company_id,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// CreateCompanyUser creates a user plus a membership in one company. With
// company_name instead of company_id it also creates the company (superadmin
// only); otherwise owner/admin of the target company may call it.
func (h *Handler) CreateCompanyUser(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var req CreateCompanyUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}
	if !models.ValidRole(req.Role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	creatingCompany := req.CompanyID == 0
	if creatingCompany {
		if req.CompanyName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "company_id or company_name is required")
		}
		if !claims.Superadmin || claims.Impersonating() {
			return fiber.NewError(fiber.StatusForbidden, "only a superadmin can create a company")
		}
	} else {
		if _, _, err := h.requireRole(c, req.CompanyID, models.RoleAdmin); err != nil {
			return err
		}
		if req.Role == models.RoleOwner {
			if _, _, err := h.requireRole(c, req.CompanyID, models.RoleOwner); err != nil {
				return err
			}
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var created struct {
		User       models.User
		Membership models.Membership
		Company    models.Company
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		companyID := req.CompanyID
		if creatingCompany {
			created.Company = models.Company{
				Name:   req.CompanyName,
				Status: models.CompanyStatusActive,
			}
			if err := tx.Create(&created.Company).Error; err != nil {
				return err
			}
			companyID = created.Company.CompanyID
		}

		created.User = models.User{
			Email:        req.Email,
			FullName:     req.FullName,
			PasswordHash: hash,
			IsActive:     true,
		}
		if err := tx.Create(&created.User).Error; err != nil {
			return err
		}

		created.Membership = models.Membership{
			UserID:    created.User.UserID,
			CompanyID: companyID,
			Role:      req.Role,
		}
		return tx.Create(&created.Membership).Error
	})
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, "could not create user (email taken?)")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"user":       created.User,
		"membership": created.Membership,
	})
}
