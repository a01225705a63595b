package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gtiq/models"
	"gorm.io/gorm"
)

var (
	// ErrForbidden means the caller's role is insufficient for the operation
	ErrForbidden = errors.New("forbidden")
	// ErrNoMembership means the principal holds no membership in the company
	ErrNoMembership = errors.New("no membership in company")
)

// CompanyRole is one entry of a principal's membership list
type CompanyRole struct {
	CompanyID   uint   `json:"company_id"`
	CompanyName string `json:"company_name"`
	Role        string `json:"role"`
}

// Resolve returns every membership the principal holds, joined with company
// names. The "active" company is a client-side selection; the server never
// stores one.
func Resolve(ctx context.Context, db *gorm.DB, userID uint) ([]CompanyRole, error) {
	var roles []CompanyRole
	err := db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("memberships.company_id, companies.name AS company_name, memberships.role").
		Joins("JOIN companies ON companies.company_id = memberships.company_id").
		Where("memberships.user_id = ?", userID).
		Order("memberships.company_id").
		Scan(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve memberships: %w", err)
	}
	return roles, nil
}

// RoleIn returns the principal's role within one company. Client-supplied
// role claims are never trusted; this is the only source of truth.
func RoleIn(ctx context.Context, db *gorm.DB, userID, companyID uint) (string, error) {
	var membership models.Membership
	err := db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoMembership
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up membership: %w", err)
	}
	return membership.Role, nil
}

// RequireRole checks that the principal holds at least the required role in
// the company. Superadmins pass unconditionally.
func RequireRole(ctx context.Context, db *gorm.DB, claims *Claims, companyID uint, required string) (string, error) {
	if claims.Superadmin && !claims.Impersonating() {
		return models.RoleOwner, nil
	}

	// An impersonation token is scoped to exactly one company
	if claims.Impersonating() {
		if claims.ImpCompanyID != companyID {
			return "", ErrForbidden
		}
		role := claims.ImpRole
		if role == "" {
			role = models.RoleOwner
		}
		if !models.RoleAtLeast(role, required) {
			return "", ErrForbidden
		}
		return role, nil
	}

	role, err := RoleIn(ctx, db, claims.UserID, companyID)
	if err != nil {
		if errors.Is(err, ErrNoMembership) {
			return "", ErrForbidden
		}
		return "", err
	}
	if !models.RoleAtLeast(role, required) {
		return "", ErrForbidden
	}
	return role, nil
}
