package models

import "time"

// Company represents companies table (one tenant)
type Company struct {
	CompanyID uint      `gorm:"primaryKey;column:company_id" json:"company_id"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name"`
	Status    string    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	KioskPIN  *string   `gorm:"column:kiosk_pin;type:varchar(12)" json:"-"`
	LogoURL   *string   `gorm:"type:text" json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Company
func (Company) TableName() string {
	return "companies"
}

// Company status constants
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
)

// IsSuspended reports whether the tenant is blocked from clocking
func (c *Company) IsSuspended() bool {
	return c.Status == CompanyStatusSuspended
}
