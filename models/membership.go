package models

import "time"

// Membership represents memberships table: a principal's role within one tenant
type Membership struct {
	MembershipID uint      `gorm:"primaryKey;column:membership_id" json:"membership_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_memberships_user_company" json:"user_id"`
	CompanyID    uint      `gorm:"not null;uniqueIndex:idx_memberships_user_company" json:"company_id"`
	Role         string    `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Company Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
}

// TableName specifies the table name for Membership
func (Membership) TableName() string {
	return "memberships"
}

// Role constants, ordered from least to most privileged
const (
	RoleWorker  = "worker"
	RoleManager = "manager"
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
)

var roleRank = map[string]int{
	RoleWorker:  1,
	RoleManager: 2,
	RoleAdmin:   3,
	RoleOwner:   4,
}

// ValidRole reports whether s is one of the known role names
func ValidRole(s string) bool {
	_, ok := roleRank[s]
	return ok
}

// RoleAtLeast reports whether role meets or exceeds the required role
func RoleAtLeast(role, required string) bool {
	return roleRank[role] >= roleRank[required]
}
